package cmd_test

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/geogate"
	"github.com/go-arrower/geogate/cmd"
)

var errCmdFailed = errors.New("cmd failed")

func TestTestExecute(t *testing.T) {
	t.Parallel()

	t.Run("capture out and err", func(t *testing.T) {
		t.Parallel()

		rootCmd := &cobra.Command{Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "allowed")
			fmt.Fprintln(cmd.ErrOrStderr(), "denied")
		}}

		output, err := cmd.TestExecute(t, rootCmd)
		assert.NoError(t, err)
		assert.Contains(t, output, "allowed")
		assert.Contains(t, output, "denied")
	})

	t.Run("return error of command", func(t *testing.T) {
		t.Parallel()

		rootCmd := &cobra.Command{RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 2 {
				return fmt.Errorf("%w", errCmdFailed)
			}

			return nil
		}}

		output, err := cmd.TestExecute(t, rootCmd, "some", "args")
		assert.ErrorIs(t, err, errCmdFailed)
		assert.Contains(t, output, errCmdFailed.Error())
	})

	t.Run("share a command between goroutines", func(t *testing.T) {
		t.Parallel()

		cli := cmd.NewGeogateCLI(make(chan os.Signal))

		wg := sync.WaitGroup{}

		for range 10 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				output, err := cmd.TestExecute(t, cli, "version")
				assert.NoError(t, err)
				assert.Contains(t, output, "geogate version")
			}()
		}

		wg.Wait()
	})
}

func TestTestConfig(t *testing.T) {
	t.Parallel()

	t.Run("test defaults", func(t *testing.T) {
		t.Parallel()

		path := cmd.TestConfig(t, nil)

		vip := geogate.DefaultViper()
		vip.SetConfigFile(path)
		assert.NoError(t, vip.ReadInConfig())

		conf := &geogate.Config{}
		assert.NoError(t, vip.Unmarshal(conf))
		assert.Equal(t, geogate.TestEnv, conf.Environment)
		assert.Equal(t, 0, conf.HTTP.Port)
		assert.False(t, conf.HTTP.StatusEndpointEnabled)
		assert.Equal(t, geogate.DefaultRestrictedCountries(), conf.Policy.RestrictedCountries)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		path := cmd.TestConfig(t, map[string]any{
			"geolocation.base_url": "http://localhost:9999",
			"notifier.token":       "bot-token",
		})

		vip := geogate.DefaultViper()
		vip.SetConfigFile(path)
		assert.NoError(t, vip.ReadInConfig())

		conf := &geogate.Config{}
		assert.NoError(t, vip.Unmarshal(conf))
		assert.Equal(t, "http://localhost:9999", conf.Geolocation.BaseURL)
		assert.Equal(t, "bot-token", conf.Notifier.Token.Secret())
	})
}

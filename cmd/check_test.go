package cmd_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/geogate/cmd"
)

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()

		config := providerConfig(t)

		output, err := cmd.TestExecute(t, cmd.NewGeogateCLI(make(chan os.Signal)),
			"check", "88.198.1.1", "--config", config)
		assert.NoError(t, err)
		assert.Contains(t, output, `"allowed": true`)
		assert.Contains(t, output, `"country": "DE"`)
	})

	t.Run("denied", func(t *testing.T) {
		t.Parallel()

		config := providerConfig(t)

		output, err := cmd.TestExecute(t, cmd.NewGeogateCLI(make(chan os.Signal)),
			"check", "8.8.8.8", "--config", config)
		assert.ErrorIs(t, err, cmd.ErrAccessDenied)
		assert.Contains(t, output, `"allowed": false`)
		assert.Contains(t, output, "Access restricted for your country US.")
		assert.NotContains(t, output, "readme")
	})

	t.Run("invalid ip", func(t *testing.T) {
		t.Parallel()

		config := providerConfig(t)

		output, err := cmd.TestExecute(t, cmd.NewGeogateCLI(make(chan os.Signal)),
			"check", "999.1.1.1", "--config", config)
		assert.Error(t, err)
		assert.Contains(t, output, "invalid ip address format")
	})

	t.Run("missing ip", func(t *testing.T) {
		t.Parallel()

		_, err := cmd.TestExecute(t, cmd.NewGeogateCLI(make(chan os.Signal)), "check")
		assert.Error(t, err)
	})
}

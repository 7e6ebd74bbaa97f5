package cmd_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/geogate/cmd"
)

func TestRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("no command: show help & list of commands", func(t *testing.T) {
		t.Parallel()

		// leaving args empty or "" leads to: unknown command error, so it's set explicitly to empty slice
		output, err := cmd.TestExecute(t, cmd.NewGeogateCLI(make(chan os.Signal)), []string{}...)
		assert.NoError(t, err)
		assert.Contains(t, output, "Available Commands:")
		assert.Contains(t, output, "serve")
		assert.Contains(t, output, "check")
		assert.Contains(t, output, "version")
	})

	t.Run("unknown command: show help & list of commands", func(t *testing.T) {
		t.Parallel()

		output, err := cmd.TestExecute(t, cmd.NewGeogateCLI(make(chan os.Signal)), "non-ex-command")
		assert.Error(t, err)
		assert.Contains(t, output, "unknown command")
	})

	t.Run("config file does not exist", func(t *testing.T) {
		t.Parallel()

		output, err := cmd.TestExecute(t, cmd.NewGeogateCLI(make(chan os.Signal)),
			"check", "8.8.8.8", "--config", "testdata/does-not-exist.yaml")
		assert.Error(t, err)
		assert.Contains(t, output, "could not read config file")
	})
}

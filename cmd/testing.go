package cmd

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/go-arrower/geogate"
)

// mu serialises TestExecute, as tests running in parallel can share the same command.
var mu sync.Mutex

// TestExecute executes a geogate command with args and returns what the command wrote
// to its out and err writers.
// Combine it with TestConfig to run against a fake provider:
//
//	cmd.TestExecute(t, cmd.NewGeogateCLI(sig), "check", "8.8.8.8", "--config", cmd.TestConfig(t, nil))
func TestExecute(t *testing.T, command *cobra.Command, args ...string) (string, error) {
	t.Helper()

	mu.Lock()
	defer mu.Unlock()

	buf := &bytes.Buffer{}
	command.SetOut(buf)
	command.SetErr(buf)
	command.SetArgs(args)

	_, err := command.ExecuteC()

	return buf.String(), err
}

// TestConfig writes a config file for the test environment and returns its path for --config.
// The web router listens on a random port and the status endpoint is off,
// so commands can run in parallel.
// overrides are set on top, keyed like the config file, e.g. "geolocation.base_url".
func TestConfig(t *testing.T, overrides map[string]any) string {
	t.Helper()

	vip := geogate.DefaultViper()
	vip.Set("environment", string(geogate.TestEnv))
	vip.Set("http.port", 0)
	vip.Set("http.status_endpoint_enabled", false)

	for key, val := range overrides {
		vip.Set(key, val)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := vip.WriteConfigAs(path); err != nil {
		t.Fatalf("could not write test config: %v", err)
	}

	return path
}

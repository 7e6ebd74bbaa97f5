package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-arrower/geogate"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		Short:                 "Print geogate version and the active access policy",
		Long:                  ``,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			hash, ts := getVersionHashAndTimestamp()
			fmt.Fprintf(cmd.OutOrStdout(), "geogate version: %s from %s (%s)\n", hash, ts, runtime.Version())

			conf, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "configuration: %v\n", err)

				return
			}

			fmt.Fprintf(cmd.OutOrStdout(), "geolocation provider: %s\n", providerName(conf.Geolocation.Provider))
			fmt.Fprintf(cmd.OutOrStdout(), "restricted countries: %d\n", len(conf.Policy.RestrictedCountries))
			fmt.Fprintf(cmd.OutOrStdout(), "deny unknown country: %t\n", conf.Policy.DenyUnknownCountry)
		},
	}
}

func providerName(provider string) string {
	if provider == "" {
		return geogate.IPInfoProvider
	}

	return provider
}

// getVersionHashAndTimestamp returns the last git hash and commit timestamp.
func getVersionHashAndTimestamp() (string, string) {
	hash, timestamp, modified := readBuildInfo()

	if modified || hash == "" {
		return "@latest", time.Now().UTC().Format("2006-01-02T15:04:05Z")
	}

	return hash, timestamp
}

// readBuildInfo returns the last commit hash, commit timestamp, and if the binary contains uncommitted code.
// go run and go test builds carry none of it.
func readBuildInfo() (string, string, bool) {
	var (
		commitHash  string
		commitTS    string
		vcsModified bool
	)

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				commitHash = setting.Value
			case "vcs.time":
				commitTS = setting.Value
			case "vcs.modified":
				vcsModified = setting.Value == "true"
			}
		}
	}

	return commitHash, commitTS, vcsModified
}

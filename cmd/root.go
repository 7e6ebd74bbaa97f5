package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-arrower/geogate"
)

const configFlag = "config"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "geogate",
		Short: "geogate allows or denies access based on the country of an ip address.",
		Long: `A gateway resolving the country of a client ip with a geolocation provider
and checking it against a list of restricted countries.`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().String(configFlag, "", "path to a yaml config file, see config.example.yaml")

	return root
}

// NewGeogateCLI initialises the complete geogate cli with its commands and returns the root command.
func NewGeogateCLI(osSignal <-chan os.Signal) *cobra.Command {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(osSignal))
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

// Execute runs the geogate cli.
func Execute() {
	if err := NewGeogateCLI(NewInterruptSignalChannel()).Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration from the defaults, the environment and
// the config file given with --config.
func loadConfig(cmd *cobra.Command) (*geogate.Config, error) {
	vip := geogate.DefaultViper()

	path, _ := cmd.Flags().GetString(configFlag)
	if path != "" {
		vip.SetConfigFile(path)

		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	conf := &geogate.Config{}
	if err := vip.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	return conf, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color" //nolint:misspell
	"github.com/spf13/cobra"

	"github.com/go-arrower/geogate"
	access_init "github.com/go-arrower/geogate/contexts/access/init"
)

const shutdownTimeout = 10 * time.Second

// NewInterruptSignalChannel returns a channel listening for os.Signals geogate will react to.
func NewInterruptSignalChannel() chan os.Signal {
	signalsToListenTo := []os.Signal{
		syscall.SIGINT,                   // Strg + c
		syscall.SIGTERM, syscall.SIGQUIT, // terminate but finish/cleanup first, e.g. kill
		os.Interrupt,
	}

	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, signalsToListenTo...)

	return osSignal
}

func newServeCmd(osSignal <-chan os.Signal) *cobra.Command {
	return &cobra.Command{
		Use:                   "serve",
		Short:                 "start the gateway",
		Long:                  ``,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			blue := color.New(color.FgBlue, color.Bold).FprintfFunc()
			ctx := cmd.Context()

			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			version, _ := getVersionHashAndTimestamp()
			blue(cmd.OutOrStdout(), "geogate version %s\n", version)

			di, err := geogate.InitialiseDefaultDependencies(ctx, conf)
			if err != nil {
				return fmt.Errorf("could not initialise dependencies: %w", err)
			}

			accessContext, err := access_init.NewAccessContext(di)
			if err != nil {
				return fmt.Errorf("could not initialise access context: %w", err)
			}

			if err = di.Start(ctx); err != nil {
				return fmt.Errorf("could not start: %w", err)
			}

			blue(cmd.OutOrStdout(), "listening on :%d (%s)\n", conf.HTTP.Port, conf.Environment)

			if conf.HTTP.StatusEndpointEnabled {
				blue(cmd.OutOrStdout(), "status on :%d\n", conf.HTTP.StatusEndpointPort)
			}

			<-osSignal
			blue(cmd.OutOrStdout(), "shutting down\n")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			_ = accessContext.Shutdown(shutdownCtx)

			if err = di.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("could not shutdown cleanly: %w", err)
			}

			blue(cmd.OutOrStdout(), "done\n")

			return nil
		},
	}
}

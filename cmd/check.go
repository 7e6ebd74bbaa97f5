package cmd

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/go-arrower/geogate"
	access_init "github.com/go-arrower/geogate/contexts/access/init"
)

var ErrAccessDenied = errors.New("access denied")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <ip>",
		Short: "check once if an ip gets access",
		Long: `Resolves the country of the ip with the configured provider and prints the decision as JSON.
Exits with 1, if the access is denied or the ip could not be checked.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// a one off check does not need the servers, so they are never started.
			conf.HTTP.StatusEndpointEnabled = false

			di, err := geogate.InitialiseDefaultDependencies(ctx, conf)
			if err != nil {
				return fmt.Errorf("could not initialise dependencies: %w", err)
			}

			accessContext, err := access_init.NewAccessContext(di)
			if err != nil {
				return fmt.Errorf("could not initialise access context: %w", err)
			}

			defer func() {
				_ = accessContext.Shutdown(ctx)
				_ = di.Shutdown(ctx)
			}()

			decision, err := accessContext.Check(ctx, args[0])
			if err != nil {
				return fmt.Errorf("could not check %s: %w", args[0], err)
			}

			out, _ := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(decision, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !decision.Allowed {
				return fmt.Errorf("%w: %s", ErrAccessDenied, decision.Message)
			}

			return nil
		},
	}
}

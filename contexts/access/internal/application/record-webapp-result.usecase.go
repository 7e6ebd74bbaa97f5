package application

import (
	"context"
	"log/slog"

	"github.com/go-arrower/geogate/alog"
)

type RecordWebAppResultCommand struct {
	Result  bool   `json:"result"`
	Details string `json:"details" validate:"max=4096"`
}

// RecordWebAppResult acknowledges the result a web app reports back.
// It is only logged.
func RecordWebAppResult(logger alog.Logger) func(context.Context, RecordWebAppResultCommand) error {
	return func(ctx context.Context, in RecordWebAppResultCommand) error {
		logger.InfoContext(ctx, "web app result received",
			slog.Bool("result", in.Result),
			slog.String("details", in.Details),
		)

		return nil
	}
}

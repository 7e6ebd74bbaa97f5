package mw

import (
	"context"
	"log/slog"

	"github.com/go-arrower/geogate/alog"
)

// Logged wraps an application function / command with debug logs.
func Logged[in, out any, F DecoratorFunc[in, out]](logger alog.Logger, next F) F { //nolint:ireturn // valid use of generics
	return func(ctx context.Context, in in) (out, error) {
		cmdName := commandName(in)

		logger.DebugContext(ctx, "executing command",
			slog.String("command", cmdName),
		)

		result, err := next(ctx, in)

		if err == nil {
			logger.DebugContext(ctx, "command executed successfully",
				slog.String("command", cmdName))
		} else {
			logger.DebugContext(ctx, "failed to execute command",
				slog.String("command", cmdName),
				slog.String("error", err.Error()),
			)
		}

		return result, err
	}
}

// LoggedU is like Logged but for functions only returning errors.
func LoggedU[in any, F DecoratorFuncUnary[in]](logger alog.Logger, next F) F { //nolint:ireturn // valid use of generics
	return func(ctx context.Context, in in) error {
		cmdName := commandName(in)

		logger.DebugContext(ctx, "executing command",
			slog.String("command", cmdName),
		)

		err := next(ctx, in)

		if err == nil {
			logger.DebugContext(ctx, "command executed successfully",
				slog.String("command", cmdName))
		} else {
			logger.DebugContext(ctx, "failed to execute command",
				slog.String("command", cmdName),
				slog.String("error", err.Error()),
			)
		}

		return err
	}
}

// Package alog is the structured logger of geogate.
//
// It builds on log/slog and adds:
//   - fan out of one record to multiple slog.Handlers,
//   - trace and span ids of the active span on every record,
//   - attributes carried in the context.Context, e.g. the request id,
//   - two geogate levels below slog.LevelDebug for internals.
package alog

import (
	"context"
	"log/slog"
)

// Logger interface is a subset of slog.Logger, with the aim to:
//  1. encourage the use of the methods offering context.Context, so that tracing information can be correlated,
//  2. encourage the use of the levels `DEBUG` and `INFO` over others, but without preventing them.
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
	LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	With(args ...any) *slog.Logger
	WithGroup(name string) *slog.Logger
}

var (
	_ Logger = (*slog.Logger)(nil)
	_ Logger = (*TestLogger)(nil)
)

const (
	// LevelInfo is used to see what is going on inside geogate.
	LevelInfo = slog.Level(-8)

	// LevelDebug is used by geogate developers, if you really want to know what is going on.
	LevelDebug = slog.Level(-12)
)

// MapLogLevelsToName replaces the default name of a custom log level with a speaking name for the geogate levels.
func MapLogLevelsToName(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		level, _ := attr.Value.Any().(slog.Level)

		levelLabel, exists := getLevelNames()[level]
		if !exists {
			levelLabel = level.String()
		}

		attr.Value = slog.StringValue(levelLabel)
	}

	return attr
}

// getLevelNames maps the geogate log levels to human-readable names.
func getLevelNames() map[slog.Leveler]string {
	return map[slog.Leveler]string{
		LevelInfo:  "GEOGATE:INFO",
		LevelDebug: "GEOGATE:DEBUG",
	}
}

type ctxKey struct{}

// AddAttr adds a single attribute to ctx.
// All attributes in the context are added to each record logged with that context.
func AddAttr(ctx context.Context, attr slog.Attr) context.Context {
	return AddAttrs(ctx, attr)
}

// AddAttrs adds multiple attributes to ctx, see AddAttr.
func AddAttrs(ctx context.Context, newAttrs ...slog.Attr) context.Context {
	attrs := FromContext(ctx)

	combined := make([]slog.Attr, 0, len(attrs)+len(newAttrs))
	combined = append(combined, attrs...)
	combined = append(combined, newAttrs...)

	return context.WithValue(ctx, ctxKey{}, combined)
}

// ClearAttrs removes all attributes from ctx.
func ClearAttrs(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, []slog.Attr{})
}

// FromContext returns all attributes stored in ctx.
// If there are none, an empty slice is returned.
func FromContext(ctx context.Context) []slog.Attr {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		return attrs
	}

	return []slog.Attr{}
}

// Error is a convenience attribute for errors, so they are logged with the same key everywhere.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "")
	}

	return slog.String("err", err.Error())
}

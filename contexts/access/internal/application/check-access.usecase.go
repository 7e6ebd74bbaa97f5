package application

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/go-arrower/geogate/alog"
	"github.com/go-arrower/geogate/contexts/access/internal/domain"
)

type (
	CheckAccessRequest struct {
		// IP is validated by the domain, so that all malformed addresses map to domain.ErrInvalidFormat.
		IP string

		// Notify sends a notification to the operators, if access is allowed.
		Notify bool

		// Passthrough are opaque parameters of the caller, e.g. user_id or query_id.
		// They are logged, shortened to maxPassthroughLogLen, and not used otherwise.
		Passthrough map[string]string
	}
	CheckAccessResponse struct {
		Decision domain.Decision
	}
)

// CheckAccess validates the ip, resolves its country and decides on access.
// A denied access is a valid Decision and not an error.
func CheckAccess(
	logger alog.Logger,
	resolver domain.Resolver,
	policy domain.RestrictedCountries,
	notifier domain.Notifier,
) func(context.Context, CheckAccessRequest) (CheckAccessResponse, error) {
	return func(ctx context.Context, in CheckAccessRequest) (CheckAccessResponse, error) {
		if len(in.Passthrough) > 0 {
			logger.DebugContext(ctx, "passthrough parameters", passthroughAttrs(in.Passthrough))
		}

		ip, err := domain.ParseIPAddress(in.IP)
		if err != nil {
			return CheckAccessResponse{}, fmt.Errorf("%w: %q", err, in.IP)
		}

		info, err := resolver.Resolve(ctx, ip)
		if err != nil {
			logger.InfoContext(ctx, "could not resolve ip",
				slog.String("ip", ip.String()),
				alog.Error(err),
			)

			return CheckAccessResponse{}, fmt.Errorf("could not get country for ip %s: %w", ip, err)
		}

		verdict := policy.Evaluate(info)
		decision := domain.NewDecision(verdict, info)

		logger.DebugContext(ctx, "access decided",
			slog.String("ip", ip.String()),
			slog.String("country", info.Country),
			slog.Bool("allowed", decision.Allowed),
		)

		if in.Notify && decision.Allowed {
			if err := notifier.Notify(ctx, domain.AllowedNotification(ip, info)); err != nil {
				logger.InfoContext(ctx, "could not send notification",
					slog.String("ip", ip.String()),
					alog.Error(err),
				)
			}
		}

		return CheckAccessResponse{Decision: decision}, nil
	}
}

const maxPassthroughLogLen = 256

func passthroughAttrs(params map[string]string) slog.Attr {
	keys := slices.Sorted(maps.Keys(params))
	attrs := make([]any, 0, len(keys))

	for _, k := range keys {
		attrs = append(attrs, slog.String(shorten(k), shorten(params[k])))
	}

	return slog.Group("passthrough", attrs...)
}

// shorten cuts s after maxPassthroughLogLen bytes, e.g. for Telegram init data.
func shorten(s string) string {
	if len(s) <= maxPassthroughLogLen {
		return s
	}

	return strings.ToValidUTF8(s[:maxPassthroughLogLen], "") + "..."
}

package init

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-arrower/geogate"
	"github.com/go-arrower/geogate/contexts/access"
	"github.com/go-arrower/geogate/contexts/access/internal/application"
	"github.com/go-arrower/geogate/contexts/access/internal/domain"
	"github.com/go-arrower/geogate/contexts/access/internal/infrastructure"
	"github.com/go-arrower/geogate/contexts/access/internal/interfaces/web"
	"github.com/go-arrower/geogate/mw"
)

const contextName = "access"

var ErrUnknownProvider = errors.New("unknown geolocation provider")

func NewAccessContext(di *geogate.Container) (*AccessContext, error) {
	if err := di.EnsureAllDependenciesPresent(); err != nil {
		return nil, fmt.Errorf("could not initialise access context: %w", err)
	}

	logger := di.Logger.WithGroup(contextName)
	conf := di.Config

	resolver, closeResolver, err := newResolver(conf.Geolocation)
	if err != nil {
		return nil, fmt.Errorf("could not initialise access context: %w", err)
	}

	var notifier domain.Notifier = infrastructure.NoopNotifier{}
	if conf.Notifier.Enabled {
		notifier = infrastructure.NewTelegramNotifier(conf.Notifier.APIURL, conf.Notifier.Token, conf.Notifier.ChatID, nil)
	}

	policy := domain.NewRestrictedCountries(
		conf.Policy.RestrictedCountries,
		domain.WithDenyUnknownCountry(conf.Policy.DenyUnknownCountry),
	)

	logger.LogAttrs(context.Background(), slog.LevelInfo, "access policy loaded",
		slog.String("provider", conf.Geolocation.Provider),
		slog.Int("restricted_countries", len(conf.Policy.RestrictedCountries)),
		slog.Bool("deny_unknown_country", conf.Policy.DenyUnknownCountry),
		slog.Bool("notifier_enabled", conf.Notifier.Enabled),
	)

	controller := web.NewAccessController(logger, conf.HTTP.ExposeErrorDetails)
	controller.CmdCheckAccess = mw.Traced(di.TraceProvider,
		mw.Metric(di.MeterProvider,
			mw.Logged(logger,
				mw.Validate(nil,
					application.CheckAccess(logger, resolver, policy, notifier),
				),
			),
		),
	)
	controller.CmdRecordWebAppResult = mw.TracedU(di.TraceProvider,
		mw.MetricU(di.MeterProvider,
			mw.LoggedU(logger,
				mw.ValidateU(nil,
					application.RecordWebAppResult(logger),
				),
			),
		),
	)

	accessContext := AccessContext{
		controller:    controller,
		logger:        logger,
		closeResolver: closeResolver,
	}

	accessContext.registerWebRoutes(di.WebRouter)

	return &accessContext, nil
}

type AccessContext struct {
	controller *web.AccessController

	logger        *slog.Logger
	closeResolver func()
}

var _ access.API = (*AccessContext)(nil)

func (c *AccessContext) Check(ctx context.Context, ip string) (access.Decision, error) {
	res, err := c.controller.CmdCheckAccess(ctx, application.CheckAccessRequest{IP: ip})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			return access.Decision{}, fmt.Errorf("%w: %v", access.ErrInvalidIP, err)
		}

		return access.Decision{}, fmt.Errorf("%w: %v", access.ErrLookupFailed, err)
	}

	return toAPIDecision(res.Decision), nil
}

func (c *AccessContext) Shutdown(ctx context.Context) error {
	c.logger.LogAttrs(ctx, slog.LevelDebug, "closing geolocation resolver")
	c.closeResolver()

	return nil
}

func newResolver(conf geogate.Geolocation) (domain.Resolver, func(), error) { //nolint:ireturn // the provider is chosen by config
	switch conf.Provider {
	case "", geogate.IPInfoProvider:
		return infrastructure.NewIPInfoResolver(conf.BaseURL, nil), func() {}, nil
	case geogate.IP2LocationProvider:
		resolver, err := infrastructure.NewIP2LocationResolver(conf.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open ip2location database: %w", err)
		}

		return resolver, resolver.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProvider, conf.Provider)
	}
}

func toAPIDecision(d domain.Decision) access.Decision {
	return access.Decision{
		Allowed: d.Allowed,
		Message: d.Message,
		Info:    access.GeoInfo(d.Info),
	}
}

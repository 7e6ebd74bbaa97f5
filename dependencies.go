package geogate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	prometheusSDK "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"golang.org/x/sync/errgroup"

	"github.com/go-arrower/geogate/alog"
)

var ErrMissingDependency = errors.New("missing dependency")

// Container holds global dependencies that can be used within each Context, to make initialisation easier.
// If the Context can operate with the shared resources.
// Otherwise, the Context is advised to initialise its own dependencies from its own configuration.
type Container struct {
	Logger        alog.Logger
	MeterProvider *metric.MeterProvider
	TraceProvider *trace.TracerProvider

	Config *Config

	WebRouter *echo.Echo

	metricsRegistry *prometheusSDK.Registry
	metricsEndpoint *http.Server
}

func (c *Container) EnsureAllDependenciesPresent() error {
	if c.Config == nil {
		return fmt.Errorf("%w: global config not found", ErrMissingDependency)
	}

	if c.Logger == nil {
		return fmt.Errorf("%w: logger not found", ErrMissingDependency)
	}

	if c.WebRouter == nil {
		return fmt.Errorf("%w: web router not found", ErrMissingDependency)
	}

	return nil
}

// InitialiseDefaultDependencies sets up observability, logging and the web router.
// Nothing is started, call Start for that.
func InitialiseDefaultDependencies(ctx context.Context, conf *Config) (*Container, error) {
	if conf == nil {
		return nil, fmt.Errorf("%w: global config not found", ErrMissingDependency)
	}

	if conf.InstanceName == "" {
		conf.InstanceName = hostname()
	}

	dc := &Container{
		Config:          conf,
		metricsRegistry: prometheusSDK.NewRegistry(),
	}

	{ // observability
		resource := resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(fmt.Sprintf("%s.%s", conf.OrganisationName, conf.ApplicationName)),
			attribute.String(conf.OrganisationName, conf.ApplicationName),
		)

		{ // traces
			opts := []otlptracegrpc.Option{
				otlptracegrpc.WithEndpoint(fmt.Sprintf("%s:%d", conf.OTEL.Host, conf.OTEL.Port)),
				otlptracegrpc.WithInsecure(),
			}

			if conf.Environment == TestEnv {
				// no collector is running while testing, keep shutdown short.
				opts = append(opts, otlptracegrpc.WithTimeout(10*time.Millisecond))
			}

			traceExporter, err := otlptracegrpc.New(ctx, opts...)
			if err != nil {
				return nil, fmt.Errorf("could not connect to trace exporter: %w", err)
			}

			traceProvider := trace.NewTracerProvider(
				trace.WithBatcher(traceExporter),
				trace.WithResource(resource),
				trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(0.6))),
			)
			if conf.Environment == LocalEnv {
				traceProvider = trace.NewTracerProvider(
					trace.WithBatcher(traceExporter, trace.WithBlocking()),
					trace.WithResource(resource),
					trace.WithSampler(trace.AlwaysSample()),
				)
			}

			dc.TraceProvider = traceProvider
			otel.SetTracerProvider(traceProvider)
		}

		{ // metrics
			dc.metricsRegistry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			exporter, err := prometheus.New(prometheus.WithRegisterer(dc.metricsRegistry))
			if err != nil {
				return nil, fmt.Errorf("could not create prometheus exporter: %w", err)
			}

			meterProvider := metric.NewMeterProvider(
				metric.WithResource(resource),
				metric.WithReader(exporter),
			)

			dc.MeterProvider = meterProvider
			otel.SetMeterProvider(meterProvider)
		}
	}

	{ // logger
		var logger *slog.Logger

		switch conf.Environment {
		case LocalEnv:
			logger = alog.NewDevelopment(&alog.LokiHandlerOptions{
				Labels: map[string]string{conf.OrganisationName: conf.ApplicationName},
			})
		case TestEnv:
			logger = alog.NewNoop()
		case DevelopmentEnv, ProductionEnv:
			logger = alog.New()
		}

		if logger == nil {
			logger = alog.New()
		}

		logger = logger.With(
			slog.String("organisation_name", conf.OrganisationName),
			slog.String("application_name", conf.ApplicationName),
			slog.String("instance_name", conf.InstanceName),
			slog.String("git_hash", gitHash()),
			slog.String("environment", string(conf.Environment)),
		)

		dc.Logger = logger
		slog.SetDefault(logger)
	}

	{ // web router
		router := echo.New()
		router.HideBanner = true
		router.HidePort = true
		router.Logger.SetOutput(io.Discard)
		router.JSONSerializer = &JSONSerializer{}
		router.Validator = &CustomValidator{validator: validator.New()}

		// see: https://echo.labstack.com/docs/ip-address
		router.IPExtractor = echo.ExtractIPDirect()
		if conf.HTTP.TrustForwardedFor {
			router.IPExtractor = echo.ExtractIPFromXFFHeader()
		}

		router.Use(middleware.Recover())
		router.Use(otelecho.Middleware(conf.OTEL.Hostname, otelecho.WithTracerProvider(dc.TraceProvider)))
		router.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  conf.ApplicationName,
			Registerer: dc.metricsRegistry,
		}))
		router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator:    uuid.NewString,
			TargetHeader: echo.HeaderXRequestID,
			RequestIDHandler: func(c echo.Context, rid string) {
				c.SetRequest(c.Request().WithContext(alog.AddAttr(
					c.Request().Context(),
					slog.String("request_id", rid)),
				))
			},
		}))

		if conf.Environment == LocalEnv {
			router.Debug = true
		}

		dc.WebRouter = router
	}

	return dc, nil
}

func (c *Container) Start(ctx context.Context) error {
	if err := c.EnsureAllDependenciesPresent(); err != nil {
		return err
	}

	c.Logger.LogAttrs(ctx, alog.LevelInfo, "starting all servers")

	if c.Config.HTTP.StatusEndpointEnabled {
		c.metricsEndpoint = serveMetrics(ctx, c)
	}

	go func() {
		err := c.WebRouter.Start(fmt.Sprintf(":%d", c.Config.HTTP.Port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Logger.InfoContext(ctx, "could not serve web router", alog.Error(err))
		}
	}()

	return nil
}

func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.LogAttrs(ctx, alog.LevelInfo, "shutting down all servers")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.WebRouter.Shutdown(ctx) //nolint:wrapcheck // errgroup returns it as is
	})

	if c.metricsEndpoint != nil {
		g.Go(func() error {
			return c.metricsEndpoint.Shutdown(ctx) //nolint:wrapcheck // errgroup returns it as is
		})
	}

	err := g.Wait()

	// providers flush last, so spans and metrics of the final requests are not lost.
	err = errors.Join(err,
		c.TraceProvider.Shutdown(ctx),
		c.MeterProvider.Shutdown(ctx),
	)
	if err != nil {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	return nil
}

func serveMetrics(ctx context.Context, di *Container) *http.Server {
	const (
		metricPath = "/metrics"
		statusPath = "/status"
	)

	serverStartedAt := time.Now()

	mux := http.NewServeMux()
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", di.Config.HTTP.StatusEndpointPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	di.Logger.InfoContext(ctx, "serving status endpoint",
		slog.String("addr", srv.Addr),
		slog.String("metric_path", metricPath),
		slog.String("status_path", statusPath),
	)

	mux.Handle(metricPath, promhttp.HandlerFor(
		di.metricsRegistry,
		promhttp.HandlerOpts{ //nolint:exhaustruct
			EnableOpenMetrics: true, // to enable Examplars in the export format
		},
	))

	mux.HandleFunc(statusPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)

		_ = jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(getSystemStatus(di, serverStartedAt))
	})

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			di.Logger.DebugContext(ctx, "error serving http", alog.Error(err))

			return
		}
	}()

	return srv
}

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err //nolint:wrapcheck // return the original validate error to not break the API for the caller.
	}

	return nil
}

// JSONSerializer is an echo.JSONSerializer backed by json-iterator.
type JSONSerializer struct{}

var _ echo.JSONSerializer = (*JSONSerializer)(nil)

func (s *JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}

	return enc.Encode(i) //nolint:wrapcheck // echo handles the error
}

func (s *JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body").SetInternal(err)
	}

	return nil
}

func gitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return name
}

package alog

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LoggerOpt allows to initialise a logger with custom options.
type LoggerOpt func(logger *gateHandler)

// WithHandler adds a slog.Handler to be logged to.
// You can set as many as you want.
func WithHandler(h slog.Handler) LoggerOpt {
	return func(l *gateHandler) {
		l.handlers = append(l.handlers, h)
	}
}

// WithLevel initialises the logger with a starting level.
// To change the level at runtime use GateLogger.SetLevel:
// Unwrap(logger).SetLevel(LevelInfo).
func WithLevel(level slog.Level) LoggerOpt {
	return func(l *gateHandler) {
		l.level = &level
	}
}

// New returns a production ready logger.
//
// If no options are given it creates a default handler, logging JSON to Stderr.
// Otherwise, use WithHandler to set your own loggers.
// For an example of options at work, see NewDevelopment.
func New(opts ...LoggerOpt) *slog.Logger {
	return slog.New(newGateHandler(opts...))
}

// NewDevelopment returns a logger ready for local development purposes.
// Next to a readable text output on Stderr it ships all records to a local loki instance,
// if lokiOpt is not nil.
func NewDevelopment(lokiOpt *LokiHandlerOptions) *slog.Logger {
	config := []LoggerOpt{
		WithLevel(slog.LevelDebug),
		WithHandler(slog.NewTextHandler(os.Stderr, getDebugHandlerOptions())),
	}

	if lokiOpt != nil {
		config = append(config, WithHandler(NewLokiHandler(lokiOpt)))
	}

	return New(config...)
}

// newGateHandler implements the main geogate specific logging logic.
// It does not output anything directly and relies on other slog.Handlers to do so.
// If no Handlers are provided via WithHandler, a default JSON handler logs to os.Stderr.
func newGateHandler(opts ...LoggerOpt) *gateHandler {
	var (
		defaultLevel    = slog.LevelInfo
		defaultHandlers = []slog.Handler{slog.NewJSONHandler(os.Stderr, getDefaultHandlerOptions())}
	)

	logger := &gateHandler{&tracedHandler{
		handlers: []slog.Handler{},
		level:    &defaultLevel,
	}}

	for _, opt := range opts {
		opt(logger)
	}

	hasCustomHandlers := len(logger.handlers) != 0
	if !hasCustomHandlers {
		logger.handlers = defaultHandlers
	}

	return logger
}

// gateHandler is the main handler of geogate, offering to log to multiple handlers.
// It's also doing all the lifting for observability.
type gateHandler struct {
	*tracedHandler
}

var (
	_ GateLogger   = (*gateHandler)(nil)
	_ slog.Handler = (*gateHandler)(nil)
)

func (l *gateHandler) Enabled(_ context.Context, level slog.Level) bool {
	// return early, so the record is not created if not required anyway.
	return level >= *l.level
}

func (l *gateHandler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)

	newCtx, innerSpan := span.TracerProvider().Tracer("geogate.log").Start(ctx, "log")
	defer innerSpan.End()

	return l.tracedHandler.Handle(newCtx, record)
}

func (l *gateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return l.tracedHandler.WithAttrs(attrs)
}

func (l *gateHandler) WithGroup(name string) slog.Handler {
	return l.tracedHandler.WithGroup(name)
}

func addTraceAndSpanIDsToLogs(span trace.Span, record slog.Record) slog.Record {
	sCtx := span.SpanContext()
	attrs := make([]slog.Attr, 0)

	if sCtx.HasTraceID() {
		attrs = append(attrs, slog.String("traceID", sCtx.TraceID().String()))
	}

	if sCtx.HasSpanID() {
		attrs = append(attrs, slog.String("spanID", sCtx.SpanID().String()))
	}

	if len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}

	return record
}

func addLogsToActiveSpanAsEvent(span trace.Span, attrs []attribute.KeyValue, record slog.Record) {
	span.AddEvent("log", trace.WithAttributes(attrs...))

	if record.Level >= slog.LevelError {
		span.SetStatus(codes.Error, record.Message)
	}
}

func getAttrsFromRecord(record slog.Record) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, record.NumAttrs()+2) //nolint:mnd // severity and message

	attrs = append(attrs, attribute.String("log.severity", record.Level.String()))
	attrs = append(attrs, attribute.String("log.message", record.Message))

	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, attribute.String(a.Key, a.Value.String()))

		return true // process next attr
	})

	return attrs
}

var _ slog.Handler = (*tracedHandler)(nil)

// tracedHandler is used so the whole call to the logger is traced.
type tracedHandler struct {
	// level reports the minimum record level that will be logged.
	// The level of individual handlers set via WithHandler is ignored.
	// It is shared by all loggers derived via With and WithGroup.
	level *slog.Level

	// handlers is a list which all get called with the same log message.
	handlers []slog.Handler
}

func (l *tracedHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= *l.level
}

func (l *tracedHandler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)

	record = addTraceAndSpanIDsToLogs(span, record)

	if attrs := FromContext(ctx); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}

	attrs := getAttrsFromRecord(record)

	span.SetAttributes(attrs...)
	addLogsToActiveSpanAsEvent(span, attrs, record)

	var retErr error

	for _, h := range l.handlers {
		err := h.Handle(ctx, record)
		retErr = errors.Join(retErr, err)
	}

	return retErr
}

func (l *tracedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(l.handlers))

	for i, h := range l.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}

	return &gateHandler{&tracedHandler{
		handlers: handlers,
		level:    l.level,
	}}
}

func (l *tracedHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(l.handlers))

	for i, h := range l.handlers {
		handlers[i] = h.WithGroup(name)
	}

	return &gateHandler{&tracedHandler{
		handlers: handlers,
		level:    l.level,
	}}
}

// SetLevel changes the level for all loggers set with WithHandler().
// Even the ones "copied" via any WithX method.
func (l *tracedHandler) SetLevel(level slog.Level) {
	*l.level = level
}

// Level returns the log level of the handler.
func (l *tracedHandler) Level() slog.Level {
	return l.level.Level()
}

// GateLogger offers additional control over a Logger at run time.
// Unwrap a logger to get access to these features.
type GateLogger interface {
	SetLevel(level slog.Level)
	Level() slog.Level
}

// Unwrap unwraps the given logger and returns a GateLogger.
// In case of an unknown implementation of logger, it returns nil.
func Unwrap(logger Logger) GateLogger { //nolint:ireturn // interface required to return a TestLogger and gateHandler
	if l, ok := logger.(*TestLogger); ok {
		return l
	}

	sl, ok := logger.(*slog.Logger)
	if !ok {
		return nil
	}

	if l, ok := sl.Handler().(*gateHandler); ok {
		return l
	}

	return nil
}

func getDefaultHandlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource:   true,
		Level:       LevelDebug, // this level is ignored, gateHandler's level is used for all handlers.
		ReplaceAttr: MapLogLevelsToName,
	}
}

// getDebugHandlerOptions is to keep the log output more readable, by removing not essential keys.
func getDebugHandlerOptions() *slog.HandlerOptions {
	opt := getDefaultHandlerOptions()
	opt.AddSource = false

	return opt
}

package mw

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric wraps an application function / command with metric measurements.
//
// This middleware provides two metrics:
// usecases_total as a counter of all use cases called and
// usecases_duration_seconds as a histogram of execution time of the use cases.
func Metric[in, out any, F DecoratorFunc[in, out]](meterProvider metric.MeterProvider, next F) F { //nolint:ireturn // valid use of generics
	counter, duration := newUseCaseInstruments(meterProvider)

	return func(ctx context.Context, in in) (out, error) {
		start := time.Now()

		result, err := next(ctx, in)

		record(ctx, counter, duration, commandName(in), start, err)

		return result, err
	}
}

// MetricU see Metric.
func MetricU[in any, F DecoratorFuncUnary[in]](meterProvider metric.MeterProvider, next F) F { //nolint:ireturn // valid use of generics
	counter, duration := newUseCaseInstruments(meterProvider)

	return func(ctx context.Context, in in) error {
		start := time.Now()

		err := next(ctx, in)

		record(ctx, counter, duration, commandName(in), start, err)

		return err
	}
}

func newUseCaseInstruments(meterProvider metric.MeterProvider) (metric.Int64Counter, metric.Float64Histogram) {
	meter := meterProvider.Meter("geogate.application")

	counter, _ := meter.Int64Counter("usecases", metric.WithDescription("number of executed use cases"))
	duration, _ := meter.Float64Histogram("usecases_duration_seconds",
		metric.WithDescription("execution time of use cases"),
		metric.WithUnit("s"),
	)

	return counter, duration
}

func record(
	ctx context.Context,
	counter metric.Int64Counter,
	duration metric.Float64Histogram,
	cmdName string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	opt := metric.WithAttributes(
		attribute.String("command", cmdName),
		attribute.String("status", status),
	)

	counter.Add(ctx, 1, opt)
	duration.Record(ctx, time.Since(start).Seconds(), opt)
}

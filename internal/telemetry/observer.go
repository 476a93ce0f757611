package telemetry

import (
	"context"
	"fmt"

	"github.com/alexanderramin/pmt/internal/app"
	"github.com/alexanderramin/pmt/internal/service"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const useCaseScope = instrumentationScope + "/service"

// useCaseObserver turns service use-case events into a span plus call,
// error and duration metrics.
type useCaseObserver struct {
	tracer trace.Tracer
	calls  metric.Int64Counter
	errs   metric.Int64Counter
	dur    metric.Float64Histogram
}

// NewUseCaseObserver builds an observer over the given providers.
func NewUseCaseObserver(tp trace.TracerProvider, mp metric.MeterProvider) (service.UseCaseObserver, error) {
	m := mp.Meter(useCaseScope)
	calls, err := m.Int64Counter("pmt.usecase.calls",
		metric.WithDescription("Service use cases executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating calls counter: %w", err)
	}
	errs, err := m.Int64Counter("pmt.usecase.errors",
		metric.WithDescription("Service use cases that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}
	dur, err := m.Float64Histogram("pmt.usecase.duration",
		metric.WithDescription("Service use case duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	return &useCaseObserver{tracer: tp.Tracer(useCaseScope), calls: calls, errs: errs, dur: dur}, nil
}

func (o *useCaseObserver) ObserveUseCase(ctx context.Context, ev service.UseCaseEvent) {
	attrs := []attribute.KeyValue{
		attribute.String("pmt.use_case", ev.Name),
		attribute.Bool("pmt.success", ev.Success),
	}

	_, span := o.tracer.Start(ctx, "usecase."+ev.Name,
		trace.WithTimestamp(ev.StartedAt),
		trace.WithAttributes(attrs...),
	)
	for k, v := range ev.Fields {
		span.SetAttributes(attribute.String("pmt."+k, fmt.Sprint(v)))
	}

	o.calls.Add(ctx, 1, metric.WithAttributes(attrs...))
	o.dur.Record(ctx, float64(ev.Duration.Microseconds())/1000, metric.WithAttributes(attribute.String("pmt.use_case", ev.Name)))

	if ev.Err != nil {
		code := string(app.CodeOf(ev.Err))
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, code)
		o.errs.Add(ctx, 1, metric.WithAttributes(
			attribute.String("pmt.use_case", ev.Name),
			attribute.String("pmt.error_code", code),
		))
	}
	span.End(trace.WithTimestamp(ev.StartedAt.Add(ev.Duration)))
}

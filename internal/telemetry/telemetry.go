// Package telemetry wires OpenTelemetry tracing and metrics for pmt.
//
// Telemetry is off by default. When off, no-op providers are installed and
// nothing is exported. When on, spans and metrics are written to the
// configured writer (stderr unless overridden) by the stdout exporters.
package telemetry

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/alexanderramin/pmt"

// Options selects what Setup installs.
type Options struct {
	Enabled     bool
	Stdout      bool      // pretty-print spans and export metrics
	Writer      io.Writer // defaults to os.Stderr
	ServiceName string
	Version     string
}

// Providers holds the installed providers. Shutdown flushes and stops them.
type Providers struct {
	Tracer trace.TracerProvider
	Meter  metric.MeterProvider

	shutdown []func(context.Context) error
}

// Setup installs global tracer and meter providers. With Enabled false it
// installs no-op providers and returns immediately.
func Setup(ctx context.Context, opts Options) (*Providers, error) {
	if !opts.Enabled {
		p := &Providers{Tracer: tracenoop.NewTracerProvider(), Meter: metricnoop.NewMeterProvider()}
		otel.SetTracerProvider(p.Tracer)
		otel.SetMeterProvider(p.Meter)
		return p, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	name := opts.ServiceName
	if name == "" {
		name = "pmt"
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", name),
		attribute.String("service.version", opts.Version),
	)

	traceOpts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if opts.Stdout {
		traceOpts = append(traceOpts, stdouttrace.WithPrettyPrint())
	}
	spanExp, err := stdouttrace.New(traceOpts...)
	if err != nil {
		return nil, errors.Join(errors.New("telemetry: trace exporter"), err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(spanExp),
	)

	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if opts.Stdout {
		metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			_ = tp.Shutdown(ctx)
			return nil, errors.Join(errors.New("telemetry: metric exporter"), err)
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(15*time.Second)),
		))
	}
	mp := sdkmetric.NewMeterProvider(metricOpts...)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	return &Providers{
		Tracer:   tp,
		Meter:    mp,
		shutdown: []func(context.Context) error{tp.Shutdown, mp.Shutdown},
	}, nil
}

// Shutdown flushes pending spans and metrics. Safe to call more than once.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdown = nil
	return errors.Join(errs...)
}

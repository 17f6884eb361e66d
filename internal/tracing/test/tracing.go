// Package test provides tracers for tests
package test

import (
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const serviceName = "bandfilter-test"

// Tracer returns a tracer that samples every span and keeps it in memory
func Tracer(log *logger.Logger) *tracing.Tracer {
	tracer, _ := Recorder(log)
	return tracer
}

// Recorder returns a tracer and the recorder holding the spans it produces
func Recorder(log *logger.Logger) (*tracing.Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(recorder),
	)

	return &tracing.Tracer{
		ServiceName:    serviceName,
		Log:            log,
		TracerProvider: tp,
		ShutdownFunc:   tp.Shutdown,
		TracerInstance: tp.Tracer(serviceName),
	}, recorder
}

// SpanNames returns the names of the ended spans, in the order they ended
func SpanNames(recorder *tracetest.SpanRecorder) []string {
	spans := recorder.Ended()
	names := make([]string, len(spans))
	for i, span := range spans {
		names[i] = span.Name()
	}

	return names
}

package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "cityeats"

// InitTracing installs the global tracer provider. Finished spans are written
// to logger: failed ones at warn, the rest at debug.
// The returned func flushes and stops the provider.
func InitTracing(logger *slog.Logger) func(context.Context) error {
	if logger == nil {
		logger = slog.Default()
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
		sdktrace.WithSpanProcessor(spanLogger{logger: logger.With(slog.String("component", "trace"))}),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

type spanLogger struct {
	logger *slog.Logger
}

func (spanLogger) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p spanLogger) OnEnd(s sdktrace.ReadOnlySpan) {
	attrs := []slog.Attr{
		slog.String("span", s.Name()),
		slog.String("trace_id", s.SpanContext().TraceID().String()),
		slog.Duration("duration", s.EndTime().Sub(s.StartTime())),
	}
	for _, kv := range s.Attributes() {
		attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
	}

	level := slog.LevelDebug
	if st := s.Status(); st.Code == codes.Error {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("status", st.Description))
	}
	p.logger.LogAttrs(context.Background(), level, "span finished", attrs...)
}

func (spanLogger) Shutdown(context.Context) error { return nil }
func (spanLogger) ForceFlush(context.Context) error { return nil }

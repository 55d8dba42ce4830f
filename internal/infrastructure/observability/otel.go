package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/mishcolife/catalogadmin"

// Metrics holds all application metrics
type Metrics struct {
	SyncRequestCount    metric.Int64Counter
	SyncRequestDuration metric.Float64Histogram
	SubmissionCount     metric.Int64Counter
	PreviewHandles      metric.Int64UpDownCounter
}

// Setup initializes OpenTelemetry tracing, metrics and runtime
// instrumentation. The returned function flushes and stops every provider.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set up metric exporter
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		_ = tracerProvider.Shutdown(ctx)
		_ = meterProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

// NewMetrics registers the application instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestCount, err := meter.Int64Counter(
		"recordstore.request.count",
		metric.WithDescription("Number of record store requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"recordstore.request.duration",
		metric.WithDescription("Record store request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	submissionCount, err := meter.Int64Counter(
		"editor.submission.count",
		metric.WithDescription("Number of draft submissions by outcome"),
	)
	if err != nil {
		return nil, err
	}

	previewHandles, err := meter.Int64UpDownCounter(
		"editor.preview.handles",
		metric.WithDescription("Outstanding image preview handles"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		SyncRequestCount:    requestCount,
		SyncRequestDuration: requestDuration,
		SubmissionCount:     submissionCount,
		PreviewHandles:      previewHandles,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordSyncMetric records one record store exchange. statusCode is 0 when
// no response was received.
func RecordSyncMetric(ctx context.Context, metrics *Metrics, method, route string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.SyncRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.SyncRequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordSubmission records a submit attempt and its outcome
func RecordSubmission(ctx context.Context, metrics *Metrics, collection, operation, outcome string) {
	if metrics == nil {
		return
	}
	metrics.SubmissionCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// PreviewObserver returns a callback for staging.MemoryPreviews.Observe
func PreviewObserver(metrics *Metrics) func(delta int64) {
	return func(delta int64) {
		if metrics == nil {
			return
		}
		metrics.PreviewHandles.Add(context.Background(), delta)
	}
}

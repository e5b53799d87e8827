package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// OTLP HTTP instruments, recorded by New. Nil until Setup succeeds; Prometheus
// scraping works independently of them.
var (
	httpRequests       metric.Int64Counter
	httpDuration       metric.Float64Histogram
	httpActiveRequests metric.Int64UpDownCounter
)

func newMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))),
	), nil
}

func initHTTPMetrics(meter metric.Meter) error {
	var err error

	if httpRequests, err = meter.Int64Counter(
		"spotlight.http.requests",
		metric.WithDescription("HTTP requests by method, route and status"),
		metric.WithUnit("{request}"),
	); err != nil {
		return err
	}

	// chat turns can chain several upstream calls
	if httpDuration, err = meter.Float64Histogram(
		"spotlight.http.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60),
	); err != nil {
		return err
	}

	httpActiveRequests, err = meter.Int64UpDownCounter(
		"spotlight.http.active_requests",
		metric.WithDescription("In-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	return err
}

package telemetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const spanLocalsKey = "otel-span"

// Config holds the configuration for the tracing middleware
type Config struct {
	ServiceName string
	Skip        func(*fiber.Ctx) bool
}

// DefaultConfig skips probes and the scrape endpoint
func DefaultConfig() Config {
	return Config{
		ServiceName: ServiceName,
		Skip: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/healthz") || p == "/metrics"
		},
	}
}

// New returns a Fiber middleware that opens a server span per request and
// records the OTLP HTTP instruments.
func New(config ...Config) fiber.Handler {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()

		active := metric.WithAttributes(attribute.String("method", method))
		if httpActiveRequests != nil {
			httpActiveRequests.Add(c.UserContext(), 1, active)
			defer httpActiveRequests.Add(c.UserContext(), -1, active)
		}

		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := otel.GetTracerProvider().Tracer(cfg.ServiceName).Start(ctx, method+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(method),
				semconv.HTTPTargetKey.String(c.Path()),
				semconv.NetHostNameKey.String(c.Hostname()),
				semconv.HTTPUserAgentKey.String(string(c.Request().Header.UserAgent())),
			),
		)
		defer span.End()

		c.Locals(spanLocalsKey, span)
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		// route pattern keeps /api/saved-businesses/:businessId to one series
		route := c.Route().Path
		span.SetName(method + " " + route)
		span.SetAttributes(
			semconv.HTTPStatusCodeKey.Int(status),
			semconv.HTTPRouteKey.String(route),
		)
		if path := string(c.Response().Header.Peek("X-Spotlight-Path")); path != "" {
			span.SetAttributes(attribute.String("spotlight.chat.path", path))
		}
		if err != nil {
			span.RecordError(err)
		}
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}

		attrs := metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(status)),
		)
		if httpRequests != nil {
			httpRequests.Add(ctx, 1, attrs)
		}
		if httpDuration != nil {
			httpDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		}

		return err
	}
}

// SpanFromContext returns the request span stored by New, or nil
func SpanFromContext(c *fiber.Ctx) trace.Span {
	span, ok := c.Locals(spanLocalsKey).(trace.Span)
	if !ok {
		return nil
	}
	return span
}

package observability

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const httpInstrumentation = "github.com/Additional-Code/geosstore/observability/http"

// HTTPMetrics counts requests and records their latency per route template,
// method and status code.
func (m *Manager) HTTPMetrics() echo.MiddlewareFunc {
	meter := m.Meter(httpInstrumentation)

	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Handled HTTP requests"))
	if err != nil {
		m.logger.Warn("create http.server.requests counter", zap.Error(err))
	}
	latency, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"))
	if err != nil {
		m.logger.Warn("create http.server.duration histogram", zap.Error(err))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Render now so the recorded status matches the response; the
				// router skips committed responses when err bubbles up.
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			attrs := metric.WithAttributes(
				attribute.String("http.route", route),
				attribute.String("http.method", c.Request().Method),
				attribute.String("http.status_code", strconv.Itoa(c.Response().Status)),
			)
			ctx := c.Request().Context()
			if requests != nil {
				requests.Add(ctx, 1, attrs)
			}
			if latency != nil {
				latency.Record(ctx, time.Since(start).Seconds(), attrs)
			}
			return err
		}
	}
}

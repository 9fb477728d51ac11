package apiserver

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts API requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gotube",
			Name:      "api_requests_total",
			Help:      "Total number of search API requests",
		},
		[]string{"route", "method", "status"},
	)

	// RequestDuration measures API request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gotube",
			Name:      "api_request_duration_seconds",
			Help:      "Duration of search API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// UpstreamErrorsTotal counts failed YouTube calls by operation.
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gotube",
			Name:      "upstream_errors_total",
			Help:      "Total number of failed YouTube Data API calls",
		},
		[]string{"operation"},
	)
)

// observe records count and latency of every request.
func observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			RequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

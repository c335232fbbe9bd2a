package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the request collectors.  Routes are labelled by their
// pattern (/campers/:id), not the raw path, to keep cardinality bounded.
type Metrics struct {
    requests *prometheus.CounterVec
    duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
    m := &Metrics{
        requests: prometheus.NewCounterVec(prometheus.CounterOpts{
            Namespace: "camp_api",
            Subsystem: "http",
            Name:      "requests_total",
            Help:      "HTTP requests handled, by method, route and status.",
        }, []string{"method", "route", "status"}),
        duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
            Namespace: "camp_api",
            Subsystem: "http",
            Name:      "request_duration_seconds",
            Help:      "HTTP request latency, by method and route.",
            Buckets:   prometheus.DefBuckets,
        }, []string{"method", "route"}),
    }
    reg.MustRegister(m.requests, m.duration)
    return m
}

// Middleware records every request.  A handler error is resolved through
// c.Error before recording so the recorded status is final.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            method := c.Request().Method
            m.requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
            m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
            return nil
        }
    }
}

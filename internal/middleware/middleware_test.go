package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-signup/internal/config"
)

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestTokenBucketPassesThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	e.GET("/campers", okHandler)

	for i := 0; i < 3; i++ {
		rec := serve(e, http.MethodGet, "/campers")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestTokenBucketFailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		Prefix:         "camp:rl",
	}, rdb))
	e.GET("/activities", okHandler)

	rec := serve(e, http.MethodGet, "/activities")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/campers/7", nil)
	req.RemoteAddr = "10.0.0.5:4242"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/campers/:id")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "camp:rl:ip:10.0.0.5"},
		{"route", "camp:rl:route:PATCH /campers/:id"},
		{"ip_route", "camp:rl:ip:10.0.0.5:route:PATCH /campers/:id"},
		{"", "camp:rl:ip:10.0.0.5:route:PATCH /campers/:id"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "camp:rl", KeyStrategy: tt.strategy}
			assert.Equal(t, tt.want, buildRateKey(cfg, c))
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 0, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(1))
	assert.Equal(t, 1, retryAfterSeconds(1000))
	assert.Equal(t, 2, retryAfterSeconds(1001))
	assert.Equal(t, 0, retryAfterSeconds(-50))
}

func TestMetricsCountByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/campers/:id", func(c echo.Context) error {
		if c.Param("id") == "404" {
			return echo.NewHTTPError(http.StatusNotFound, "Camper not found")
		}
		return c.NoContent(http.StatusOK)
	})

	serve(e, http.MethodGet, "/campers/1")
	serve(e, http.MethodGet, "/campers/2")
	serve(e, http.MethodGet, "/campers/404")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/campers/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/campers/:id", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestRequestLoggerRecordsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/activities", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	rec := serve(e, http.MethodGet, "/activities")
	require.Equal(t, http.StatusTeapot, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/activities", line["route"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.Equal(t, "request", line["message"])
	assert.Contains(t, line["error"], "nope")
}

func TestRequestLoggerInsideMetricsSeesHandlerError(t *testing.T) {
	var buf bytes.Buffer
	m := NewMetrics(prometheus.NewRegistry())
	e := echo.New()
	e.Use(m.Middleware())
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/campers", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database is closed")
	})

	rec := serve(e, http.MethodGet, "/campers")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Contains(t, line["error"], "database is closed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/campers", "503")))
}

func TestRequestLoggerOmitsErrorOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/activities", okHandler)

	serve(e, http.MethodGet, "/activities")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.NotContains(t, line, "error")
}

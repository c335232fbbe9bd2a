package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/camp-signup/internal/config"
	"github.com/iliyamo/camp-signup/internal/handler"
	"github.com/iliyamo/camp-signup/internal/middleware"
	"github.com/iliyamo/camp-signup/internal/repository"
)

// Options carries everything the HTTP surface depends on.  DB is required;
// a nil Redis disables rate limiting and a nil Events drops domain events.
type Options struct {
	DB        *sqlx.DB
	Events    handler.EventPublisher
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Registry  *prometheus.Registry
	Logger    zerolog.Logger
}

// New builds the Echo instance with middleware and every route registered.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(reg)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(middleware.NewTokenBucket(opts.RateLimit, opts.Redis))

	RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	RegisterCamp(e,
		handler.NewActivityHandler(repository.NewActivityRepo(opts.DB), opts.Events),
		handler.NewCamperHandler(repository.NewCamperRepo(opts.DB), opts.Events),
		handler.NewSignupHandler(repository.NewSignupRepo(opts.DB), opts.Events),
	)
	return e
}

// RegisterRoutes registers the home page and the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Home)
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterCamp registers the activity, camper and signup endpoints.
func RegisterCamp(e *echo.Echo, a *handler.ActivityHandler, c *handler.CamperHandler, s *handler.SignupHandler) {
	// ---- Activities ----
	e.GET("/activities", a.List)
	e.DELETE("/activities/:id", a.Delete)

	// ---- Campers ----
	e.GET("/campers", c.List)
	e.POST("/campers", c.Create)
	e.GET("/campers/:id", c.Get)
	e.PATCH("/campers/:id", c.Update)

	// ---- Signups ----
	e.POST("/signups", s.Create)
}

package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/camp-signup/internal/config"
	"github.com/iliyamo/camp-signup/internal/database"
	"github.com/iliyamo/camp-signup/internal/handler"
	"github.com/iliyamo/camp-signup/internal/logger"
	"github.com/iliyamo/camp-signup/internal/router"
	"github.com/iliyamo/camp-signup/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	if err := logger.Configure(cfg); err != nil {
		log.Fatal().Err(err).Msg("configure logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(ctx, cfg.DBURI)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.MigrateUp(db, dialect); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
		log.Info().Str("dialect", string(dialect)).Msg("schema is current")
	}

	// Redis only backs the rate limiter; nil disables it.
	rl := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}

	var events handler.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		log.Info().Str("queue", cfg.EventsQueue).Msg("publishing domain events")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, string(dialect)),
	)

	e := router.New(router.Options{
		DB:        db,
		Events:    events,
		Redis:     rdb,
		RateLimit: rl,
		Registry:  reg,
		Logger:    log.Logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("dialect", string(dialect)).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/camp-signup/internal/config"
	"github.com/iliyamo/camp-signup/internal/logger"
	"github.com/iliyamo/camp-signup/internal/queue"
)

func main() {
	cfg := config.Load()
	if err := logger.Configure(cfg); err != nil {
		log.Fatal().Err(err).Msg("configure logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("queue", cfg.EventsQueue).
		Str("log_path", cfg.EventsLogPath).
		Msg("event-consumer: starting")

	err := queue.StartEventConsumer(ctx, queue.ConsumerConfig{
		URL:     cfg.AMQPURL,
		Queue:   cfg.EventsQueue,
		LogPath: cfg.EventsLogPath,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("event-consumer stopped")
	}
	log.Info().Msg("event-consumer: stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetingbook/di"
	"meetingbook/shared/logger"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.InitLogger()

	notifier := di.InitializeNotifier()
	cfg := notifier.Config

	logger.SetLogLevel(cfg)

	if !cfg.Kafka.Enable {
		log.Fatal().Msg("KAFKA_ENABLE is false, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topic := cfg.Kafka.Topics.BookingEvents

	log.Info().Str("topic", topic).Str("group", cfg.Kafka.ConsumerGroup).Msg("notifier consuming booking events")

	if err := notifier.Kafka.Consume(ctx, cfg.Kafka.ConsumerGroup, topic, notifier.Handler); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := notifier.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka client")
	}

	if err := notifier.Otel.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}
}

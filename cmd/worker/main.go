package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apexshine/detailbooking/config"
	"github.com/apexshine/detailbooking/internal/email"
	"github.com/apexshine/detailbooking/internal/kafka"
	"github.com/apexshine/detailbooking/internal/logging"
	"github.com/apexshine/detailbooking/internal/metrics"
	"github.com/apexshine/detailbooking/internal/worker"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Logging, "worker")
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	notifier := worker.NewNotifier(
		email.NewSMTPSender(cfg.SMTP),
		logger,
		worker.RetryPolicy{
			MaxRetries:   cfg.Worker.EmailMaxRetries,
			InitialDelay: time.Duration(cfg.Worker.EmailRetryDelaySecs) * time.Second,
		},
		time.Duration(cfg.Worker.SendTimeoutSeconds)*time.Second,
	)

	logger.Info().
		Str("topic", cfg.Kafka.NotificationsTopic).
		Str("group", cfg.Kafka.GroupID).
		Msg("notification worker started")

	if err := consumer.Consume(ctx, notifier.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped")
	}
	logger.Info().Msg("notification worker stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apexshine/detailbooking/config"
	"github.com/apexshine/detailbooking/internal/bootstrap"
	"github.com/apexshine/detailbooking/internal/cache"
	"github.com/apexshine/detailbooking/internal/kafka"
	"github.com/apexshine/detailbooking/internal/logging"
	"github.com/apexshine/detailbooking/internal/metrics"
	"github.com/apexshine/detailbooking/internal/repository"
	"github.com/apexshine/detailbooking/internal/service/availability"
	"github.com/apexshine/detailbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
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

	logger := logging.New(cfg.Logging, "app")
	metrics.Register()

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Booking.Timezone).Msg("invalid timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	availabilityService := availability.NewAvailabilityService(bookingRepo)
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		logger,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.SlotHoldTTLSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLocation(loc),
		booking.WithTimeouts(
			time.Duration(cfg.Booking.StorageTimeoutSeconds)*time.Second,
			time.Duration(cfg.Booking.PublishTimeoutSeconds)*time.Second,
		),
	)

	deps := bootstrap.Dependencies{
		Availability: availabilityService,
		Bookings:     bookingService,
		RateCounter:  redisCache,
		Logger:       logger,
	}

	logger.Info().Str("address", cfg.HTTP.Address).Msg("starting api server")
	if err := bootstrap.Run(ctx, cfg, deps); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

package main

import (
	"context"
	"log"
	"time"

	"hotel-reservation/cmd"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/internal/wire"
	"hotel-reservation/pkg/currency"
	"hotel-reservation/pkg/database"
	"hotel-reservation/pkg/events"
	"hotel-reservation/pkg/middleware"
	"hotel-reservation/pkg/sealer"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	fieldSealer, err := sealer.New(config.Security.EncryptionKey)
	if err != nil {
		logger.Fatal("Invalid ENCRYPTION_KEY", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if config.Database.Migrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, fieldSealer, logger)

	rates := currency.NewCache(config.Currency.Base, rateProvider(config), logger)
	if err := rates.Refresh(ctx); err != nil {
		logger.Warn("Starting with base currency only", zap.Error(err))
	}

	publisher := eventPublisher(config, logger)
	defer publisher.Close()

	service := usecase.NewService(repos, config, rates, publisher, logger)
	if err := service.Auth.SeedSuperAdmin(ctx); err != nil {
		logger.Fatal("Failed to seed super admin", zap.Error(err))
	}

	idempotency := middleware.NewInMemoryIdempotencyStore(time.Duration(config.Booking.IdempotencyTTLMins) * time.Minute)
	defer idempotency.Stop()

	// Wire all dependencies
	app := wire.Wiring(repos, service, idempotency, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, repos.Session, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

func rateProvider(config *utils.Config) currency.RateProvider {
	if config.Currency.RatesURL != "" {
		return currency.NewHTTPProvider(config.Currency.RatesURL, config.Currency.Base)
	}
	return currency.NewStaticProvider(config.Currency.Rates)
}

func eventPublisher(config *utils.Config, logger *zap.Logger) events.Publisher {
	if len(config.Kafka.Brokers) == 0 {
		return events.NewLogPublisher(logger)
	}

	publisher, err := events.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.Topic, config.App.Name, logger)
	if err != nil {
		logger.Warn("Kafka unavailable, logging events instead", zap.Error(err))
		return events.NewLogPublisher(logger)
	}
	return publisher
}

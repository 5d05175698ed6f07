package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/docs"
	"github.com/gridpulse/substation-pipeline/internal/config"
	"github.com/gridpulse/substation-pipeline/internal/handler"
	"github.com/gridpulse/substation-pipeline/internal/logger"
	"github.com/gridpulse/substation-pipeline/internal/replication"
	"github.com/gridpulse/substation-pipeline/internal/repository"
	"github.com/gridpulse/substation-pipeline/internal/repository/postgres"
	"github.com/gridpulse/substation-pipeline/internal/service"
	"github.com/gridpulse/substation-pipeline/internal/upstream/substation"
)

// @title Substation Telemetry Pipeline API
// @version 1.0
// @description Ingestion and replication triggers for per-tenant electrical telemetry
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Initialize vendor client
	vendorClient, err := substation.NewClient(cfg.Vendor, log)
	if err != nil {
		log.Fatal("Failed to create vendor client", zap.Error(err))
	}

	// Initialize primary store
	primaryClient, err := postgres.NewClient(ctx, cfg.Postgres.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to primary store", zap.Error(err))
	}
	primary := postgres.NewRepository(primaryClient, log)
	defer primary.Close()

	if err := primary.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize primary schema", zap.Error(err))
	}
	log.Info("Primary schema initialized")

	// Initialize optional secondary store
	var secondary repository.Store
	if cfg.Cloud.Enabled && cfg.Cloud.URL != "" {
		secondaryClient, err := postgres.NewClient(ctx, cfg.Cloud.URL, log)
		if err != nil {
			log.Fatal("Failed to connect to secondary store", zap.Error(err))
		}
		sec := postgres.NewRepository(secondaryClient, log)
		defer sec.Close()
		secondary = sec
		log.Info("Secondary store connected")
	} else {
		log.Info("Cloud sink disabled")
	}

	// Initialize services
	ingestService := service.NewIngestService(vendorClient, primary, log)
	synchronizer := replication.NewSynchronizer(primary, secondary, log)

	// Initialize handler
	h := handler.NewHandler(ingestService, synchronizer, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}

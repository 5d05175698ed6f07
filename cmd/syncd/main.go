package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/internal/config"
	"github.com/gridpulse/substation-pipeline/internal/logger"
	"github.com/gridpulse/substation-pipeline/internal/replication"
	"github.com/gridpulse/substation-pipeline/internal/repository/postgres"
)

// syncd replicates the trailing window to the secondary store on an
// interval. It is deliberately stateless: a missed run is compensated by
// the window width, not by a cursor.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

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

	if !cfg.Cloud.Enabled || cfg.Cloud.URL == "" {
		log.Fatal("Cloud sink is not configured; nothing to replicate")
	}

	log.Info("Starting replication service",
		zap.String("environment", cfg.Service.Environment),
		zap.Int("interval_min", cfg.Cloud.SyncIntervalMin),
		zap.Int("since_hours", cfg.Cloud.SyncSinceHours))

	ctx := context.Background()

	primaryClient, err := postgres.NewClient(ctx, cfg.Postgres.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to primary store", zap.Error(err))
	}
	primary := postgres.NewRepository(primaryClient, log)
	defer primary.Close()

	secondaryClient, err := postgres.NewClient(ctx, cfg.Cloud.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to secondary store", zap.Error(err))
	}
	secondary := postgres.NewRepository(secondaryClient, log)
	defer secondary.Close()

	synchronizer := replication.NewSynchronizer(primary, secondary, log)

	if err := synchronizer.Init(ctx); err != nil {
		log.Fatal("Failed to initialize secondary schema", zap.Error(err))
	}
	log.Info("Secondary schema initialized")

	var tables []string
	for _, t := range strings.Split(cfg.Cloud.SyncTables, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}

	// Health check endpoint
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if ok, _ := synchronizer.Health(r.Context()); !ok {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		addr := ":" + cfg.Cloud.SyncHealthPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Cloud.SyncIntervalMin) * time.Minute)
		defer ticker.Stop()

		runSync(runCtx, synchronizer, tables, cfg.Cloud.SyncSinceHours, log)
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				runSync(runCtx, synchronizer, tables, cfg.Cloud.SyncSinceHours, log)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down replication service gracefully")
	cancel()
}

func runSync(ctx context.Context, s *replication.Synchronizer, tables []string, sinceHours int, log *zap.Logger) {
	results, err := s.Sync(ctx, tables, sinceHours)
	if err != nil {
		log.Error("Replication run failed", zap.Error(err))
		return
	}
	for _, r := range results {
		if r.Err != nil {
			log.Warn("Table replication failed",
				zap.String("table", r.Table),
				zap.Error(r.Err))
		}
	}
}

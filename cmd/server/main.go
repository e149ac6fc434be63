package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/rl-allocator/internal/config"
	"github.com/aristath/rl-allocator/internal/database"
	"github.com/aristath/rl-allocator/internal/modules/allocation"
	"github.com/aristath/rl-allocator/internal/modules/allocation/jobs"
	"github.com/aristath/rl-allocator/internal/modules/assets"
	"github.com/aristath/rl-allocator/internal/modules/marketdata"
	"github.com/aristath/rl-allocator/internal/modules/training"
	"github.com/aristath/rl-allocator/internal/scheduler"
	"github.com/aristath/rl-allocator/internal/server"
	"github.com/aristath/rl-allocator/pkg/logger"
)

func main() {
	// Load configuration first so the logger honors LOG_LEVEL
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting RL Allocator")

	// Initialize the application database (request audit trail)
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	requestRepo := allocation.NewRequestRepository(db.Conn(), log)
	if err := requestRepo.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Price source
	source := newPriceSource(cfg, log)

	// Training pipeline and allocation service
	trainer := training.New(training.Config{
		Epochs:       cfg.TrainEpochs,
		Gamma:        cfg.TrainGamma,
		Clip:         cfg.TrainClip,
		LearningRate: cfg.TrainLearningRate,
		InnerUpdates: cfg.TrainInnerUpdates,
		Seed:         cfg.TrainSeed,
	}, log)

	cache := allocation.NewCache()
	allocationService := allocation.NewService(source, trainer, cache, requestRepo, log)
	assetsService := assets.NewService(source, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	if err := registerJobs(sched, allocationService, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:              cfg.Port,
		Log:               log,
		DevMode:           cfg.DevMode,
		AllocationHandler: allocation.NewHandler(allocationService, log),
		AssetsHandler:     assets.NewHandler(assetsService, log),
		RequestRepo:       requestRepo,
		Cache:             cache,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// newPriceSource builds the configured price source.
func newPriceSource(cfg *config.Config, log zerolog.Logger) marketdata.Source {
	if cfg.PriceSource == "sqlite" {
		return marketdata.NewSQLiteSource(cfg.HistoryDir, log)
	}
	return marketdata.NewCSVSource(cfg.DataDir, log)
}

// registerJobs wires background jobs into the scheduler.
func registerJobs(sched *scheduler.Scheduler, service *allocation.Service, cfg *config.Config, log zerolog.Logger) error {
	universes := jobs.ParseUniverses(cfg.WarmupUniverses)
	if len(universes) == 0 {
		return nil
	}

	warmup := jobs.NewWarmup(service, universes, log)
	if err := sched.AddJob("@daily", warmup); err != nil {
		return err
	}

	// Warm the cache once at startup without blocking server start.
	go func() {
		if err := sched.RunNow(warmup); err != nil {
			log.Error().Err(err).Msg("Startup warmup failed")
		}
	}()

	return nil
}

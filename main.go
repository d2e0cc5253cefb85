package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"parking-service/internal/config"
	"parking-service/internal/db"
	"parking-service/internal/domain/parking"
	httpapi "parking-service/internal/http"
	"parking-service/internal/observability"
	"parking-service/internal/repository"
	"parking-service/internal/repository/postgres"
	"parking-service/internal/service"
	"parking-service/internal/strategy"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("database ready")

	store := postgres.NewStore(gormDB)
	repos := store.Repositories()
	metrics := observability.NewMetrics()

	allocator, err := buildAllocator(cfg, repos, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build allocation strategy")
	}
	fees, err := buildFeeCalculator(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pricing strategy")
	}
	publisher, err := buildPublisher(cfg, repos, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build availability publisher")
	}

	sessions := service.NewSessionService(
		store, allocator, fees, publisher, metrics, cfg.Parking.Currency,
		log.With().Str("component", "session_service").Logger())
	queries := service.NewQueryService(repos,
		log.With().Str("component", "query_service").Logger())
	admin := service.NewAdminService(repos, publisher,
		log.With().Str("component", "admin_service").Logger())

	handler := httpapi.NewHandler(sessions, queries, metrics,
		log.With().Str("component", "http").Logger())
	adminHandler := httpapi.NewAdminHandler(admin,
		log.With().Str("component", "http_admin").Logger())
	router := httpapi.NewRouter(cfg, handler, adminHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func buildAllocator(cfg *config.Config, repos repository.Repositories, log zerolog.Logger) (parking.SpotAllocator, error) {
	switch cfg.Parking.AllocationStrategy {
	case "entrance_nearest":
		return strategy.NewEntranceNearestAllocator(repos.Floors, repos.Spots,
			log.With().Str("component", "allocator").Logger()), nil
	default:
		return nil, fmt.Errorf("unknown allocation strategy %q", cfg.Parking.AllocationStrategy)
	}
}

func buildFeeCalculator(cfg *config.Config) (parking.FeeCalculator, error) {
	switch cfg.Parking.PricingStrategy {
	case "degressive_day_night_weekend":
		feeCfg, err := strategy.FeeConfigFromSettings(cfg.Fees)
		if err != nil {
			return nil, err
		}
		return strategy.NewDegressiveFeeCalculator(feeCfg), nil
	default:
		return nil, fmt.Errorf("unknown pricing strategy %q", cfg.Parking.PricingStrategy)
	}
}

func buildPublisher(cfg *config.Config, repos repository.Repositories, log zerolog.Logger) (parking.AvailabilityPublisher, error) {
	switch cfg.Parking.AvailabilityPublisher {
	case "logging":
		return strategy.NewLoggingAvailabilityPublisher(
			log.With().Str("component", "availability").Logger()), nil
	case "outbox":
		return strategy.NewOutboxAvailabilityPublisher(repos.Events,
			log.With().Str("component", "availability").Logger()), nil
	default:
		return nil, fmt.Errorf("unknown availability publisher %q", cfg.Parking.AvailabilityPublisher)
	}
}

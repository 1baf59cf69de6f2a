package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"austech/internal/config"
	"austech/internal/infra"
	"austech/internal/repository"
	"austech/internal/router"
	"austech/internal/service"
	"austech/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title                      Austech API
// @version                    1.0
// @description                Ciclo de vida de sierras: registro, afilados, salidas y bajas masivas.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.AutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
	}

	claims, err := service.NuevaClaimStrategy(cfg.ClaimStrategy, rdb, time.Duration(cfg.ClaimTTLSeconds)*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid CLAIM_STRATEGY")
	}
	politica, err := service.NuevaPoliticaBaja(cfg.PoliticaBaja)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid POLITICA_BAJA")
	}
	log.Info().
		Str("claim_strategy", cfg.ClaimStrategy).
		Str("politica_baja", politica.Nombre()).
		Msg("bulk engines configured")

	r := router.New(cfg, db, rdb, claims, politica)

	// Background job lifetime is tied to this context.
	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	worker.StartReconciliador(jobsCtx, worker.ReconciliadorConfig{
		Sierras:   repository.NewSierraRepository(db),
		Afilados:  repository.NewAfiladoRepository(db),
		Intervalo: time.Duration(cfg.ReconciliarSegundos) * time.Second,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // bulk fan-outs are sequential
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("austech backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	stopJobs()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

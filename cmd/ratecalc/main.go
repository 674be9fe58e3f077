package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ratecalc/internal/config"
	"ratecalc/internal/domain"
	httpx "ratecalc/internal/http"
	"ratecalc/internal/logging"

	"github.com/phuslu/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger := logging.New(cfg.LogLevel)

	constants, err := cfg.Constants()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid rate model")
	}
	router := httpx.NewRouter(domain.NewCalculator(constants), cfg.Defaults(), logger)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("rate_model", cfg.RateModelPath).
			Int64("seconds_per_year", cfg.RateModel.SecondsPerYear).
			Msg("ratecalc starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("ratecalc stopped")
}

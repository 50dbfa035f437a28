package main

import (
	"fmt"
	"os"

	"github.com/example/baggage-report-service/internal/config"
	"github.com/example/baggage-report-service/internal/handler"
	"github.com/example/baggage-report-service/internal/logger"
	"github.com/example/baggage-report-service/internal/providers/factory"
	"github.com/example/baggage-report-service/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("component", "server").Logger()

	provider, err := factory.Email(cfg.Email, log.With().Str("component", "email-provider").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create email provider")
	}

	h, err := handler.New(cfg, provider, log.With().Str("component", "handler").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create submission handler")
	}

	srv := server.New(cfg, h, log)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func fail(stage string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
	os.Exit(1)
}

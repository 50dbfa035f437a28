// provider-check sends a minimal test notification through the configured
// email provider. Handy for verifying SendGrid credentials and routing
// mailboxes before wiring up the real form.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/baggage-report-service/internal/config"
	emailprovider "github.com/example/baggage-report-service/internal/providers/email"
	"github.com/example/baggage-report-service/internal/providers/factory"
)

func main() {
	to := flag.String("to", "", "recipient address (required)")
	subject := flag.String("subject", "baggage-report provider check", "message subject")
	body := flag.String("body", "<p>provider check</p>", "HTML body")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	if *to == "" {
		logger.Fatal().Msg("-to is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	provider, err := factory.Email(cfg.Email, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create email provider")
	}

	payload := &emailprovider.Payload{
		MessageID: uuid.NewString(),
		From:      cfg.Email.FromAddress,
		FromName:  cfg.Email.FromName,
		To:        []string{*to},
		Subject:   *subject,
		HTML:      *body,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := provider.Send(ctx, payload)
	if err != nil {
		logger.Fatal().Err(err).Msg("send failed")
	}

	logger.Info().
		Str("id", resp.ID).
		Int("code", resp.Code).
		Str("body", resp.Body).
		Msg("send accepted")
}

package factory

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/baggage-report-service/internal/config"
	emailprovider "github.com/example/baggage-report-service/internal/providers/email"
)

// Email constructs the configured email provider, supporting SendGrid and
// mock backends.
func Email(cfg config.EmailConfig, logger zerolog.Logger) (emailprovider.Provider, error) {
	backend := normalize(cfg.Provider, "sendgrid")
	switch backend {
	case "sendgrid":
		provider, err := emailprovider.NewSendGridProvider(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: sendgrid provider init: %w", err)
		}
		logger.Info().
			Str("backend", "sendgrid").
			Msg("email provider initialised")
		return provider, nil
	case "mock":
		provider := emailprovider.NewMockProvider(logger)
		logger.Info().
			Str("backend", "mock").
			Msg("email provider initialised")
		return provider, nil
	default:
		return nil, fmt.Errorf("factory: unsupported email provider backend %q", cfg.Provider)
	}
}

func normalize(value, def string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return def
	}
	return value
}

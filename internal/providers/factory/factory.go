package factory

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/twilio-sms-go/internal/config"
	smsprovider "github.com/ajayykmr/twilio-sms-go/internal/providers/sms"
)

// SMS constructs the configured SMS provider. The file transport wins when
// enabled; otherwise Twilio and mock backends are supported.
func SMS(cfg config.ProviderConfig, logger zerolog.Logger) (smsprovider.Provider, error) {
	if cfg.Transport.UseFileTransport {
		provider, err := smsprovider.NewFileProvider(cfg.Transport.FileTransportPath, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: sms file transport init: %w", err)
		}
		logger.Info().
			Str("backend", "file").
			Str("path", provider.Dir()).
			Msg("sms provider initialised")
		return provider, nil
	}

	backend := normalize(cfg.SMSProvider, "twilio")
	switch backend {
	case "twilio":
		provider, err := smsprovider.NewTwilioProvider(cfg.Twilio, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: twilio sms provider init: %w", err)
		}
		logger.Info().
			Str("backend", "twilio").
			Msg("sms provider initialised")
		return provider, nil
	case "mock":
		provider := smsprovider.NewMockProvider(logger)
		logger.Info().
			Str("backend", "mock").
			Msg("sms provider initialised")
		return provider, nil
	default:
		return nil, fmt.Errorf("factory: unsupported sms provider backend %q", cfg.SMSProvider)
	}
}

func normalize(value, def string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return def
	}
	return value
}

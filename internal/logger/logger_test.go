package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/twilio-sms-go/internal/config"
	"github.com/ajayykmr/twilio-sms-go/internal/logger"
)

func TestNewSetsGlobalLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"debug":    zerolog.DebugLevel,
		"Warn":     zerolog.WarnLevel,
		"ERROR":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
	}

	for input, want := range cases {
		input := input
		want := want
		t.Run("level_"+input, func(t *testing.T) {
			prev := zerolog.GlobalLevel()
			t.Cleanup(func() {
				zerolog.SetGlobalLevel(prev)
			})

			var buf bytes.Buffer
			_, err := logger.New(config.AppConfig{Env: "production", LogLevel: input}, &buf)
			if err != nil {
				t.Fatalf("New returned error for level %q: %v", input, err)
			}

			if got := zerolog.GlobalLevel(); got != want {
				t.Fatalf("global level = %s, want %s", got, want)
			}
		})
	}
}

func TestNewInvalidLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prev)
	})

	if _, err := logger.New(config.AppConfig{Env: "production", LogLevel: "not-a-level"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestComponentTagsEvents(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prev)
	})

	var buf bytes.Buffer
	base, err := logger.New(config.AppConfig{Env: "production", LogLevel: "info"}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log := logger.Component(*base, "sms-dispatcher")
	log.Info().Msg("ready")

	if !strings.Contains(buf.String(), `"component":"sms-dispatcher"`) {
		t.Fatalf("expected component field, got %s", buf.String())
	}
}

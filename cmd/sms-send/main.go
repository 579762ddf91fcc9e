package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	smsadapter "github.com/ajayykmr/twilio-sms-go/internal/adapters/sms"
	"github.com/ajayykmr/twilio-sms-go/internal/config"
	"github.com/ajayykmr/twilio-sms-go/internal/failurelog"
	"github.com/ajayykmr/twilio-sms-go/internal/logger"
	"github.com/ajayykmr/twilio-sms-go/internal/metrics"
	"github.com/ajayykmr/twilio-sms-go/internal/providers/factory"
)

func main() {
	to := flag.String("to", "", "recipient number including country code")
	from := flag.String("from", "", "sender number or short code (defaults to TWILIO_PHONE_NUMBER)")
	body := flag.String("body", "", "message text")
	media := flag.String("media", "", "optional media url")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "sms-send").Logger()

	failures, err := failurelog.Open(cfg.FailureLog.Path, cfg.FailureLog.Format)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open failure log")
	}
	defer func() {
		if err := failures.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close failure log")
		}
	}()

	provider, err := factory.SMS(cfg.Providers, logger.Component(log, "sms-provider"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise sms provider")
	}

	dispatcher, err := smsadapter.NewDispatcher(cfg.Providers, provider, logger.Component(log, "sms-dispatcher"),
		smsadapter.WithFailureLog(failures),
		smsadapter.WithRecorder(metrics.NewSMS(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise sms dispatcher")
	}

	timeout := time.Duration(cfg.Timeouts.ProviderTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg := dispatcher.Compose().SetTo(*to).SetTextBody(*body).SetMediaURL(*media)
	if *from != "" {
		msg.SetFrom(*from)
	}

	result, err := dispatcher.Send(sendCtx, msg)
	if err != nil {
		// The dispatcher already logged and recorded the failure.
		cancel()
		_ = failures.Close()
		os.Exit(1)
	}

	log.Info().
		Str("to", msg.To()).
		Str("sid", result.Sid).
		Str("status", string(result.Status)).
		Msg("sms dispatched")
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("sms send init failed")
}

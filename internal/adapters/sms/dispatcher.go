package sms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	twilio "github.com/kevinburke/twilio-go"
	"github.com/rs/zerolog"

	common "github.com/ajayykmr/twilio-sms-go/internal/adapters/common"
	"github.com/ajayykmr/twilio-sms-go/internal/config"
	"github.com/ajayykmr/twilio-sms-go/internal/failurelog"
	"github.com/ajayykmr/twilio-sms-go/internal/models"
	smsprovider "github.com/ajayykmr/twilio-sms-go/internal/providers/sms"
)

// Recorder observes the outcome of every send attempt.
type Recorder interface {
	ObserveSend(outcome string, d time.Duration)
}

// Option modifies dispatcher behaviour.
type Option func(*Dispatcher)

// WithFailureLog sets the sink that receives one record per failed send.
func WithFailureLog(sink failurelog.Sink) Option {
	return func(d *Dispatcher) {
		if sink != nil {
			d.failures = sink
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// Dispatcher validates composed messages and hands them to the provider.
type Dispatcher struct {
	logger         zerolog.Logger
	provider       smsprovider.Provider
	defaultFrom    string
	statusCallback string
	failures       failurelog.Sink
	recorder       Recorder
}

// NewDispatcher validates cfg and returns a ready dispatcher. Unless the file
// transport is enabled both Twilio credentials must be set; the returned
// error wraps common.ErrConfiguration and is meant to abort startup.
func NewDispatcher(cfg config.ProviderConfig, provider smsprovider.Provider, logger zerolog.Logger, opts ...Option) (*Dispatcher, error) {
	if !cfg.Transport.UseFileTransport {
		if strings.TrimSpace(cfg.Twilio.AccountSID) == "" {
			return nil, common.WrapConfiguration(errors.New("sms dispatcher: twilio 'sid' configuration parameter is required"))
		}
		if strings.TrimSpace(cfg.Twilio.AuthToken) == "" {
			return nil, common.WrapConfiguration(errors.New("sms dispatcher: twilio 'token' configuration parameter is required"))
		}
	}
	if provider == nil {
		return nil, common.WrapConfiguration(errors.New("sms dispatcher: provider dependency is required"))
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	d := &Dispatcher{
		logger:         logger,
		provider:       provider,
		defaultFrom:    cfg.Twilio.PhoneNumber,
		statusCallback: strings.TrimSpace(cfg.Twilio.StatusCallback),
		failures:       failurelog.Nop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Compose returns a new message with the default sender applied.
func (d *Dispatcher) Compose() *models.Message {
	return models.NewMessage().SetFrom(d.defaultFrom)
}

// Send delivers msg and returns the provider's message resource unchanged.
// Every failure is logged and returned as an error wrapping one of
// common.ErrConfiguration, common.ErrProvider or common.ErrUnexpected. Send
// never panics.
func (d *Dispatcher) Send(ctx context.Context, msg *models.Message) (result *twilio.Message, err error) {
	start := time.Now()
	to := ""
	if msg != nil {
		to = msg.To()
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = common.WrapUnexpected(fmt.Errorf("sms dispatcher: panic during send: %v", r))
		}
		d.finish(to, time.Since(start), err)
	}()

	return d.send(ctx, msg)
}

func (d *Dispatcher) send(ctx context.Context, msg *models.Message) (*twilio.Message, error) {
	if msg == nil {
		return nil, common.WrapConfiguration(errors.New("sms dispatcher: message is nil"))
	}
	if strings.TrimSpace(msg.From()) == "" {
		return nil, common.WrapConfiguration(errors.New("sms dispatcher: invalid 'from' phone number"))
	}
	if strings.TrimSpace(msg.To()) == "" {
		return nil, common.WrapConfiguration(errors.New("sms dispatcher: invalid 'to' phone number"))
	}

	result, err := d.provider.Send(ctx, d.buildPayload(msg))
	if err != nil {
		return nil, common.WrapProvider(err)
	}
	if result == nil {
		return nil, common.WrapUnexpected(errors.New("sms dispatcher: provider returned no message"))
	}
	return result, nil
}

func (d *Dispatcher) buildPayload(msg *models.Message) *smsprovider.Payload {
	payload := &smsprovider.Payload{
		To:   msg.To(),
		From: msg.From(),
		Body: msg.String(),
	}
	if d.statusCallback != "" {
		payload.StatusCallback = d.statusCallback
	}
	if strings.TrimSpace(msg.MediaURL()) != "" {
		payload.MediaURL = msg.MediaURL()
	}
	return payload
}

func (d *Dispatcher) finish(to string, elapsed time.Duration, err error) {
	category := common.Category(err)
	if d.recorder != nil {
		d.recorder.ObserveSend(category, elapsed)
	}

	if err == nil {
		d.logger.Debug().
			Str("channel", models.ChannelSMS).
			Str("to", to).
			Dur("duration", elapsed).
			Msg("sms sent")
		return
	}

	d.logger.Warn().
		Str("channel", models.ChannelSMS).
		Str("to", to).
		Str("category", category).
		Err(err).
		Msg("sms send failed")
	d.failures.Record(failurelog.Record{
		Category: category,
		Phone:    to,
		Err:      err,
	})
}

// Client returns the cached Twilio client used by the remote transport. In
// file or mock mode there is no client and the error wraps
// common.ErrConfiguration.
func (d *Dispatcher) Client() (*twilio.Client, error) {
	if src, ok := d.provider.(interface{ Client() *twilio.Client }); ok {
		return src.Client(), nil
	}
	return nil, common.WrapConfiguration(errors.New("sms dispatcher: active transport has no twilio client"))
}

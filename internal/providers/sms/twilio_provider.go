package sms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	twilio "github.com/kevinburke/twilio-go"
	"github.com/rs/zerolog"

	"github.com/ajayykmr/twilio-sms-go/internal/config"
)

// MessageCreator is the subset of the Twilio message service used to create
// messages. *twilio.MessageService satisfies it.
type MessageCreator interface {
	Create(ctx context.Context, data url.Values) (*twilio.Message, error)
}

// TwilioOption customises the behaviour of the Twilio provider.
type TwilioOption func(*TwilioProvider)

// WithTwilioHTTPClient overrides the HTTP client handed to the Twilio SDK.
func WithTwilioHTTPClient(client *http.Client) TwilioOption {
	return func(p *TwilioProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithTwilioMessageCreator replaces the SDK message service. Useful for tests.
func WithTwilioMessageCreator(creator MessageCreator) TwilioOption {
	return func(p *TwilioProvider) {
		if creator != nil {
			p.messages = creator
		}
	}
}

// TwilioProvider implements Provider on top of the Twilio REST API.
type TwilioProvider struct {
	logger     zerolog.Logger
	accountSID string
	authToken  string
	httpClient *http.Client
	messages   MessageCreator

	once   sync.Once
	client *twilio.Client
}

// NewTwilioProvider constructs a Twilio-backed SMS provider. The SDK client is
// not created until first use.
func NewTwilioProvider(cfg config.TwilioConfig, logger zerolog.Logger, opts ...TwilioOption) (*TwilioProvider, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" {
		return nil, errors.New("twilio sms provider: account SID is required")
	}
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilio sms provider: auth token is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	p := &TwilioProvider{
		logger:     logger,
		accountSID: strings.TrimSpace(cfg.AccountSID),
		authToken:  strings.TrimSpace(cfg.AuthToken),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Client returns the Twilio client, building it on the first call. Every
// later call returns the same handle.
func (p *TwilioProvider) Client() *twilio.Client {
	p.once.Do(func() {
		p.client = twilio.NewClient(p.accountSID, p.authToken, p.httpClient)
		p.logger.Debug().Msg("twilio client created")
	})
	return p.client
}

// Send creates the message through the Twilio API.
func (p *TwilioProvider) Send(ctx context.Context, payload *Payload) (*twilio.Message, error) {
	if payload == nil {
		return nil, errors.New("twilio sms provider: payload is required")
	}

	creator := p.messages
	if creator == nil {
		creator = p.Client().Messages
	}

	msg, err := creator.Create(ctx, payload.Values())
	if err != nil {
		return nil, fmt.Errorf("twilio sms provider: create message: %w", err)
	}
	return msg, nil
}

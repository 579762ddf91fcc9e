package sms

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"time"

	twilio "github.com/kevinburke/twilio-go"
	"github.com/rs/zerolog"

	"github.com/ajayykmr/twilio-sms-go/internal/models"
)

// Scenario enumerates the mock behaviours supported by the SMS provider.
type Scenario string

const (
	ScenarioSuccess     Scenario = "success"
	ScenarioAuthFailure Scenario = "auth_failure"
	ScenarioRejected    Scenario = "rejected"
	ScenarioTimeout     Scenario = "timeout"
)

// Option customises the mock provider.
type Option func(*MockProvider)

// WithScenario sets the default scenario.
func WithScenario(s Scenario) Option {
	return func(p *MockProvider) {
		p.defaultScenario = s
	}
}

// WithRecipientScenario forces a scenario for one destination number.
func WithRecipientScenario(to string, s Scenario) Option {
	return func(p *MockProvider) {
		p.byRecipient[to] = s
	}
}

// WithLatency configures the artificial latency injected before sending.
func WithLatency(d time.Duration) Option {
	return func(p *MockProvider) {
		if d < 0 {
			d = 0
		}
		p.latency = d
	}
}

// MockProvider is a deterministic SMS provider used for tests and local runs.
// It records every payload it receives.
type MockProvider struct {
	logger          zerolog.Logger
	defaultScenario Scenario
	byRecipient     map[string]Scenario
	latency         time.Duration

	mu   sync.Mutex
	rnd  *rand.Rand
	sent []Payload
}

// NewMockProvider constructs a mock SMS provider.
func NewMockProvider(logger zerolog.Logger, opts ...Option) *MockProvider {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	p := &MockProvider{
		logger:          logger,
		defaultScenario: ScenarioSuccess,
		byRecipient:     map[string]Scenario{},
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- predictable in tests.
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Send simulates creating a message according to the configured scenario.
func (p *MockProvider) Send(ctx context.Context, payload *Payload) (*twilio.Message, error) {
	if payload == nil {
		return nil, errors.New("sms mock: payload is required")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p.mu.Lock()
	p.sent = append(p.sent, *payload)
	scenario, ok := p.byRecipient[payload.To]
	if !ok {
		scenario = p.defaultScenario
	}
	p.mu.Unlock()

	if p.latency > 0 || scenario == ScenarioTimeout {
		timer := time.NewTimer(p.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	switch scenario {
	case ScenarioSuccess:
		return &twilio.Message{
			Sid:    p.generateSid(),
			Body:   payload.Body,
			Status: twilio.Status(models.StatusQueued),
		}, nil
	case ScenarioAuthFailure:
		return nil, errors.New("sms mock: authenticate: invalid username (20003)")
	case ScenarioRejected:
		return nil, fmt.Errorf("sms mock: the 'To' number %s is not a valid phone number (21211)", payload.To)
	case ScenarioTimeout:
		return nil, errors.New("sms mock timeout")
	default:
		return nil, fmt.Errorf("sms mock unknown scenario: %s", scenario)
	}
}

// Sent returns a copy of every payload received so far.
func (p *MockProvider) Sent() []Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Payload(nil), p.sent...)
}

func (p *MockProvider) generateSid() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("SM%032x", p.rnd.Uint64())
}

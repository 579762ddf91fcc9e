package sms_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	twilio "github.com/kevinburke/twilio-go"
	"github.com/rs/zerolog"

	"github.com/ajayykmr/twilio-sms-go/internal/config"
	smsprovider "github.com/ajayykmr/twilio-sms-go/internal/providers/sms"
)

type fakeCreator struct {
	calls []url.Values
	resp  *twilio.Message
	err   error
}

func (f *fakeCreator) Create(_ context.Context, data url.Values) (*twilio.Message, error) {
	f.calls = append(f.calls, data)
	return f.resp, f.err
}

func validTwilioConfig() config.TwilioConfig {
	return config.TwilioConfig{AccountSID: "ACxxxxxxxx", AuthToken: "token"}
}

func TestNewTwilioProviderRequiresCredentials(t *testing.T) {
	cases := map[string]config.TwilioConfig{
		"missing sid":   {AuthToken: "token"},
		"missing token": {AccountSID: "ACxxxxxxxx"},
		"blank sid":     {AccountSID: "   ", AuthToken: "token"},
	}
	for name, cfg := range cases {
		cfg := cfg
		t.Run(name, func(t *testing.T) {
			if _, err := smsprovider.NewTwilioProvider(cfg, zerolog.Nop()); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestTwilioProviderClientIsCached(t *testing.T) {
	provider, err := smsprovider.NewTwilioProvider(validTwilioConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	first := provider.Client()
	if first == nil {
		t.Fatalf("expected client")
	}
	if second := provider.Client(); second != first {
		t.Fatalf("expected the same client handle on repeated calls")
	}
}

func TestTwilioProviderSendsMinimalPayload(t *testing.T) {
	want := &twilio.Message{Sid: "SM123"}
	creator := &fakeCreator{resp: want}
	provider, err := smsprovider.NewTwilioProvider(validTwilioConfig(), zerolog.Nop(), smsprovider.WithTwilioMessageCreator(creator))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	got, err := provider.Send(context.Background(), &smsprovider.Payload{
		To:   "+15552224444",
		From: "+15552228888",
		Body: "Hello",
	})
	if err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if got != want {
		t.Fatalf("expected provider message to be returned unchanged")
	}
	if len(creator.calls) != 1 {
		t.Fatalf("expected one create call, got %d", len(creator.calls))
	}

	values := creator.calls[0]
	expected := url.Values{
		"To":   {"+15552224444"},
		"From": {"+15552228888"},
		"Body": {"Hello"},
	}
	if values.Encode() != expected.Encode() {
		t.Fatalf("unexpected form values: %s", values.Encode())
	}
}

func TestTwilioProviderOptionalParams(t *testing.T) {
	creator := &fakeCreator{resp: &twilio.Message{Sid: "SM123"}}
	provider, err := smsprovider.NewTwilioProvider(validTwilioConfig(), zerolog.Nop(), smsprovider.WithTwilioMessageCreator(creator))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	_, err = provider.Send(context.Background(), &smsprovider.Payload{
		To:             "+15552224444",
		From:           "+15552228888",
		Body:           "Hello",
		StatusCallback: "https://example.com/cb",
		MediaURL:       "https://example.com/cat.png",
	})
	if err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	values := creator.calls[0]
	if got := values.Get("StatusCallback"); got != "https://example.com/cb" {
		t.Fatalf("expected StatusCallback param, got %q", got)
	}
	if got := values.Get("MediaUrl"); got != "https://example.com/cat.png" {
		t.Fatalf("expected MediaUrl param, got %q", got)
	}
}

func TestTwilioProviderWrapsSDKError(t *testing.T) {
	sdkErr := errors.New("Authenticate")
	creator := &fakeCreator{err: sdkErr}
	provider, err := smsprovider.NewTwilioProvider(validTwilioConfig(), zerolog.Nop(), smsprovider.WithTwilioMessageCreator(creator))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	_, err = provider.Send(context.Background(), &smsprovider.Payload{To: "+15552224444", From: "+15552228888"})
	if !errors.Is(err, sdkErr) {
		t.Fatalf("expected sdk error to be wrapped, got %v", err)
	}
}

func TestPayloadValuesOmitsEmptyOptionals(t *testing.T) {
	values := (&smsprovider.Payload{To: "+1", From: "+2", Body: ""}).Values()
	if _, ok := values["StatusCallback"]; ok {
		t.Fatalf("StatusCallback must be absent when empty")
	}
	if _, ok := values["MediaUrl"]; ok {
		t.Fatalf("MediaUrl must be absent when empty")
	}
	if _, ok := values["Body"]; !ok {
		t.Fatalf("Body must always be present")
	}
}

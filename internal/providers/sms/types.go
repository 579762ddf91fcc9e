package sms

import (
	"context"
	"net/url"

	twilio "github.com/kevinburke/twilio-go"
)

// Payload is the request body sent to the provider's create-message endpoint.
// StatusCallback and MediaURL are optional and omitted when empty.
type Payload struct {
	To             string
	From           string
	Body           string
	StatusCallback string
	MediaURL       string
}

// Values encodes the payload as Twilio form parameters.
func (p *Payload) Values() url.Values {
	v := url.Values{}
	v.Set("To", p.To)
	v.Set("From", p.From)
	v.Set("Body", p.Body)
	if p.StatusCallback != "" {
		v.Set("StatusCallback", p.StatusCallback)
	}
	if p.MediaURL != "" {
		v.Set("MediaUrl", p.MediaURL)
	}
	return v
}

// Provider represents an outbound SMS transport. The returned message is the
// provider's resource for the created message.
type Provider interface {
	Send(ctx context.Context, payload *Payload) (*twilio.Message, error)
}

package sms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	twilio "github.com/kevinburke/twilio-go"
	"github.com/rs/zerolog"

	"github.com/ajayykmr/twilio-sms-go/internal/models"
)

// FileOption customises the file transport.
type FileOption func(*FileProvider)

// WithFileClock overrides the clock used to name and stamp files.
func WithFileClock(now func() time.Time) FileOption {
	return func(p *FileProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// FileProvider is the local transport: every message is written to its own
// file under dir and nothing is sent to Twilio.
type FileProvider struct {
	logger zerolog.Logger
	dir    string
	now    func() time.Time
}

// NewFileProvider constructs a file transport rooted at dir.
func NewFileProvider(dir string, logger zerolog.Logger, opts ...FileOption) (*FileProvider, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("sms file transport: directory is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	p := &FileProvider{
		logger: logger,
		dir:    dir,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Send writes the payload to a new file and returns a queued message whose Sid
// is the generated file id.
func (p *FileProvider) Send(ctx context.Context, payload *Payload) (*twilio.Message, error) {
	if payload == nil {
		return nil, errors.New("sms file transport: payload is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("sms file transport: create dir: %w", err)
	}

	ts := p.now()
	id := uuid.NewString()
	name := filepath.Join(p.dir, fmt.Sprintf("%s-%s.txt", ts.UTC().Format("20060102-150405"), id))

	if err := os.WriteFile(name, []byte(render(payload, ts)), 0o644); err != nil {
		return nil, fmt.Errorf("sms file transport: write: %w", err)
	}

	p.logger.Debug().
		Str("file", name).
		Str("to", payload.To).
		Msg("sms written to file transport")

	return &twilio.Message{
		Sid:    id,
		Body:   payload.Body,
		Status: twilio.Status(models.StatusQueued),
	}, nil
}

// Dir returns the directory messages are written to.
func (p *FileProvider) Dir() string { return p.dir }

func render(payload *Payload, ts time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", ts.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "From: %s\n", payload.From)
	fmt.Fprintf(&b, "To: %s\n", payload.To)
	if payload.StatusCallback != "" {
		fmt.Fprintf(&b, "Status-Callback: %s\n", payload.StatusCallback)
	}
	if payload.MediaURL != "" {
		fmt.Fprintf(&b, "Media-Url: %s\n", payload.MediaURL)
	}
	b.WriteString("\n")
	b.WriteString(payload.Body)
	b.WriteString("\n")
	return b.String()
}

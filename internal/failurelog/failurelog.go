// Package failurelog records failed SMS sends in an append-only sink.
package failurelog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Formats understood by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// legacyTimeFormat renders timestamps as m-d-Y h:i:s a.
const legacyTimeFormat = "01-02-2006 03:04:05 pm"

// Record describes one failed send.
type Record struct {
	Category string
	Phone    string
	Err      error
}

// Sink receives failure records.
type Sink interface {
	Record(rec Record)
}

// Option customises a Log.
type Option func(*Log)

// WithClock overrides the clock used to timestamp text records.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// Log writes one entry per failure. Writes are serialized so concurrent
// senders never interleave records.
type Log struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	format string
	now    func() time.Time
	zl     zerolog.Logger
}

// New builds a Log on top of w. An empty format means json.
func New(w io.Writer, format string, opts ...Option) (*Log, error) {
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatText:
	default:
		return nil, fmt.Errorf("failurelog: unsupported format %q", format)
	}
	l := &Log{
		out:    w,
		format: format,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.zl = zerolog.New(w).With().Timestamp().Logger()
	return l, nil
}

// Open creates (or appends to) the file at path.
func Open(path, format string, opts ...Option) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failurelog: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failurelog: open: %w", err)
	}
	l, err := New(f, format, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	l.closer = f
	return l, nil
}

// Record appends rec to the log.
func (l *Log) Record(rec Record) {
	msg := ""
	if rec.Err != nil {
		msg = rec.Err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.format == FormatText {
		fmt.Fprintf(l.out, "[%s] SMS Failed - Phone: %s\n%s\n---\n", l.now().Format(legacyTimeFormat), rec.Phone, msg)
		return
	}
	// Level-less so the global log level never drops a record.
	l.zl.Log().
		Str("category", rec.Category).
		Str("phone", rec.Phone).
		Str("error", msg).
		Msg("SMS Failed")
}

// Close releases the underlying file when the log owns one.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Nop discards every record.
type Nop struct{}

// Record implements Sink.
func (Nop) Record(Record) {}

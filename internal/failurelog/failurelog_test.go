package failurelog_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ajayykmr/twilio-sms-go/internal/failurelog"
)

func TestJSONRecord(t *testing.T) {
	var buf bytes.Buffer
	log, err := failurelog.New(&buf, failurelog.FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Record(failurelog.Record{Category: "provider", Phone: "+15552224444", Err: errors.New("Authenticate")})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a json line, got %q: %v", buf.String(), err)
	}
	if entry["category"] != "provider" || entry["phone"] != "+15552224444" || entry["error"] != "Authenticate" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry["message"] != "SMS Failed" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
}

func TestTextRecordMatchesLegacyLayout(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2025, time.March, 4, 15, 6, 7, 0, time.UTC)
	log, err := failurelog.New(&buf, failurelog.FormatText, failurelog.WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Record(failurelog.Record{Category: "configuration", Phone: "+15552224444", Err: errors.New("invalid 'from' phone number")})

	want := "[03-04-2025 03:06:07 pm] SMS Failed - Phone: +15552224444\ninvalid 'from' phone number\n---\n"
	if buf.String() != want {
		t.Fatalf("unexpected text record:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := failurelog.New(&bytes.Buffer{}, "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sms-failures.log")

	for i := 0; i < 2; i++ {
		log, err := failurelog.Open(path, failurelog.FormatJSON)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		log.Record(failurelog.Record{Category: "unexpected", Phone: "+1", Err: errors.New("boom")})
		if err := log.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 2 {
		t.Fatalf("expected 2 appended records, got %d:\n%s", lines, data)
	}
}

func TestConcurrentRecordsDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	log, err := failurelog.New(&buf, failurelog.FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Record(failurelog.Record{Phone: "+1", Err: errors.New("boom")})
		}()
	}
	wg.Wait()

	blocks := strings.Split(strings.TrimSuffix(buf.String(), "---\n"), "---\n")
	if len(blocks) != 20 {
		t.Fatalf("expected 20 records, got %d", len(blocks))
	}
	for _, b := range blocks {
		if !strings.HasSuffix(b, "SMS Failed - Phone: +1\nboom\n") {
			t.Fatalf("interleaved record %q", b)
		}
	}
}

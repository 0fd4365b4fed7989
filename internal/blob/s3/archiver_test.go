package s3blob

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// captureWriter records every Put keyed by path.
type captureWriter struct {
	objects map[string][]byte
	types   map[string]string
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{objects: map[string][]byte{}, types: map[string]string{}}
}

func (w *captureWriter) Put(_ context.Context, path string, data []byte, contentType string) error {
	w.objects[path] = data
	w.types[path] = contentType
	return nil
}

func TestArchivePayloadKeyLayout(t *testing.T) {
	writer := newCaptureWriter()
	a := NewArchiver(writer)

	fetchedAt := time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC)
	if err := a.ArchivePayload(context.Background(), "goalserve", "upcoming", fetchedAt, []byte(`{"scores":{}}`)); err != nil {
		t.Fatalf("ArchivePayload: %v", err)
	}

	want := "raw/goalserve/upcoming/2026-08-31/143005.json"
	if _, ok := writer.objects[want]; !ok {
		t.Fatalf("objects = %v, want key %q", keys(writer.objects), want)
	}
	if writer.types[want] != "application/json" {
		t.Errorf("content type = %q", writer.types[want])
	}
}

func TestArchivePayloadSkipsEmptyBody(t *testing.T) {
	writer := newCaptureWriter()
	a := NewArchiver(writer)

	if err := a.ArchivePayload(context.Background(), "goalserve", "upcoming", time.Now(), nil); err != nil {
		t.Fatalf("ArchivePayload: %v", err)
	}
	if len(writer.objects) != 0 {
		t.Errorf("empty payload archived: %v", keys(writer.objects))
	}
}

func TestArchiveForecastsKeyedPerRun(t *testing.T) {
	writer := newCaptureWriter()
	a := NewArchiver(writer)

	forecasts := []domain.Forecast{
		{ID: "fc-1", FixtureID: "fx-1", Bucket: domain.BucketVIP, Status: domain.ForecastWon},
		{ID: "fc-2", FixtureID: "fx-2", Bucket: domain.BucketDaily2, Status: domain.ForecastLost},
	}

	first := time.Date(2026, 8, 10, 6, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC)
	if err := a.ArchiveForecasts(context.Background(), first, forecasts); err != nil {
		t.Fatalf("first ArchiveForecasts: %v", err)
	}
	if err := a.ArchiveForecasts(context.Background(), second, forecasts[:1]); err != nil {
		t.Fatalf("second ArchiveForecasts: %v", err)
	}

	// Two runs in the same month must land under two keys.
	if len(writer.objects) != 2 {
		t.Fatalf("objects = %v, want two distinct keys", keys(writer.objects))
	}

	firstKey := "archive/forecasts/2026-08-10/060000.jsonl"
	body, ok := writer.objects[firstKey]
	if !ok {
		t.Fatalf("objects = %v, want key %q", keys(writer.objects), firstKey)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 {
		t.Errorf("jsonl lines = %d, want 2", len(lines))
	}
	if writer.types[firstKey] != "application/x-ndjson" {
		t.Errorf("content type = %q", writer.types[firstKey])
	}
}

func TestArchiveForecastsSkipsEmptyRun(t *testing.T) {
	writer := newCaptureWriter()
	a := NewArchiver(writer)

	if err := a.ArchiveForecasts(context.Background(), time.Now(), nil); err != nil {
		t.Fatalf("ArchiveForecasts: %v", err)
	}
	if len(writer.objects) != 0 {
		t.Errorf("empty run archived: %v", keys(writer.objects))
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

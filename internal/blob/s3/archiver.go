package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// Archiver retains raw provider payloads and graded forecasts in object
// storage. Raw bodies are kept verbatim so a parsing regression can be
// replayed against the exact payload that triggered it.
type Archiver struct {
	writer domain.BlobWriter
}

// NewArchiver creates an Archiver on top of the given writer.
func NewArchiver(writer domain.BlobWriter) *Archiver {
	return &Archiver{writer: writer}
}

// ArchivePayload uploads one raw provider body, partitioned by source, feed
// kind, and fetch day:
//
//	raw/goalserve/upcoming/2026-08-31/143005.json
func (a *Archiver) ArchivePayload(ctx context.Context, source, kind string, fetchedAt time.Time, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}

	path := fmt.Sprintf("raw/%s/%s/%s/%s.json",
		source, kind,
		fetchedAt.UTC().Format("2006-01-02"),
		fetchedAt.UTC().Format("150405"),
	)
	if err := a.writer.Put(ctx, path, payload, "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive %s %s payload: %w", source, kind, err)
	}
	return nil
}

// ArchiveForecasts uploads one grading run's forecasts as JSONL,
// partitioned by grading day with the run's time as the object name so
// successive runs never overwrite each other:
//
//	archive/forecasts/2026-08-31/143005.jsonl
func (a *Archiver) ArchiveForecasts(ctx context.Context, gradedAt time.Time, forecasts []domain.Forecast) error {
	if len(forecasts) == 0 {
		return nil
	}

	buf, err := marshalJSONL(forecasts)
	if err != nil {
		return fmt.Errorf("s3blob: archive forecasts marshal: %w", err)
	}

	path := fmt.Sprintf("archive/forecasts/%s/%s.jsonl",
		gradedAt.UTC().Format("2006-01-02"),
		gradedAt.UTC().Format("150405"),
	)
	if err := a.writer.Put(ctx, path, buf, "application/x-ndjson"); err != nil {
		return fmt.Errorf("s3blob: archive forecasts upload: %w", err)
	}
	return nil
}

// marshalJSONL serialises records as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

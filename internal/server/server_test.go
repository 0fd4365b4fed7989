package server

import (
	"io"
	"log/slog"
	"testing"
)

func TestServerHasNoWriteDeadlineForSynchronousRuns(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewServer(Config{Port: 8080}, Handlers{}, nil, nil, logger)

	// Trigger handlers block for up to the configured run timeouts before
	// writing the summary; a fixed write deadline would cut them off.
	if s.httpServer.WriteTimeout != 0 {
		t.Errorf("WriteTimeout = %v, want 0", s.httpServer.WriteTimeout)
	}
	if s.httpServer.ReadTimeout == 0 {
		t.Error("ReadTimeout disabled")
	}
	if s.httpServer.IdleTimeout == 0 {
		t.Error("IdleTimeout disabled")
	}
}

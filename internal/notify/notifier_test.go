package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSender struct {
	name     string
	err      error
	titles   []string
	messages []string
}

func (s *recordingSender) Send(_ context.Context, title, message string) error {
	if s.err != nil {
		return s.err
	}
	s.titles = append(s.titles, title)
	s.messages = append(s.messages, message)
	return nil
}

func (s *recordingSender) Name() string { return s.name }

func TestNotifyFiltersEvents(t *testing.T) {
	sender := &recordingSender{name: "telegram"}
	n := NewNotifier([]Sender{sender}, []string{EventRunError}, discardLogger())

	if err := n.Notify(context.Background(), EventRunSummary, "summary", "ok"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(sender.titles) != 0 {
		t.Errorf("filtered event delivered: %v", sender.titles)
	}

	if err := n.Notify(context.Background(), EventRunError, "failed", "boom"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(sender.titles) != 1 || sender.titles[0] != "failed" {
		t.Errorf("titles = %v, want [failed]", sender.titles)
	}
}

func TestNotifyEmptyFilterAllowsAll(t *testing.T) {
	sender := &recordingSender{name: "discord"}
	n := NewNotifier([]Sender{sender}, nil, discardLogger())

	for _, event := range []string{EventRunSummary, EventRunError, EventProviderExhausted} {
		if err := n.Notify(context.Background(), event, event, "body"); err != nil {
			t.Fatalf("Notify(%s): %v", event, err)
		}
	}
	if len(sender.titles) != 3 {
		t.Errorf("delivered %d notifications, want 3", len(sender.titles))
	}
}

func TestNotifyCollectsSenderErrors(t *testing.T) {
	broken := &recordingSender{name: "telegram", err: errors.New("api 502")}
	working := &recordingSender{name: "discord"}
	n := NewNotifier([]Sender{broken, working}, nil, discardLogger())

	err := n.Notify(context.Background(), EventRunError, "failed", "boom")
	if err == nil {
		t.Fatal("Notify: want error from broken sender")
	}
	if !strings.Contains(err.Error(), "telegram") {
		t.Errorf("err = %v, want mention of the failing sender", err)
	}
	if len(working.titles) != 1 {
		t.Errorf("working sender got %d notifications, want 1", len(working.titles))
	}
}

func TestIngestFinishedEscalatesChainExhaustion(t *testing.T) {
	sender := &recordingSender{name: "telegram"}
	n := NewNotifier([]Sender{sender}, []string{EventProviderExhausted}, discardLogger())

	n.IngestFinished(context.Background(), domain.RunSummary{
		Errors: map[string]string{
			"chain":       domain.ErrProviderExhausted.Error(),
			"apifootball": "429 too many requests",
		},
	})

	if len(sender.titles) != 1 {
		t.Fatalf("delivered %d notifications, want 1", len(sender.titles))
	}
	if sender.titles[0] != "All fixture providers failed" {
		t.Errorf("title = %q", sender.titles[0])
	}
	if !strings.Contains(sender.messages[0], "apifootball: 429 too many requests") {
		t.Errorf("message = %q, want per-provider errors", sender.messages[0])
	}
}

func TestIngestFinishedSummaryFilteredByDefault(t *testing.T) {
	sender := &recordingSender{name: "telegram"}
	n := NewNotifier([]Sender{sender}, []string{EventProviderExhausted, EventRunError}, discardLogger())

	n.IngestFinished(context.Background(), domain.RunSummary{Created: 5, Sources: []string{"apifootball"}})

	if len(sender.titles) != 0 {
		t.Errorf("routine summary delivered despite filter: %v", sender.titles)
	}
}

func TestForecastFinishedEscalatesOracleExhaustion(t *testing.T) {
	sender := &recordingSender{name: "discord"}
	n := NewNotifier([]Sender{sender}, []string{EventOracleExhausted}, discardLogger())

	n.ForecastFinished(context.Background(), domain.ForecastRunSummary{
		Fixtures:    4,
		Unavailable: 4,
	})

	if len(sender.titles) != 1 || sender.titles[0] != "Forecast oracle exhausted" {
		t.Fatalf("titles = %v, want oracle exhaustion alert", sender.titles)
	}
}

func TestForecastFinishedPartialSuccessIsRoutine(t *testing.T) {
	sender := &recordingSender{name: "discord"}
	n := NewNotifier([]Sender{sender}, []string{EventOracleExhausted}, discardLogger())

	n.ForecastFinished(context.Background(), domain.ForecastRunSummary{
		Fixtures:    4,
		Generated:   2,
		Unavailable: 2,
	})

	if len(sender.titles) != 0 {
		t.Errorf("partial success escalated: %v", sender.titles)
	}
}

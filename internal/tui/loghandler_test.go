package tui

import (
	"log/slog"
	"strconv"
	"strings"
	"testing"
)

func TestLogHandler_FiltersByLevelAndFormatsAttrs(t *testing.T) {
	h := NewLogHandler(slog.LevelWarn)
	log := slog.New(h).With("ticket", "t1").WithGroup("api")

	log.Info("ignored")
	log.Warn("move failed", "status", 500)

	got := h.Entries()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d: %#v", len(got), got)
	}
	if got[0].Message != "move failed ticket=t1 api.status=500" {
		t.Fatalf("unexpected message %q", got[0].Message)
	}
	if !strings.HasPrefix(got[0].String(), "WARN ") {
		t.Fatalf("unexpected String(): %q", got[0].String())
	}
}

func TestLogHandler_KeepsMostRecentAndNotifies(t *testing.T) {
	h := NewLogHandler(slog.LevelDebug)
	var seen []string
	h.Subscribe(func(e LogEntry) { seen = append(seen, e.Message) })

	log := slog.New(h)
	for i := 0; i < maxLogEntries+5; i++ {
		log.Info(strconv.Itoa(i))
	}
	got := h.Entries()
	if len(got) != maxLogEntries {
		t.Fatalf("expected %d entries, got %d", maxLogEntries, len(got))
	}
	if got[0].Message != "5" {
		t.Fatalf("expected oldest retained entry to be 5, got %q", got[0].Message)
	}
	if len(seen) != maxLogEntries+5 {
		t.Fatalf("expected every record to be delivered, got %d", len(seen))
	}

	h.Subscribe(nil)
	log.Info("after")
	if len(seen) != maxLogEntries+5 {
		t.Fatalf("expected no delivery after unsubscribe")
	}
}

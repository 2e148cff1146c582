package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const maxLogEntries = 50

type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

func (e LogEntry) String() string {
	return e.Level.String() + " " + e.Message
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
	notify  func(LogEntry)
}

// LogHandler is a slog.Handler that keeps recent records in memory for the
// status bar instead of writing to the terminal the TUI owns.
type LogHandler struct {
	level  slog.Leveler
	prefix string
	attrs  []slog.Attr
	sink   *logSink
}

func NewLogHandler(level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{level: level, sink: &logSink{}}
}

func (h *LogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			return true
		}
		fmt.Fprintf(&b, " %s%s=%v", h.prefix, a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	e := LogEntry{Time: r.Time, Level: r.Level, Message: b.String()}
	h.sink.mu.Lock()
	h.sink.entries = append(h.sink.entries, e)
	if n := len(h.sink.entries); n > maxLogEntries {
		h.sink.entries = append([]LogEntry(nil), h.sink.entries[n-maxLogEntries:]...)
	}
	notify := h.sink.notify
	h.sink.mu.Unlock()

	if notify != nil {
		notify(e)
	}
	return nil
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &out
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}

// Subscribe sets the function called for every new record (nil to stop).
func (h *LogHandler) Subscribe(fn func(LogEntry)) {
	h.sink.mu.Lock()
	h.sink.notify = fn
	h.sink.mu.Unlock()
}

// Entries returns the retained records, oldest first.
func (h *LogHandler) Entries() []LogEntry {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return append([]LogEntry(nil), h.sink.entries...)
}

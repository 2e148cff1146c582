package docs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	want := []string{"auth", "board", "search", "streams"}
	if diff := cmp.Diff(want, Topics()); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic  string
		ok     bool
		prefix string
	}{
		{topic: "board", ok: true, prefix: "# The ticket board"},
		{topic: " Streams ", ok: true, prefix: "# Streams"},
		{topic: "", ok: false},
		{topic: "missing", ok: false},
		{topic: "../docs", ok: false},
	}
	for _, tt := range tests {
		body, ok := Get(tt.topic)
		if ok != tt.ok {
			t.Fatalf("Get(%q) ok=%v, want %v", tt.topic, ok, tt.ok)
		}
		if ok && !strings.HasPrefix(body, tt.prefix) {
			t.Fatalf("Get(%q) = %q, want prefix %q", tt.topic, body, tt.prefix)
		}
	}
}

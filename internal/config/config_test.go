package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParse_AcceptsCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	src := []byte(`{
  // where the helpdesk API lives
  "apiUrl": "https://help.example.com/api/",
  "timeoutSeconds": 5,
  "tui": {"profile": "ascii",},
}`)
	cfg, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := &Config{APIURL: "https://help.example.com/api/", TimeoutSeconds: 5, TUI: &TUIConfig{Profile: "ascii"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.ResolvedAPIURL(); got != "https://help.example.com/api" {
		t.Fatalf("ResolvedAPIURL = %q", got)
	}
	if got := cfg.Timeout(); got != 5*time.Second {
		t.Fatalf("Timeout = %v", got)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	var cfg *Config
	if cfg.ResolvedAPIURL() != DefaultAPIURL {
		t.Fatalf("expected default api url")
	}
	if cfg.SearchDebounce() != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %v", cfg.SearchDebounce())
	}
}

func TestSaveLoadRoundTripKeepsBackup(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cfg")
	if err := Save(dir, &Config{APIURL: "http://a"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Save(dir, &Config{APIURL: "http://b"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://b" {
		t.Fatalf("expected latest config, got %q", cfg.APIURL)
	}
	bak, err := os.ReadFile(Path(dir) + ".bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	prev, err := Parse(bak)
	if err != nil || prev.APIURL != "http://a" {
		t.Fatalf("expected backup to hold previous config, got %+v (%v)", prev, err)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Fatalf("expected empty config (-want +got):\n%s", diff)
	}
}

func TestSet(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if err := cfg.Set("searchDebounceMs", "150"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if cfg.SearchDebounce() != 150*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.SearchDebounce())
	}
	if err := cfg.Set("tui.profile", "neon"); err == nil {
		t.Fatalf("expected invalid profile to fail")
	}
	if err := cfg.Set("nope", "x"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

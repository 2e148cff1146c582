package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

const (
	DefaultAPIURL         = "http://localhost:8080/api"
	DefaultTimeout        = 30 * time.Second
	DefaultSearchDebounce = 300 * time.Millisecond
)

type Config struct {
	APIURL           string `json:"apiUrl,omitempty"`
	TimeoutSeconds   int    `json:"timeoutSeconds,omitempty"`
	DefaultProjectID string `json:"defaultProjectId,omitempty"`
	SearchDebounceMs int    `json:"searchDebounceMs,omitempty"`

	// TUI holds optional preferences for the interactive client.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Profile selects the colour profile: "auto" (default), "ascii" or "truecolor".
	Profile string `json:"profile,omitempty"`
}

// Keys lists the settable keys in `helpdesk config set`.
var Keys = []string{"apiUrl", "timeoutSeconds", "defaultProjectId", "searchDebounceMs", "tui.profile"}

func (c *Config) Timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) SearchDebounce() time.Duration {
	if c == nil || c.SearchDebounceMs <= 0 {
		return DefaultSearchDebounce
	}
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

func (c *Config) ResolvedAPIURL() string {
	if c != nil && strings.TrimSpace(c.APIURL) != "" {
		return strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	}
	return DefaultAPIURL
}

// Set assigns one of Keys from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "apiUrl":
		c.APIURL = value
	case "defaultProjectId":
		c.DefaultProjectID = value
	case "timeoutSeconds", "searchDebounceMs":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: expected a non-negative integer, got %q", key, value)
		}
		if key == "timeoutSeconds" {
			c.TimeoutSeconds = n
		} else {
			c.SearchDebounceMs = n
		}
	case "tui.profile":
		switch value {
		case "", "auto", "ascii", "truecolor":
		default:
			return fmt.Errorf("tui.profile: expected auto|ascii|truecolor, got %q", value)
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Profile = value
	default:
		return fmt.Errorf("unknown config key: %s (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.helpdesk).
	if v := strings.TrimSpace(os.Getenv("HELPDESK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".helpdesk"), nil
}

func Path(dir string) string {
	return filepath.Join(dir, "config.json")
}

// Load reads config.json from dir. The file may contain comments and trailing
// commas. A missing file yields the zero config.
func Load(dir string) (*Config, error) {
	b, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func Save(dir string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	path := Path(dir)
	// Keep a copy of the previous config to make recovery from accidental overwrites easier.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomic.WriteFile(path+".bak", bytes.NewReader(prev))
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return err
	}
	// atomic.WriteFile does not set permissions on new files.
	return os.Chmod(path, 0o600)
}

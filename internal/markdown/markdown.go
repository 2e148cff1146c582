// Package markdown renders ticket descriptions and comments for the terminal.
package markdown

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mu sync.Mutex
	// Renderers are cached by style, margin and wrap width. WithAutoStyle is
	// avoided because it queries the terminal and can block.
	renderers = map[string]*glamour.TermRenderer{}
)

// Render renders md wrapped at width. On any renderer error the source text
// is returned unchanged.
func Render(md string, width int) string {
	return render(md, width, true)
}

// RenderCompact renders without document margins, for dense listings such
// as comment threads.
func RenderCompact(md string, width int) string {
	return render(md, width, false)
}

func render(md string, width int, margin bool) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style := Style()
	key := style + ":" + strconv.Itoa(width)
	if !margin {
		key += ":nomargin"
	}

	mu.Lock()
	r := renderers[key]
	mu.Unlock()

	if r == nil {
		cfg := styleConfig(style)
		if !margin {
			zero := uint(0)
			cfg.Document.Margin = &zero
		}
		rr, err := glamour.NewTermRenderer(glamour.WithStyles(cfg), glamour.WithWordWrap(width))
		if err != nil {
			return md
		}
		mu.Lock()
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		mu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func styleConfig(style string) ansi.StyleConfig {
	if style == "light" {
		return styles.LightStyleConfig
	}
	return styles.DarkStyleConfig
}

// Style picks "light" or "dark" from HELPDESK_MD_STYLE, then COLORFGBG, then
// lipgloss background detection.
func Style() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("HELPDESK_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG is usually "fg;bg"; 0-6 are dark backgrounds.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

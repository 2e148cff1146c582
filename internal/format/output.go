package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Formats lists the accepted --format values.
var Formats = []string{"json", "yaml", "table"}

// Tabler is implemented by payloads with a natural tabular rendering.
type Tabler interface {
	Table() (headers []string, rows [][]string)
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
// - table (human readable; Tabler payloads get their own columns)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	case "table":
		return WriteTable(w, v)
	default:
		return fmt.Errorf("unknown format: %s (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML goes through JSON first so json tags decide field names.
func WriteYAML(w io.Writer, v any) error {
	x, err := toGeneric(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

func WriteTable(w io.Writer, v any) error {
	var headers []string
	var rows [][]string
	if t, ok := v.(Tabler); ok {
		headers, rows = t.Table()
	} else {
		x, err := toGeneric(v)
		if err != nil {
			return err
		}
		headers, rows = genericTable(x)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return nil, err
	}
	return x, nil
}

// genericTable renders a list of objects as one row each, and anything else
// as key/value rows.
func genericTable(x any) ([]string, [][]string) {
	switch t := x.(type) {
	case []any:
		keys := map[string]bool{}
		for _, el := range t {
			if m, ok := el.(map[string]any); ok {
				for k := range m {
					keys[k] = true
				}
			}
		}
		if len(keys) == 0 {
			rows := make([][]string, 0, len(t))
			for _, el := range t {
				rows = append(rows, []string{Cell(el)})
			}
			return []string{"value"}, rows
		}
		headers := sortedKeys(keys)
		rows := make([][]string, 0, len(t))
		for _, el := range t {
			m, _ := el.(map[string]any)
			row := make([]string, len(headers))
			for i, k := range headers {
				row[i] = Cell(m[k])
			}
			rows = append(rows, row)
		}
		return headers, rows
	case map[string]any:
		keys := map[string]bool{}
		for k := range t {
			keys[k] = true
		}
		rows := [][]string{}
		for _, k := range sortedKeys(keys) {
			rows = append(rows, []string{k, Cell(t[k])})
		}
		return []string{"field", "value"}, rows
	case nil:
		return nil, nil
	default:
		return []string{"value"}, [][]string{{Cell(t)}}
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Cell renders a generic JSON value for a table cell.
func Cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

package statusutil

import (
	"fmt"
	"sort"
	"strings"

	"helpdesk-cli/internal/model"
)

// Resolve finds a status by id, then by case-insensitive name.
func Resolve(statuses []model.Status, s string) (model.Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Status{}, fmt.Errorf("invalid status: empty")
	}
	for _, st := range statuses {
		if st.ID == s {
			return st, nil
		}
	}
	for _, st := range statuses {
		if strings.EqualFold(strings.TrimSpace(st.Name), s) {
			return st, nil
		}
	}
	names := make([]string, 0, len(statuses))
	for _, st := range Sorted(statuses) {
		names = append(names, st.Name)
	}
	return model.Status{}, fmt.Errorf("unknown status %q (known: %s)", s, strings.Join(names, ", "))
}

func IsClosed(statuses []model.Status, statusID string) bool {
	sid := strings.TrimSpace(statusID)
	if sid == "" {
		return false
	}
	for _, st := range statuses {
		if st.ID == sid {
			return st.IsClosed
		}
	}
	// Fallback for backends that don't flag closed statuses.
	switch strings.ToLower(sid) {
	case "closed", "done", "resolved":
		return true
	}
	return false
}

// Sorted returns a copy ordered by Order, then Name.
func Sorted(statuses []model.Status) []model.Status {
	out := append([]model.Status(nil), statuses...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func Label(statuses []model.Status, statusID string) string {
	for _, st := range statuses {
		if st.ID == statusID && strings.TrimSpace(st.Name) != "" {
			return st.Name
		}
	}
	if strings.TrimSpace(statusID) == "" {
		return "(no status)"
	}
	return statusID
}

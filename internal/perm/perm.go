// Package perm decides what each role may see and change. The API enforces
// the same rules; these checks only keep the client from offering actions
// that would be refused.
package perm

import (
	"fmt"
	"strings"

	"helpdesk-cli/internal/model"
)

type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionTickets   Section = "tickets"
	SectionBoard     Section = "board"
	SectionProjects  Section = "projects"
	SectionClients   Section = "clients"
	SectionStreams   Section = "streams"
	SectionUsers     Section = "users"
	SectionTags      Section = "tags"
	SectionSearch    Section = "search"
)

var allSections = []Section{
	SectionDashboard, SectionTickets, SectionBoard, SectionProjects, SectionClients,
	SectionStreams, SectionUsers, SectionTags, SectionSearch,
}

// SectionsFor returns the navigation sections available to role, in menu order.
func SectionsFor(role model.Role) []Section {
	switch role {
	case model.RoleAdmin:
		return append([]Section(nil), allSections...)
	case model.RoleEmployee:
		out := make([]Section, 0, len(allSections))
		for _, s := range allSections {
			if s == SectionUsers || s == SectionClients {
				continue
			}
			out = append(out, s)
		}
		return out
	case model.RoleClient:
		return []Section{SectionDashboard, SectionTickets, SectionBoard, SectionSearch}
	default:
		return nil
	}
}

func CanView(role model.Role, s Section) bool {
	for _, x := range SectionsFor(role) {
		if x == s {
			return true
		}
	}
	return false
}

// CanManage reports whether role may create, update or delete records of a section.
func CanManage(role model.Role, s Section) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleEmployee:
		return s != SectionUsers && s != SectionClients
	case model.RoleClient:
		return s == SectionTickets
	}
	return false
}

// CanEditTicket: admins and employees edit any ticket; clients only the ones
// they reported.
func CanEditTicket(u model.User, t model.Ticket) bool {
	switch u.Role {
	case model.RoleAdmin, model.RoleEmployee:
		return true
	case model.RoleClient:
		return strings.TrimSpace(u.ID) != "" && t.ReporterID == u.ID
	}
	return false
}

type DeniedError struct {
	Role    model.Role
	Section Section
	Action  string
}

func (e DeniedError) Error() string {
	role := string(e.Role)
	if role == "" {
		role = "anonymous"
	}
	return fmt.Sprintf("permission denied: role %s cannot %s %s", role, e.Action, e.Section)
}

// Check returns a DeniedError unless role may perform action ("view" or
// "manage") on section.
func Check(role model.Role, s Section, action string) error {
	ok := false
	switch action {
	case "manage":
		ok = CanManage(role, s)
	default:
		action = "view"
		ok = CanView(role, s)
	}
	if ok {
		return nil
	}
	return DeniedError{Role: role, Section: s, Action: action}
}

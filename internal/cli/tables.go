package cli

import (
	"strconv"
	"strings"
	"time"

	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"

	"github.com/dustin/go-humanize"
)

// List payloads below marshal exactly like their element slices and render
// their own columns for --format table.

type ticketList []model.Ticket

func (l ticketList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, t := range l {
		rows = append(rows, []string{t.ID, t.Title, t.StatusID, t.PriorityID, deref(t.AssigneeID), dueLabel(t.DueAt), humanize.Time(t.UpdatedAt)})
	}
	return []string{"ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "DUE", "UPDATED"}, rows
}

type projectList []model.Project

func (l projectList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, p := range l {
		rows = append(rows, []string{p.ID, p.Name, p.ClientID, strconv.FormatBool(p.Active)})
	}
	return []string{"ID", "NAME", "CLIENT", "ACTIVE"}, rows
}

type clientList []model.Client

func (l clientList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		rows = append(rows, []string{c.ID, c.Name, c.Email, c.Phone, strconv.FormatBool(c.Active)})
	}
	return []string{"ID", "NAME", "EMAIL", "PHONE", "ACTIVE"}, rows
}

type userList []model.User

func (l userList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, u := range l {
		rows = append(rows, []string{u.ID, u.FullName, u.Email, string(u.Role), strconv.FormatBool(u.Active)})
	}
	return []string{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE"}, rows
}

type streamList []model.Stream

func (l streamList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		rows = append(rows, []string{s.ID, s.Name, s.Description, strconv.FormatBool(s.Active)})
	}
	return []string{"ID", "NAME", "DESCRIPTION", "ACTIVE"}, rows
}

type commentList []model.Comment

func (l commentList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		body := strings.Join(strings.Fields(c.Body), " ")
		if len(body) > 60 {
			body = body[:57] + "..."
		}
		vis := "public"
		if c.Internal {
			vis = "internal"
		}
		rows = append(rows, []string{c.ID, c.AuthorID, vis, humanize.Time(c.CreatedAt), body})
	}
	return []string{"ID", "AUTHOR", "VISIBILITY", "CREATED", "BODY"}, rows
}

type attachmentList []model.Attachment

func (l attachmentList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, a := range l {
		rows = append(rows, []string{a.ID, a.FileName, a.ContentType, humanize.Bytes(uint64(max(a.Size, 0))), humanize.Time(a.CreatedAt)})
	}
	return []string{"ID", "FILE", "TYPE", "SIZE", "UPLOADED"}, rows
}

type searchResultList []model.SearchResult

func (l searchResultList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{string(r.Type), r.ID, r.Title, r.Subtitle})
	}
	return []string{"TYPE", "ID", "TITLE", "DETAIL"}, rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dueLabel(t *time.Time) string {
	if t == nil {
		return ""
	}
	return humanize.Time(*t)
}

func sectionsFor(role model.Role) []string {
	secs := perm.SectionsFor(role)
	out := make([]string, 0, len(secs))
	for _, s := range secs {
		out = append(out, string(s))
	}
	return out
}

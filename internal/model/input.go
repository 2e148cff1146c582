package model

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func required(errs FieldErrors, field, v string) {
	if strings.TrimSpace(v) == "" {
		errs[field] = "required"
	}
}

func validEmail(errs FieldErrors, field, v string, mustExist bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		if mustExist {
			errs[field] = "required"
		}
		return
	}
	if _, err := mail.ParseAddress(v); err != nil {
		errs[field] = "invalid email"
	}
}

type TicketInput struct {
	Title       string     `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ProjectID   string     `json:"projectId,omitempty"`
	StreamID    *string    `json:"streamId,omitempty"`
	StatusID    string     `json:"statusId,omitempty"`
	PriorityID  string     `json:"priorityId,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
}

// Validate checks a ticket creation form.
func (in TicketInput) Validate() error {
	errs := FieldErrors{}
	required(errs, "title", in.Title)
	required(errs, "projectId", in.ProjectID)
	if len(strings.TrimSpace(in.Title)) > 200 {
		errs["title"] = "must be at most 200 characters"
	}
	return errs.orNil()
}

// ValidateUpdate checks a partial ticket update: only the fields that are set.
func (in TicketInput) ValidateUpdate() error {
	errs := FieldErrors{}
	if in.Title != "" && len(strings.TrimSpace(in.Title)) > 200 {
		errs["title"] = "must be at most 200 characters"
	}
	if in.Title != "" && strings.TrimSpace(in.Title) == "" {
		errs["title"] = "required"
	}
	if in.Title == "" && in.Description == nil && in.ProjectID == "" && in.StreamID == nil &&
		in.StatusID == "" && in.PriorityID == "" && in.AssigneeID == nil && in.DueAt == nil {
		errs["ticket"] = "nothing to update"
	}
	return errs.orNil()
}

type ProjectInput struct {
	ClientID    string  `json:"clientId,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

func (in ProjectInput) Validate() error {
	errs := FieldErrors{}
	required(errs, "name", in.Name)
	required(errs, "clientId", in.ClientID)
	return errs.orNil()
}

type ClientInput struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

func (in ClientInput) Validate() error {
	errs := FieldErrors{}
	required(errs, "name", in.Name)
	validEmail(errs, "email", in.Email, false)
	return errs.orNil()
}

type StreamInput struct {
	ClientID    string  `json:"clientId,omitempty"`
	ProjectID   string  `json:"projectId,omitempty"`
	ParentID    string  `json:"parentId,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

func (in StreamInput) Validate() error {
	errs := FieldErrors{}
	required(errs, "name", in.Name)
	if strings.TrimSpace(in.ParentID) == "" && strings.TrimSpace(in.ProjectID) == "" {
		errs["projectId"] = "required for a parent stream"
	}
	return errs.orNil()
}

type UserInput struct {
	FullName string  `json:"fullName,omitempty"`
	Email    string  `json:"email,omitempty"`
	Password string  `json:"password,omitempty"`
	Role     Role    `json:"role,omitempty"`
	ClientID *string `json:"clientId,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

func (in UserInput) Validate() error {
	errs := FieldErrors{}
	required(errs, "fullName", in.FullName)
	validEmail(errs, "email", in.Email, true)
	switch in.Role {
	case RoleAdmin, RoleEmployee:
	case RoleClient:
		if in.ClientID == nil || strings.TrimSpace(*in.ClientID) == "" {
			errs["clientId"] = "required for client users"
		}
	case "":
		errs["role"] = "required"
	default:
		errs["role"] = "must be one of admin, employee, client"
	}
	if in.Password != "" && len(in.Password) < 8 {
		errs["password"] = "must be at least 8 characters"
	}
	return errs.orNil()
}

type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

func (in TagInput) Validate() error {
	errs := FieldErrors{}
	required(errs, "name", in.Name)
	if c := strings.TrimSpace(in.Color); c != "" && (!strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7)) {
		errs["color"] = "must be a hex color like #ff8800"
	}
	return errs.orNil()
}

type CommentInput struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal,omitempty"`
}

func (in CommentInput) Validate() error {
	errs := FieldErrors{}
	required(errs, "body", in.Body)
	return errs.orNil()
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	errs := FieldErrors{}
	validEmail(errs, "email", c.Email, true)
	required(errs, "password", c.Password)
	return errs.orNil()
}

package model

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
)

type User struct {
	ID       string  `json:"id" yaml:"id"`
	FullName string  `json:"fullName" yaml:"fullName"`
	Email    string  `json:"email" yaml:"email"`
	Role     Role    `json:"role" yaml:"role"`
	ClientID *string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	Active   bool    `json:"active" yaml:"active"`
}

type Client struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone  string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Active bool   `json:"active" yaml:"active"`
}

type Project struct {
	ID          string `json:"id" yaml:"id"`
	ClientID    string `json:"clientId" yaml:"clientId"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Active      bool   `json:"active" yaml:"active"`
}

// Stream is a ticket classification. Streams form a two-level hierarchy
// (parent categories and their child types) that is only observable through
// the parents/children list endpoints; there is no parent field.
type Stream struct {
	ID          string `json:"id" yaml:"id"`
	ClientID    string `json:"clientId" yaml:"clientId"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Active      bool   `json:"active" yaml:"active"`
}

type Status struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Order    int    `json:"order" yaml:"order"`
	IsClosed bool   `json:"isClosed" yaml:"isClosed"`
}

type Priority struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Level int    `json:"level" yaml:"level"`
}

type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

type Ticket struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	ProjectID  string  `json:"projectId" yaml:"projectId"`
	ClientID   *string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	StreamID   *string `json:"streamId,omitempty" yaml:"streamId,omitempty"`
	StatusID   string  `json:"statusId" yaml:"statusId"`
	PriorityID string  `json:"priorityId,omitempty" yaml:"priorityId,omitempty"`

	AssigneeID *string `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	ReporterID string  `json:"reporterId,omitempty" yaml:"reporterId,omitempty"`

	Tags  []Tag      `json:"tags,omitempty" yaml:"tags,omitempty"`
	DueAt *time.Time `json:"dueAt,omitempty" yaml:"dueAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

type Comment struct {
	ID        string    `json:"id" yaml:"id"`
	TicketID  string    `json:"ticketId" yaml:"ticketId"`
	AuthorID  string    `json:"authorId" yaml:"authorId"`
	Body      string    `json:"body" yaml:"body"`
	Internal  bool      `json:"internal" yaml:"internal"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type Attachment struct {
	ID          string    `json:"id" yaml:"id"`
	TicketID    string    `json:"ticketId" yaml:"ticketId"`
	FileName    string    `json:"fileName" yaml:"fileName"`
	ContentType string    `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Size        int64     `json:"size" yaml:"size"`
	UploadedBy  string    `json:"uploadedBy,omitempty" yaml:"uploadedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// AttachmentURL is a short-lived download link issued by the API.
type AttachmentURL struct {
	URL       string    `json:"url" yaml:"url"`
	ExpiresAt time.Time `json:"expiresAt" yaml:"expiresAt"`
}

type CountBy struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type DashboardMetrics struct {
	TotalTickets   int       `json:"totalTickets" yaml:"totalTickets"`
	OpenTickets    int       `json:"openTickets" yaml:"openTickets"`
	ClosedTickets  int       `json:"closedTickets" yaml:"closedTickets"`
	OverdueTickets int       `json:"overdueTickets" yaml:"overdueTickets"`
	ByStatus       []CountBy `json:"byStatus" yaml:"byStatus"`
	ByPriority     []CountBy `json:"byPriority" yaml:"byPriority"`
	ByProject      []CountBy `json:"byProject" yaml:"byProject"`
}

type SearchResultType string

const (
	SearchResultTicket  SearchResultType = "ticket"
	SearchResultProject SearchResultType = "project"
	SearchResultUser    SearchResultType = "user"
)

// SearchResult is built fresh on every search pass and never persisted.
type SearchResult struct {
	Type     SearchResultType `json:"type" yaml:"type"`
	ID       string           `json:"id" yaml:"id"`
	Title    string           `json:"title" yaml:"title"`
	Subtitle string           `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	URL      string           `json:"url" yaml:"url"`
}

// Page is the list envelope returned by every paginated endpoint.
type Page[T any] struct {
	Items []T `json:"items" yaml:"items"`
	Total int `json:"total" yaml:"total"`
}

// Session is the payload of a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

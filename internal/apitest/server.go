// Package apitest is an in-memory helpdesk API for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"helpdesk-cli/internal/model"

	"github.com/go-chi/chi/v5"
)

type account struct {
	user     model.User
	password string
}

// Server is a fake helpdesk API. Fields may be seeded before requests are made;
// use Lock/Unlock around access once the server is serving.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	accounts    map[string]account // by email
	tokens      map[string]string  // token -> user id
	Users       []model.User
	Clients     []model.Client
	Projects    []model.Project
	Tickets     []model.Ticket
	Statuses    []model.Status
	Priorities  []model.Priority
	Tags        []model.Tag
	Comments    []model.Comment
	Attachments []model.Attachment
	Metrics     model.DashboardMetrics

	// ParentStreams maps project id -> parent streams; ChildStreams maps parent id -> children.
	ParentStreams map[string][]model.Stream
	ChildStreams  map[string][]model.Stream

	// Fail makes requests to the given route pattern (e.g. "GET /users") answer with that status.
	Fail map[string]int

	hits   map[string]int
	bodies map[string]string
	nextID int
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts:      map[string]account{},
		tokens:        map[string]string{},
		ParentStreams: map[string][]model.Stream{},
		ChildStreams:  map[string][]model.Stream{},
		Fail:          map[string]int{},
		hits:          map[string]int{},
		bodies:        map[string]string{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Lock()   { s.mu.Lock() }
func (s *Server) Unlock() { s.mu.Unlock() }

// AddAccount registers a user that can log in, returning a valid token for it.
func (s *Server) AddAccount(u model.User, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(u.Email)] = account{user: u, password: password}
	s.Users = append(s.Users, u)
	tok := s.newIDLocked("tok")
	s.tokens[tok] = u.ID
	return tok
}

// Hits returns how many requests matched a route pattern such as "GET /statuses".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// LastBody returns the request body last sent to a route pattern such as "POST /tags".
func (s *Server) LastBody(route string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[route]
}

func (s *Server) newIDLocked(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.track)

	r.Post("/auth/login", s.login)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/auth/me", s.me)
		r.Post("/auth/logout", s.logout)

		r.Get("/tickets", s.listTickets)
		r.Post("/tickets", s.createTicket)
		r.Get("/tickets/{id}", s.getTicket)
		r.Post("/tickets/{id}", s.updateTicket)
		r.Delete("/tickets/{id}", s.deleteTicket)
		r.Get("/tickets/{id}/comments", s.listComments)
		r.Post("/tickets/{id}/comments", s.addComment)
		r.Get("/tickets/{id}/attachments", s.listAttachments)
		r.Post("/tickets/{id}/attachments", s.uploadAttachment)
		r.Post("/tickets/{id}/tags", s.addTicketTag)
		r.Delete("/tickets/{id}/tags/{tagId}", s.removeTicketTag)

		r.Get("/projects", s.listProjects)
		r.Post("/projects", s.createProject)
		r.Get("/projects/{id}", s.getProject)

		r.Get("/clients", s.listClients)
		r.Post("/clients", s.createClient)
		r.Get("/clients/{id}", s.getClient)
		r.Post("/clients/{id}", s.updateClient)
		r.Delete("/clients/{id}", s.deleteClient)

		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
		r.Get("/users/{id}", s.getUser)
		r.Post("/users/{id}", s.updateUser)
		r.Delete("/users/{id}", s.deleteUser)

		r.Get("/streams", s.listStreams)

		r.Get("/tags", func(w http.ResponseWriter, r *http.Request) { s.page(w, r, &s.Tags) })
		r.Post("/tags", s.createTag)
		r.Delete("/tags/{id}", s.deleteTag)
		r.Get("/statuses", func(w http.ResponseWriter, r *http.Request) { s.page(w, r, &s.Statuses) })
		r.Get("/priorities", func(w http.ResponseWriter, r *http.Request) { s.page(w, r, &s.Priorities) })
		r.Get("/dashboard/metrics", func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			defer s.mu.Unlock()
			writeJSON(w, http.StatusOK, s.Metrics)
		})
		r.Get("/attachments/{id}/url", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			writeJSON(w, http.StatusOK, model.AttachmentURL{
				URL:       s.URL + "/files/" + id + "?sig=test",
				ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			})
		})
		r.Delete("/comments/{id}", s.deleteComment)
	})
	return r
}

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		next.ServeHTTP(&routeRecorder{ResponseWriter: w, s: s, r: r, body: body}, r)
	})
}

// routeRecorder records the matched route pattern the first time the handler writes.
type routeRecorder struct {
	http.ResponseWriter
	s    *Server
	r    *http.Request
	body []byte
	done bool
}

func (rr *routeRecorder) record() {
	if rr.done {
		return
	}
	rr.done = true
	route := rr.r.Method + " " + rr.r.URL.Path
	if rctx := chi.RouteContext(rr.r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		route = rr.r.Method + " " + rctx.RoutePattern()
	}
	rr.s.mu.Lock()
	rr.s.hits[route]++
	if len(rr.body) > 0 {
		rr.s.bodies[route] = string(rr.body)
	}
	rr.s.mu.Unlock()
}

func (rr *routeRecorder) WriteHeader(code int) {
	rr.record()
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *routeRecorder) Write(b []byte) (int, error) {
	rr.record()
	return rr.ResponseWriter.Write(b)
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.tokens[tok]
		s.mu.Unlock()
		if tok == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "unauthorized", "message": "invalid or missing token"})
			return
		}
		if code, ok := s.failure(r); ok {
			writeJSON(w, code, map[string]string{"message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failure(r *http.Request) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for route, code := range s.Fail {
		method, path, _ := strings.Cut(route, " ")
		if method == r.Method && path == r.URL.Path {
			return code, true
		}
	}
	return 0, false
}

func (s *Server) currentUser(r *http.Request) (model.User, bool) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.tokens[tok]
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return false
	}
	return true
}

func notFound(w http.ResponseWriter, kind, id string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": kind + " " + id + " not found"})
}

func paginate[T any](r *http.Request, all []T) model.Page[T] {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	total := len(all)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	items := append([]T{}, all[offset:end]...)
	return model.Page[T]{Items: items, Total: total}
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, src any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := src.(type) {
	case *[]model.Tag:
		writeJSON(w, http.StatusOK, paginate(r, *v))
	case *[]model.Status:
		writeJSON(w, http.StatusOK, paginate(r, *v))
	case *[]model.Priority:
		writeJSON(w, http.StatusOK, paginate(r, *v))
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decode(w, r, &creds) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(creds.Email))]
	if !ok || acct.password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "invalid_credentials", "message": "invalid email or password"})
		return
	}
	tok := s.newIDLocked("tok")
	s.tokens[tok] = acct.user.ID
	writeJSON(w, http.StatusOK, model.Session{Token: tok, User: acct.user})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unknown user"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.tokens, tok)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Ticket, 0, len(s.Tickets))
	for _, t := range s.Tickets {
		if v := q.Get("projectId"); v != "" && t.ProjectID != v {
			continue
		}
		if v := q.Get("statusId"); v != "" && t.StatusID != v {
			continue
		}
		if v := q.Get("q"); v != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(v)) {
			continue
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, paginate(r, out))
}

func (s *Server) findTicketLocked(id string) int {
	for i := range s.Tickets {
		if s.Tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findTicketLocked(id)
	if i < 0 {
		notFound(w, "ticket", id)
		return
	}
	writeJSON(w, http.StatusOK, s.Tickets[i])
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var in model.TicketInput
	if !decode(w, r, &in) {
		return
	}
	u, _ := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	t := model.Ticket{
		ID:         s.newIDLocked("t"),
		Title:      in.Title,
		ProjectID:  in.ProjectID,
		StreamID:   in.StreamID,
		StatusID:   in.StatusID,
		PriorityID: in.PriorityID,
		AssigneeID: in.AssigneeID,
		ReporterID: u.ID,
		DueAt:      in.DueAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if t.StatusID == "" && len(s.Statuses) > 0 {
		t.StatusID = s.Statuses[0].ID
	}
	s.Tickets = append(s.Tickets, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in model.TicketInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findTicketLocked(id)
	if i < 0 {
		notFound(w, "ticket", id)
		return
	}
	t := &s.Tickets[i]
	if in.Title != "" {
		t.Title = in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.StatusID != "" {
		t.StatusID = in.StatusID
	}
	if in.PriorityID != "" {
		t.PriorityID = in.PriorityID
	}
	if in.StreamID != nil {
		t.StreamID = in.StreamID
	}
	if in.AssigneeID != nil {
		t.AssigneeID = in.AssigneeID
	}
	t.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, *t)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findTicketLocked(id)
	if i < 0 {
		notFound(w, "ticket", id)
		return
	}
	s.Tickets = append(s.Tickets[:i], s.Tickets[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Comment{}
	for _, c := range s.Comments {
		if c.TicketID == id {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, paginate(r, out))
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in model.CommentInput
	if !decode(w, r, &in) {
		return
	}
	u, _ := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Comment{ID: s.newIDLocked("c"), TicketID: id, AuthorID: u.ID, Body: in.Body, Internal: in.Internal, CreatedAt: time.Now().UTC()}
	s.Comments = append(s.Comments, c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Attachment{}
	for _, a := range s.Attachments {
		if a.TicketID == id {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, paginate(r, out))
}

func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	defer f.Close()
	n, _ := io.Copy(io.Discard, f)
	u, _ := s.currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	a := model.Attachment{
		ID:          s.newIDLocked("a"),
		TicketID:    id,
		FileName:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        n,
		UploadedBy:  u.ID,
		CreatedAt:   time.Now().UTC(),
	}
	s.Attachments = append(s.Attachments, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) addTicketTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in struct {
		TagID string `json:"tagId"`
	}
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findTicketLocked(id)
	if i < 0 {
		notFound(w, "ticket", id)
		return
	}
	for _, tg := range s.Tags {
		if tg.ID == in.TagID {
			s.Tickets[i].Tags = append(s.Tickets[i].Tags, tg)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	notFound(w, "tag", in.TagID)
}

func (s *Server) removeTicketTag(w http.ResponseWriter, r *http.Request) {
	id, tagID := chi.URLParam(r, "id"), chi.URLParam(r, "tagId")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findTicketLocked(id)
	if i < 0 {
		notFound(w, "ticket", id)
		return
	}
	kept := s.Tickets[i].Tags[:0]
	for _, tg := range s.Tickets[i].Tags {
		if tg.ID != tagID {
			kept = append(kept, tg)
		}
	}
	s.Tickets[i].Tags = kept
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Project{}
	for _, p := range s.Projects {
		if v := r.URL.Query().Get("clientId"); v != "" && p.ClientID != v {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, paginate(r, out))
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Project{ID: s.newIDLocked("p"), ClientID: in.ClientID, Name: in.Name, Active: true}
	if in.Description != nil {
		p.Description = *in.Description
	}
	s.Projects = append(s.Projects, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.Projects {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	notFound(w, "project", id)
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(r, s.Clients))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.User{}
	for _, u := range s.Users {
		if v := r.URL.Query().Get("role"); v != "" && string(u.Role) != v {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, paginate(r, out))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.ID == id {
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	notFound(w, "user", id)
}

func (s *Server) listStreams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []model.Stream
	switch {
	case q.Get("parentId") != "":
		items = s.ChildStreams[q.Get("parentId")]
	case q.Get("projectId") != "":
		items = s.ParentStreams[q.Get("projectId")]
	}
	if items == nil {
		items = []model.Stream{}
	}
	writeJSON(w, http.StatusOK, paginate(r, items))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.Comments {
		if c.ID == id {
			s.Comments = append(s.Comments[:i], s.Comments[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	notFound(w, "comment", id)
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var in model.ClientInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Client{ID: s.newIDLocked("cl"), Name: in.Name, Email: in.Email, Phone: in.Phone, Active: true}
	s.Clients = append(s.Clients, c)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) findClientLocked(id string) int {
	for i := range s.Clients {
		if s.Clients[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findClientLocked(id)
	if i < 0 {
		notFound(w, "client", id)
		return
	}
	writeJSON(w, http.StatusOK, s.Clients[i])
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in model.ClientInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findClientLocked(id)
	if i < 0 {
		notFound(w, "client", id)
		return
	}
	c := &s.Clients[i]
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	writeJSON(w, http.StatusOK, *c)
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findClientLocked(id)
	if i < 0 {
		notFound(w, "client", id)
		return
	}
	s.Clients = append(s.Clients[:i], s.Clients[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: s.newIDLocked("u"), FullName: in.FullName, Email: in.Email, Role: in.Role, ClientID: in.ClientID, Active: true}
	if in.Password != "" {
		s.accounts[strings.ToLower(u.Email)] = account{user: u, password: in.Password}
	}
	s.Users = append(s.Users, u)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) findUserLocked(id string) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in model.UserInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findUserLocked(id)
	if i < 0 {
		notFound(w, "user", id)
		return
	}
	u := &s.Users[i]
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.ClientID != nil {
		u.ClientID = in.ClientID
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	writeJSON(w, http.StatusOK, *u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findUserLocked(id)
	if i < 0 {
		notFound(w, "user", id)
		return
	}
	s.Users = append(s.Users[:i], s.Users[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var in model.TagInput
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tg := model.Tag{ID: s.newIDLocked("tag"), Name: in.Name, Color: in.Color}
	s.Tags = append(s.Tags, tg)
	writeJSON(w, http.StatusCreated, tg)
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tg := range s.Tags {
		if tg.ID == id {
			s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	notFound(w, "tag", id)
}

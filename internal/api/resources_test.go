package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"helpdesk-cli/internal/apitest"
	"helpdesk-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func seedResources(srv *apitest.Server) {
	srv.Lock()
	defer srv.Unlock()
	srv.Tickets = append(srv.Tickets, model.Ticket{ID: "t1", Title: "Printer jam", ProjectID: "p1", StatusID: "open", ReporterID: "u1"})
	srv.Tags = append(srv.Tags, model.Tag{ID: "tg1", Name: "hardware", Color: "#888"})
	srv.Clients = append(srv.Clients, model.Client{ID: "acme", Name: "Acme", Active: true})
	srv.Users = append(srv.Users, model.User{ID: "u2", FullName: "Eve Employee", Email: "eve@example.com", Role: model.RoleEmployee, Active: true})
	srv.Comments = append(srv.Comments, model.Comment{ID: "cm1", TicketID: "t1", AuthorID: "u1", Body: "looking", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
}

func TestResourceWrappersSendMethodPathAndBody(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, srv := newTestClient(t)
	seedResources(srv)
	inactive := false

	// Cases run in order against one server; later cases rely on earlier ones.
	tests := []struct {
		name  string
		call  func() error
		route string
		body  string
	}{
		{"list comments", func() error { _, err := c.ListComments(ctx, "t1"); return err }, "GET /tickets/{id}/comments", ""},
		{"add comment", func() error {
			_, err := c.AddComment(ctx, "t1", model.CommentInput{Body: "fixed it", Internal: true})
			return err
		}, "POST /tickets/{id}/comments", `{"body":"fixed it","internal":true}`},
		{"delete comment", func() error { return c.DeleteComment(ctx, "cm1") }, "DELETE /comments/{id}", ""},

		{"list tags", func() error { _, err := c.ListTags(ctx); return err }, "GET /tags", ""},
		{"create tag", func() error {
			_, err := c.CreateTag(ctx, model.TagInput{Name: "urgent", Color: "#f00"})
			return err
		}, "POST /tags", `{"name":"urgent","color":"#f00"}`},
		{"tag ticket", func() error { return c.AddTicketTag(ctx, "t1", "tg1") }, "POST /tickets/{id}/tags", `{"tagId":"tg1"}`},
		{"untag ticket", func() error { return c.RemoveTicketTag(ctx, "t1", "tg1") }, "DELETE /tickets/{id}/tags/{tagId}", ""},
		{"delete tag", func() error { return c.DeleteTag(ctx, "tg1") }, "DELETE /tags/{id}", ""},

		{"list clients", func() error { _, err := c.ListClients(ctx, ListOptions{Limit: 5}); return err }, "GET /clients", ""},
		{"get client", func() error { _, err := c.GetClient(ctx, "acme"); return err }, "GET /clients/{id}", ""},
		{"create client", func() error {
			_, err := c.CreateClient(ctx, model.ClientInput{Name: "Globex", Email: "ops@globex.test"})
			return err
		}, "POST /clients", `{"name":"Globex","email":"ops@globex.test"}`},
		{"update client", func() error {
			_, err := c.UpdateClient(ctx, "acme", model.ClientInput{Active: &inactive})
			return err
		}, "POST /clients/{id}", `{"active":false}`},
		{"delete client", func() error { return c.DeleteClient(ctx, "acme") }, "DELETE /clients/{id}", ""},

		{"list users", func() error {
			_, err := c.ListUsers(ctx, UserFilter{Role: model.RoleEmployee})
			return err
		}, "GET /users", ""},
		{"get user", func() error { _, err := c.GetUser(ctx, "u2"); return err }, "GET /users/{id}", ""},
		{"create user", func() error {
			_, err := c.CreateUser(ctx, model.UserInput{FullName: "Bo Admin", Email: "bo@example.com", Password: "longenough", Role: model.RoleAdmin})
			return err
		}, "POST /users", `{"fullName":"Bo Admin","email":"bo@example.com","password":"longenough","role":"admin"}`},
		{"update user", func() error {
			_, err := c.UpdateUser(ctx, "u2", model.UserInput{FullName: "Eve E."})
			return err
		}, "POST /users/{id}", `{"fullName":"Eve E."}`},
		{"delete user", func() error { return c.DeleteUser(ctx, "u2") }, "DELETE /users/{id}", ""},
	}
	for _, tt := range tests {
		if err := tt.call(); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if n := srv.Hits(tt.route); n != 1 {
			t.Fatalf("%s: expected one %s request, got %d", tt.name, tt.route, n)
		}
		if got := srv.LastBody(tt.route); got != tt.body {
			t.Fatalf("%s: body %q, want %q", tt.name, got, tt.body)
		}
	}
}

func TestResourceInputsValidateBeforeNetwork(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, srv := newTestClient(t)

	tests := []struct {
		name  string
		call  func() error
		route string
		field string
	}{
		{"empty comment", func() error { _, err := c.AddComment(ctx, "t1", model.CommentInput{Body: "  "}); return err }, "POST /tickets/{id}/comments", "body"},
		{"bad tag color", func() error { _, err := c.CreateTag(ctx, model.TagInput{Name: "x", Color: "red"}); return err }, "POST /tags", "color"},
		{"nameless client", func() error { _, err := c.CreateClient(ctx, model.ClientInput{Email: "a@b.test"}); return err }, "POST /clients", "name"},
		{"client user without client", func() error {
			_, err := c.CreateUser(ctx, model.UserInput{FullName: "Cy", Email: "cy@example.com", Role: model.RoleClient})
			return err
		}, "POST /users", "clientId"},
		{"short password", func() error {
			_, err := c.CreateUser(ctx, model.UserInput{FullName: "Cy", Email: "cy@example.com", Role: model.RoleAdmin, Password: "short"})
			return err
		}, "POST /users", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var fe model.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected field errors, got %v", err)
			}
			if _, ok := fe[tt.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.field, fe)
			}
			if n := srv.Hits(tt.route); n != 0 {
				t.Fatalf("expected no request for invalid input, got %d", n)
			}
		})
	}
}

func TestCommentsAddListDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, srv := newTestClient(t)
	seedResources(srv)

	added, err := c.AddComment(ctx, "t1", model.CommentInput{Body: "replaced the drum"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if added.TicketID != "t1" || added.AuthorID != "u1" {
		t.Fatalf("unexpected comment %+v", added)
	}

	if err := c.DeleteComment(ctx, "cm1"); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	got, err := c.ListComments(ctx, "t1")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(got) != 1 || got[0].ID != added.ID {
		t.Fatalf("expected only the new comment, got %+v", got)
	}
	if err := c.DeleteComment(ctx, "cm1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a deleted comment, got %v", err)
	}
}

func TestTagLifecycleOnTicket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, srv := newTestClient(t)
	seedResources(srv)

	tag, err := c.CreateTag(ctx, model.TagInput{Name: "urgent", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := c.AddTicketTag(ctx, "t1", tag.ID); err != nil {
		t.Fatalf("AddTicketTag: %v", err)
	}
	ticket, err := c.GetTicket(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if diff := cmp.Diff([]model.Tag{tag}, ticket.Tags); diff != "" {
		t.Fatalf("ticket tags (-want +got):\n%s", diff)
	}

	if err := c.RemoveTicketTag(ctx, "t1", tag.ID); err != nil {
		t.Fatalf("RemoveTicketTag: %v", err)
	}
	if err := c.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	tags, err := c.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != "tg1" {
		t.Fatalf("expected only the seeded tag, got %+v", tags)
	}
	if err := c.AddTicketTag(ctx, "t1", tag.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound tagging with a deleted tag, got %v", err)
	}
}

func TestClientAndUserLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, srv := newTestClient(t)
	seedResources(srv)

	client, err := c.CreateClient(ctx, model.ClientInput{Name: "Globex"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	inactive := false
	updated, err := c.UpdateClient(ctx, client.ID, model.ClientInput{Phone: "555-0100", Active: &inactive})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if diff := cmp.Diff(model.Client{ID: client.ID, Name: "Globex", Phone: "555-0100"}, updated); diff != "" {
		t.Fatalf("updated client (-want +got):\n%s", diff)
	}

	user, err := c.CreateUser(ctx, model.UserInput{FullName: "Gil Client", Email: "gil@globex.test", Role: model.RoleClient, ClientID: &client.ID})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ClientID == nil || *user.ClientID != client.ID {
		t.Fatalf("expected user bound to %s, got %+v", client.ID, user)
	}
	clients, err := c.ListUsers(ctx, UserFilter{Role: model.RoleClient})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if clients.Total != 1 || clients.Items[0].ID != user.ID {
		t.Fatalf("expected the new client user only, got %+v", clients)
	}

	if err := c.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := c.GetUser(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after user delete, got %v", err)
	}
	if err := c.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := c.GetClient(ctx, client.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after client delete, got %v", err)
	}
}

package perm

import (
	"errors"
	"reflect"
	"testing"

	"helpdesk-cli/internal/model"
)

func TestSectionsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role model.Role
		want []Section
	}{
		{role: model.RoleAdmin, want: allSections},
		{role: model.RoleEmployee, want: []Section{SectionDashboard, SectionTickets, SectionBoard, SectionProjects, SectionStreams, SectionTags, SectionSearch}},
		{role: model.RoleClient, want: []Section{SectionDashboard, SectionTickets, SectionBoard, SectionSearch}},
		{role: "", want: nil},
	}
	for _, tt := range tests {
		if got := SectionsFor(tt.role); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("SectionsFor(%q):\n got: %v\nwant: %v", tt.role, got, tt.want)
		}
	}
}

func TestCanEditTicket_ClientOnlyOwnTickets(t *testing.T) {
	t.Parallel()

	client := model.User{ID: "u-client", Role: model.RoleClient}
	own := model.Ticket{ID: "t1", ReporterID: "u-client"}
	other := model.Ticket{ID: "t2", ReporterID: "u-someone"}

	if !CanEditTicket(client, own) {
		t.Fatalf("expected client to edit own ticket")
	}
	if CanEditTicket(client, other) {
		t.Fatalf("expected client to be denied on another reporter's ticket")
	}
	if !CanEditTicket(model.User{ID: "e", Role: model.RoleEmployee}, other) {
		t.Fatalf("expected employee to edit any ticket")
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	if err := Check(model.RoleAdmin, SectionUsers, "manage"); err != nil {
		t.Fatalf("admin manage users: %v", err)
	}
	err := Check(model.RoleClient, SectionUsers, "view")
	var denied DeniedError
	if !errors.As(err, &denied) || denied.Section != SectionUsers {
		t.Fatalf("expected DeniedError for client viewing users, got %v", err)
	}
	if err := Check(model.RoleEmployee, SectionProjects, "manage"); err != nil {
		t.Fatalf("employee manage projects: %v", err)
	}
	if err := Check("", SectionTickets, "view"); err == nil {
		t.Fatalf("expected anonymous to be denied")
	}
}

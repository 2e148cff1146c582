package model

import (
	"errors"
	"testing"
)

func TestTicketInputValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     TicketInput
		fields []string
	}{
		{name: "ok", in: TicketInput{Title: "Printer on fire", ProjectID: "p1"}},
		{name: "missing title", in: TicketInput{ProjectID: "p1"}, fields: []string{"title"}},
		{name: "blank title and project", in: TicketInput{Title: "   "}, fields: []string{"title", "projectId"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.in.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var fe FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldErrors, got %T (%v)", err, err)
			}
			if len(fe) != len(tt.fields) {
				t.Fatalf("expected %d field errors, got %v", len(tt.fields), fe)
			}
			for _, f := range tt.fields {
				if _, ok := fe[f]; !ok {
					t.Fatalf("expected error for %q, got %v", f, fe)
				}
			}
		})
	}
}

func TestTicketInputValidateUpdate_Empty(t *testing.T) {
	t.Parallel()
	if err := (TicketInput{}).ValidateUpdate(); err == nil {
		t.Fatalf("expected empty update to be rejected")
	}
	if err := (TicketInput{StatusID: "s2"}).ValidateUpdate(); err != nil {
		t.Fatalf("expected status-only update to pass, got %v", err)
	}
}

func TestUserInputValidate_ClientRoleNeedsClient(t *testing.T) {
	t.Parallel()
	in := UserInput{FullName: "Ada", Email: "ada@example.com", Role: RoleClient}
	err := in.Validate()
	var fe FieldErrors
	if !errors.As(err, &fe) || fe["clientId"] == "" {
		t.Fatalf("expected clientId error, got %v", err)
	}

	cid := "c1"
	in.ClientID = &cid
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestFieldErrorsMessageIsStable(t *testing.T) {
	t.Parallel()
	got := FieldErrors{"title": "required", "projectId": "required"}.Error()
	want := "invalid input: projectId: required; title: required"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCredentialsValidate(t *testing.T) {
	t.Parallel()
	if err := (Credentials{Email: "not-an-email", Password: "x"}).Validate(); err == nil {
		t.Fatalf("expected invalid email to fail")
	}
	if err := (Credentials{Email: "a@b.co", Password: "secret"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

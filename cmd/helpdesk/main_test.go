package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewriteTicketLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"helpdesk"},
			want: []string{"helpdesk"},
		},
		{
			name: "ticket ref first token",
			in:   []string{"helpdesk", "#t42"},
			want: []string{"helpdesk", "tickets", "show", "t42"},
		},
		{
			name: "ticket ref after value flag",
			in:   []string{"helpdesk", "--api-url", "http://localhost:8080", "#t42"},
			want: []string{"helpdesk", "--api-url", "http://localhost:8080", "tickets", "show", "t42"},
		},
		{
			name: "ticket ref after equals flag",
			in:   []string{"helpdesk", "--config-dir=./tmp-cfg", "#t42", "--pretty"},
			want: []string{"helpdesk", "--config-dir=./tmp-cfg", "tickets", "show", "t42", "--pretty"},
		},
		{
			name: "ticket ref after bool flag",
			in:   []string{"helpdesk", "--pretty", "#t42"},
			want: []string{"helpdesk", "--pretty", "tickets", "show", "t42"},
		},
		{
			name: "ticket ref after double dash",
			in:   []string{"helpdesk", "--format", "yaml", "--", "#t42"},
			want: []string{"helpdesk", "--format", "yaml", "--", "tickets", "show", "t42"},
		},
		{
			name: "bare hash not rewritten",
			in:   []string{"helpdesk", "#"},
			want: []string{"helpdesk", "#"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"helpdesk", "tickets", "show", "#t42"},
			want: []string{"helpdesk", "tickets", "show", "#t42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteTicketLookupArgs(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("rewriteTicketLookupArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

package cli

import (
	"strings"

	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"

	"github.com/spf13/cobra"
)

func newCommentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Comment commands",
	}
	cmd.AddCommand(newCommentsListCmd(app))
	cmd.AddCommand(newCommentsAddCmd(app))
	cmd.AddCommand(newCommentsDeleteCmd(app))
	return cmd
}

func newCommentsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <ticket-id>",
		Short: "List comments on a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser(cmd, app, perm.SectionTickets, "view")
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimPrefix(args[0], "#")
			all, err := app.client.ListComments(commandContext(cmd), id)
			if err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			// Internal notes are staff-only.
			out := make([]model.Comment, 0, len(all))
			for _, c := range all {
				if c.Internal && u.Role == model.RoleClient {
					continue
				}
				out = append(out, c)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   commentList(out),
				"meta":   map[string]any{"ticketId": id, "total": len(out)},
				"_hints": []string{"helpdesk comments add " + id + " --body ..."},
			})
		},
	}
}

func newCommentsAddCmd(app *App) *cobra.Command {
	var in model.CommentInput
	cmd := &cobra.Command{
		Use:   "add <ticket-id>",
		Short: "Add a comment to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser(cmd, app, perm.SectionTickets, "view")
			if err != nil {
				return writeErr(cmd, err)
			}
			if in.Internal && u.Role == model.RoleClient {
				return writeErr(cmd, perm.DeniedError{Role: u.Role, Section: perm.SectionTickets, Action: "add internal notes to"})
			}
			id := strings.TrimPrefix(args[0], "#")
			in.Body = strings.TrimSpace(in.Body)
			c, err := app.client.AddComment(commandContext(cmd), id, in)
			if err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cmd.Flags().StringVar(&in.Body, "body", "", "Comment body (markdown)")
	cmd.Flags().BoolVar(&in.Internal, "internal", false, "Staff-only note")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newCommentsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteComment(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, apiErr(err, "comment", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

package cli

import (
	"strings"

	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag commands",
	}
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsCreateCmd(app))
	cmd.AddCommand(newTagsDeleteCmd(app))
	cmd.AddCommand(newTagsAddCmd(app))
	cmd.AddCommand(newTagsRemoveCmd(app))
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			tags, err := app.client.ListTags(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tags})
		},
	}
}

func newTagsCreateCmd(app *App) *cobra.Command {
	var in model.TagInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTags, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			in.Name = strings.TrimSpace(in.Name)
			in.Color = strings.TrimSpace(in.Color)
			tag, err := app.client.CreateTag(commandContext(cmd), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": tag})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Tag name")
	cmd.Flags().StringVar(&in.Color, "color", "", "Hex color, e.g. #ff8800")
	return cmd
}

func newTagsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag-id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTags, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteTag(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, apiErr(err, "tag", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

func newTagsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <ticket-id> <tag-id>",
		Short: "Tag a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTags, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimPrefix(args[0], "#")
			if err := app.client.AddTicketTag(commandContext(cmd), id, args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"ticketId": id, "tagId": args[1], "tagged": true}})
		},
	}
}

func newTagsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ticket-id> <tag-id>",
		Short: "Remove a tag from a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTags, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimPrefix(args[0], "#")
			if err := app.client.RemoveTicketTag(commandContext(cmd), id, args[1]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"ticketId": id, "tagId": args[1], "tagged": false}})
		},
	}
}

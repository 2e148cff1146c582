package cli

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"helpdesk-cli/internal/perm"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newAttachmentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachments",
		Short: "Ticket attachment commands",
	}
	cmd.AddCommand(newAttachmentsListCmd(app))
	cmd.AddCommand(newAttachmentsUploadCmd(app))
	cmd.AddCommand(newAttachmentsURLCmd(app))
	cmd.AddCommand(newAttachmentsDeleteCmd(app))
	return cmd
}

func newAttachmentsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <ticket-id>",
		Short: "List attachments of a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimPrefix(args[0], "#")
			items, err := app.client.ListAttachments(commandContext(cmd), id)
			if err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			return writeOut(cmd, app, map[string]any{
				"data":   attachmentList(items),
				"meta":   map[string]any{"ticketId": id, "total": len(items)},
				"_hints": []string{"helpdesk attachments url <attachment-id>"},
			})
		},
	}
}

func newAttachmentsUploadCmd(app *App) *cobra.Command {
	var name, contentType string
	cmd := &cobra.Command{
		Use:   "upload <ticket-id> <path>",
		Short: "Upload a file to a ticket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimPrefix(args[0], "#")
			path := args[1]
			f, err := os.Open(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer f.Close()

			if strings.TrimSpace(name) == "" {
				name = filepath.Base(path)
			}
			if strings.TrimSpace(contentType) == "" {
				contentType = detectContentType(f, name)
			}
			a, err := app.client.UploadAttachment(commandContext(cmd), id, name, contentType, f)
			if err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			return writeOut(cmd, app, map[string]any{
				"data": a,
				"meta": map[string]any{"size": humanize.Bytes(uint64(max(a.Size, 0)))},
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "File name to store (default: base name of path)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type (default: detected)")
	return cmd
}

// detectContentType prefers the extension and falls back to sniffing the
// first 512 bytes. f is rewound afterwards.
func detectContentType(f *os.File, name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	_, _ = f.Seek(0, 0)
	return http.DetectContentType(buf[:n])
}

func newAttachmentsURLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "url <attachment-id>",
		Short: "Get a short-lived download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.client.AttachmentURL(commandContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, apiErr(err, "attachment", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data": u,
				"meta": map[string]any{"expires": humanize.Time(u.ExpiresAt)},
			})
		},
	}
}

func newAttachmentsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <attachment-id>",
		Short: "Delete an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteAttachment(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, apiErr(err, "attachment", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/board"
	"helpdesk-cli/internal/markdown"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/statusutil"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newTicketsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket"},
		Short:   "Ticket commands",
	}
	cmd.AddCommand(newTicketsListCmd(app))
	cmd.AddCommand(newTicketsShowCmd(app))
	cmd.AddCommand(newTicketsCreateCmd(app))
	cmd.AddCommand(newTicketsUpdateCmd(app))
	cmd.AddCommand(newTicketsDeleteCmd(app))
	cmd.AddCommand(newTicketsMoveCmd(app))
	cmd.AddCommand(newTicketsBoardCmd(app))
	return cmd
}

func newTicketsListCmd(app *App) *cobra.Command {
	var f api.TicketFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets (paginated)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			ctx := commandContext(cmd)
			if strings.TrimSpace(f.StatusID) != "" {
				statuses, err := app.client.Statuses(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				st, err := statusutil.Resolve(statuses, f.StatusID)
				if err != nil {
					return writeErr(cmd, err)
				}
				f.StatusID = st.ID
			}
			page, err := app.client.ListTickets(ctx, f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   ticketList(page.Items),
				"meta":   pageMeta(page.Total, f.ListOptions, len(page.Items)),
				"_hints": pageHints("helpdesk tickets list", page.Total, f.ListOptions, len(page.Items)),
			})
		},
	}

	cmd.Flags().StringVar(&f.ProjectID, "project", "", "Filter by project id")
	cmd.Flags().StringVar(&f.StatusID, "status", "", "Filter by status (id or name)")
	cmd.Flags().StringVar(&f.PriorityID, "priority", "", "Filter by priority id")
	cmd.Flags().StringVar(&f.AssigneeID, "assignee", "", "Filter by assignee user id")
	cmd.Flags().StringVar(&f.StreamID, "stream", "", "Filter by stream id")
	cmd.Flags().StringVar(&f.ClientID, "client", "", "Filter by client id")
	cmd.Flags().StringVar(&f.Query, "query", "", "Free-text filter")
	cmd.Flags().IntVar(&f.Limit, "limit", 20, "Max tickets to return")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Offset into the ticket list (for pagination)")
	return cmd
}

func newTicketsShowCmd(app *App) *cobra.Command {
	var withComments bool
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Show a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			ctx := commandContext(cmd)
			id := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
			t, err := app.client.GetTicket(ctx, id)
			if err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			var comments []model.Comment
			if withComments || render {
				comments, err = app.client.ListComments(ctx, id)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			statuses, err := app.client.Statuses(ctx)
			if err != nil {
				app.log.WarnContext(ctx, "load statuses", "err", err)
			}

			if render {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTicket(t, statuses, comments, width))
				return err
			}
			out := map[string]any{
				"data": t,
				"meta": map[string]any{
					"status": statusutil.Label(statuses, t.StatusID),
					"closed": statusutil.IsClosed(statuses, t.StatusID),
				},
				"_hints": []string{
					"helpdesk tickets update " + t.ID + " --title ...",
					"helpdesk tickets move " + t.ID + " --status <status>",
					"helpdesk comments add " + t.ID + " --body ...",
				},
			}
			if withComments {
				out["comments"] = comments
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().BoolVar(&withComments, "comments", false, "Include comments")
	cmd.Flags().BoolVar(&render, "render", false, "Render as formatted text instead of structured output")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	return cmd
}

func renderTicket(t model.Ticket, statuses []model.Status, comments []model.Comment, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	fmt.Fprintf(&b, "`%s` · **%s**", t.ID, statusutil.Label(statuses, t.StatusID))
	if t.DueAt != nil {
		fmt.Fprintf(&b, " · due %s", humanize.Time(*t.DueAt))
	}
	fmt.Fprintf(&b, " · updated %s\n\n", humanize.Time(t.UpdatedAt))
	if d := strings.TrimSpace(t.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}
	if len(comments) > 0 {
		b.WriteString("## Comments\n\n")
		for _, c := range comments {
			fmt.Fprintf(&b, "**%s** · %s\n\n%s\n\n", c.AuthorID, humanize.Time(c.CreatedAt), strings.TrimSpace(c.Body))
		}
	}
	return markdown.Render(b.String(), width)
}

type ticketFlags struct {
	title       string
	description string
	projectID   string
	streamID    string
	statusID    string
	priorityID  string
	assigneeID  string
	due         string
}

func (tf *ticketFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tf.title, "title", "", "Ticket title")
	cmd.Flags().StringVar(&tf.description, "description", "", "Ticket description (markdown)")
	cmd.Flags().StringVar(&tf.projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&tf.streamID, "stream", "", "Stream id (see: helpdesk streams pick)")
	cmd.Flags().StringVar(&tf.statusID, "status", "", "Status (id or name)")
	cmd.Flags().StringVar(&tf.priorityID, "priority", "", "Priority id")
	cmd.Flags().StringVar(&tf.assigneeID, "assignee", "", "Assignee user id (empty to unassign)")
	cmd.Flags().StringVar(&tf.due, "due", "", "Due date (YYYY-MM-DD or RFC3339)")
}

func (tf *ticketFlags) anyChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"title", "description", "project", "stream", "status", "priority", "assignee", "due"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// input builds a TicketInput from the flags that were set.
func (tf *ticketFlags) input(cmd *cobra.Command, app *App) (model.TicketInput, error) {
	changed := cmd.Flags().Changed
	in := model.TicketInput{
		Title:      strings.TrimSpace(tf.title),
		ProjectID:  strings.TrimSpace(tf.projectID),
		PriorityID: strings.TrimSpace(tf.priorityID),
	}
	if changed("description") {
		d := tf.description
		in.Description = &d
	}
	if changed("stream") {
		s := strings.TrimSpace(tf.streamID)
		in.StreamID = &s
	}
	if changed("assignee") {
		a := strings.TrimSpace(tf.assigneeID)
		in.AssigneeID = &a
	}
	if changed("status") {
		statuses, err := app.client.Statuses(commandContext(cmd))
		if err != nil {
			return in, err
		}
		st, err := statusutil.Resolve(statuses, tf.statusID)
		if err != nil {
			return in, err
		}
		in.StatusID = st.ID
	}
	if changed("due") {
		due, err := parseDue(tf.due)
		if err != nil {
			return in, err
		}
		in.DueAt = &due
	}
	return in, nil
}

func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid --due %q (want YYYY-MM-DD or RFC3339)", s)
}

func newTicketsCreateCmd(app *App) *cobra.Command {
	var tf ticketFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(tf.projectID) == "" && app.cfg.DefaultProjectID != "" {
				tf.projectID = app.cfg.DefaultProjectID
			}
			in, err := tf.input(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := app.client.CreateTicket(commandContext(cmd), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   t,
				"_hints": []string{"helpdesk tickets show " + t.ID},
			})
		},
	}
	tf.register(cmd)
	return cmd
}

func newTicketsUpdateCmd(app *App) *cobra.Command {
	var tf ticketFlags

	cmd := &cobra.Command{
		Use:   "update <ticket-id>",
		Short: "Update a ticket (only the flags given are changed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser(cmd, app, perm.SectionTickets, "manage")
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := commandContext(cmd)
			id := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
			if u.Role == model.RoleClient {
				t, err := app.client.GetTicket(ctx, id)
				if err != nil {
					return writeErr(cmd, apiErr(err, "ticket", id))
				}
				if !perm.CanEditTicket(u, t) {
					return writeErr(cmd, perm.DeniedError{Role: u.Role, Section: perm.SectionTickets, Action: "edit ticket " + id + " in"})
				}
			}
			if !tf.anyChanged(cmd) {
				return writeErr(cmd, errors.New("nothing to update (pass at least one of --title, --description, --status, ...)"))
			}
			in, err := tf.input(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := app.client.UpdateTicket(ctx, id, in)
			if err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	tf.register(cmd)
	return cmd
}

func newTicketsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <ticket-id>",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser(cmd, app, perm.SectionTickets, "manage")
			if err != nil {
				return writeErr(cmd, err)
			}
			if u.Role == model.RoleClient {
				return writeErr(cmd, perm.DeniedError{Role: u.Role, Section: perm.SectionTickets, Action: "delete"})
			}
			id := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
			if err := app.client.DeleteTicket(commandContext(cmd), id); err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
}

func newTicketsMoveCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "move <ticket-id>",
		Short: "Move a ticket to another status column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionBoard, "view"); err != nil {
				return writeErr(cmd, err)
			}
			ctx := commandContext(cmd)
			id := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
			t, err := app.client.GetTicket(ctx, id)
			if err != nil {
				return writeErr(cmd, apiErr(err, "ticket", id))
			}
			statuses, err := app.client.Statuses(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := statusutil.Resolve(statuses, status)
			if err != nil {
				return writeErr(cmd, err)
			}

			// Same contract as dragging a card on the board.
			var moveErr error
			moved := t
			b := board.New(statuses, []model.Ticket{t}, func(ticketID, toStatusID string) {
				moved, moveErr = app.client.MoveTicket(ctx, ticketID, toStatusID)
			})
			b.Begin(t.ID)
			requested := b.Drop(board.ColumnTarget(to.ID))
			if moveErr != nil {
				return writeErr(cmd, moveErr)
			}
			return writeOut(cmd, app, map[string]any{
				"data": moved,
				"meta": map[string]any{"moved": requested, "from": t.StatusID, "to": to.ID},
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Target status (id or name)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

type boardColumn struct {
	StatusID string       `json:"statusId" yaml:"statusId"`
	Label    string       `json:"label" yaml:"label"`
	Closed   bool         `json:"closed" yaml:"closed"`
	Tickets  []boardEntry `json:"tickets" yaml:"tickets"`
}

type boardEntry struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

type boardView []boardColumn

// Table lays the columns out side by side.
func (v boardView) Table() ([]string, [][]string) {
	headers := make([]string, 0, len(v))
	depth := 0
	for _, c := range v {
		headers = append(headers, c.Label+" ("+strconv.Itoa(len(c.Tickets))+")")
		depth = max(depth, len(c.Tickets))
	}
	rows := make([][]string, 0, depth)
	for i := 0; i < depth; i++ {
		row := make([]string, len(v))
		for ci, c := range v {
			if i < len(c.Tickets) {
				row[ci] = c.Tickets[i].ID + " " + c.Tickets[i].Title
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func newTicketsBoardCmd(app *App) *cobra.Command {
	var projectID string
	var limit int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tickets grouped by status column",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionBoard, "view"); err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(projectID) == "" {
				projectID = app.cfg.DefaultProjectID
			}
			if strings.TrimSpace(projectID) == "" {
				return writeErr(cmd, errors.New("missing --project (or set defaultProjectId: helpdesk config set defaultProjectId <id>)"))
			}
			ctx := commandContext(cmd)
			statuses, err := app.client.Statuses(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			page, err := app.client.ListTickets(ctx, api.TicketFilter{ProjectID: projectID, ListOptions: api.ListOptions{Limit: limit}})
			if err != nil {
				return writeErr(cmd, err)
			}
			b := board.New(statuses, page.Items, nil)
			view := make(boardView, 0, len(b.Columns()))
			for _, c := range b.Columns() {
				col := boardColumn{StatusID: c.StatusID, Label: c.Label, Closed: c.Closed, Tickets: []boardEntry{}}
				for _, t := range c.Tickets {
					col.Tickets = append(col.Tickets, boardEntry{ID: t.ID, Title: t.Title})
				}
				view = append(view, col)
			}
			return writeOut(cmd, app, map[string]any{
				"data": view,
				"meta": map[string]any{"projectId": projectID, "total": page.Total, "returned": len(page.Items)},
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId from config)")
	cmd.Flags().IntVar(&limit, "limit", 200, "Max tickets to load")
	return cmd
}

func pageMeta(total int, o api.ListOptions, returned int) map[string]any {
	return map[string]any{
		"total":    total,
		"limit":    o.Limit,
		"offset":   o.Offset,
		"returned": returned,
	}
}

func pageHints(base string, total int, o api.ListOptions, returned int) []string {
	end := o.Offset + returned
	if end >= total || o.Limit <= 0 {
		return nil
	}
	return []string{base + " --limit " + strconv.Itoa(o.Limit) + " --offset " + strconv.Itoa(end)}
}

package cli

import (
	"errors"
	"strings"

	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/streamselect"

	"github.com/spf13/cobra"
)

func newStreamsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streams",
		Short: "Stream (ticket category/type) commands",
	}
	cmd.AddCommand(newStreamsParentsCmd(app))
	cmd.AddCommand(newStreamsChildrenCmd(app))
	cmd.AddCommand(newStreamsShowCmd(app))
	cmd.AddCommand(newStreamsCreateCmd(app))
	cmd.AddCommand(newStreamsUpdateCmd(app))
	cmd.AddCommand(newStreamsDeleteCmd(app))
	cmd.AddCommand(newStreamsPickCmd(app))
	return cmd
}

func projectOrDefault(app *App, projectID string) (string, error) {
	if p := strings.TrimSpace(projectID); p != "" {
		return p, nil
	}
	if app.cfg != nil && app.cfg.DefaultProjectID != "" {
		return app.cfg.DefaultProjectID, nil
	}
	return "", errors.New("missing --project (or set defaultProjectId: helpdesk config set defaultProjectId <id>)")
}

func newStreamsParentsCmd(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "parents",
		Short: "List the stream categories of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionStreams, "view"); err != nil {
				return writeErr(cmd, err)
			}
			pid, err := projectOrDefault(app, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := app.client.ListParentStreams(commandContext(cmd), pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   streamList(items),
				"meta":   map[string]any{"projectId": pid, "returned": len(items)},
				"_hints": []string{"helpdesk streams children --parent <stream-id>"},
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId from config)")
	return cmd
}

func newStreamsChildrenCmd(app *App) *cobra.Command {
	var parentID string
	cmd := &cobra.Command{
		Use:   "children",
		Short: "List the stream types under a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionStreams, "view"); err != nil {
				return writeErr(cmd, err)
			}
			items, err := app.client.ListChildStreams(commandContext(cmd), parentID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": streamList(items),
				"meta": map[string]any{"parentId": parentID, "returned": len(items)},
			})
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent stream id")
	_ = cmd.MarkFlagRequired("parent")
	return cmd
}

func newStreamsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <stream-id>",
		Short: "Show a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionStreams, "view"); err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.client.GetStream(commandContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, apiErr(err, "stream", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
}

type streamFlags struct {
	clientID, projectID, parentID, name, description string
	active                                           bool
}

func (sf *streamFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sf.clientID, "client", "", "Client id")
	cmd.Flags().StringVar(&sf.projectID, "project", "", "Project id (required for a category)")
	cmd.Flags().StringVar(&sf.parentID, "parent", "", "Parent stream id (creates a type under that category)")
	cmd.Flags().StringVar(&sf.name, "name", "", "Stream name")
	cmd.Flags().StringVar(&sf.description, "description", "", "Stream description")
	cmd.Flags().BoolVar(&sf.active, "active", true, "Whether the stream is active")
}

func (sf *streamFlags) input(cmd *cobra.Command) model.StreamInput {
	in := model.StreamInput{
		ClientID:  strings.TrimSpace(sf.clientID),
		ProjectID: strings.TrimSpace(sf.projectID),
		ParentID:  strings.TrimSpace(sf.parentID),
		Name:      strings.TrimSpace(sf.name),
	}
	if cmd.Flags().Changed("description") {
		d := sf.description
		in.Description = &d
	}
	if cmd.Flags().Changed("active") {
		a := sf.active
		in.Active = &a
	}
	return in
}

func newStreamsCreateCmd(app *App) *cobra.Command {
	var sf streamFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a stream category (--project) or type (--parent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionStreams, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.client.CreateStream(commandContext(cmd), sf.input(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
	sf.register(cmd)
	return cmd
}

func newStreamsUpdateCmd(app *App) *cobra.Command {
	var sf streamFlags
	cmd := &cobra.Command{
		Use:   "update <stream-id>",
		Short: "Update a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionStreams, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.client.UpdateStream(commandContext(cmd), args[0], sf.input(cmd))
			if err != nil {
				return writeErr(cmd, apiErr(err, "stream", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": s})
		},
	}
	sf.register(cmd)
	return cmd
}

func newStreamsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <stream-id>",
		Short: "Delete a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionStreams, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteStream(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, apiErr(err, "stream", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

type pickResult struct {
	Value    string         `json:"value" yaml:"value"`
	State    string         `json:"state" yaml:"state"`
	ParentID string         `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	ChildID  string         `json:"childId,omitempty" yaml:"childId,omitempty"`
	Info     string         `json:"info,omitempty" yaml:"info,omitempty"`
	Parents  []model.Stream `json:"parents" yaml:"parents"`
	Children []model.Stream `json:"children,omitempty" yaml:"children,omitempty"`
	Changes  []string       `json:"changes" yaml:"changes"`
}

func newStreamsPickCmd(app *App) *cobra.Command {
	var projectID, parentID, childID, value, ticketID string
	var required bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Resolve a stream through the category -> type selector",
		Long: strings.TrimSpace(`
Runs the two-level stream selector non-interactively.

--value reconciles an existing stream id (category or type) to its category;
--parent and --child then change the selection the same way the picker does.
With --ticket the resulting stream is saved on that ticket.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionStreams, "view"); err != nil {
				return writeErr(cmd, err)
			}
			ctx := commandContext(cmd)
			pid, err := projectOrDefault(app, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}

			changes := []string{}
			sel := streamselect.NewSelector(app.client, streamselect.Options{
				Required:      required,
				OnValueChange: func(id string) { changes = append(changes, id) },
			})
			if cmd.Flags().Changed("value") {
				if err := sel.SetValue(ctx, value); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := sel.SetProject(ctx, pid); err != nil {
				return writeErr(cmd, err)
			}
			if cmd.Flags().Changed("parent") {
				if err := sel.SelectParent(ctx, parentID); err != nil {
					return writeErr(cmd, err)
				}
			}
			if cmd.Flags().Changed("child") {
				if err := sel.SelectChild(childID); err != nil {
					return writeErr(cmd, err)
				}
			}
			m := sel.Machine()
			if err := m.Validate(); err != nil {
				return writeErr(cmd, err)
			}

			res := pickResult{
				Value:    sel.Value(),
				State:    m.State().String(),
				ParentID: m.ParentID(),
				ChildID:  m.ChildID(),
				Info:     m.Info(),
				Parents:  m.Parents(),
				Children: m.Children(),
				Changes:  changes,
			}
			out := map[string]any{"data": res}
			if m.ShowChildSelect() && m.ChildID() == "" {
				out["_hints"] = []string{"helpdesk streams pick --project " + pid + " --parent " + m.ParentID() + " --child <stream-id>"}
			}

			if id := strings.TrimPrefix(strings.TrimSpace(ticketID), "#"); id != "" {
				if err := perm.Check(app.session.Role(), perm.SectionTickets, "manage"); err != nil {
					return writeErr(cmd, err)
				}
				v := sel.Value()
				t, err := app.client.UpdateTicket(ctx, id, model.TicketInput{StreamID: &v})
				if err != nil {
					return writeErr(cmd, apiErr(err, "ticket", id))
				}
				out["ticket"] = t
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId from config)")
	cmd.Flags().StringVar(&value, "value", "", "Existing stream id to start from")
	cmd.Flags().StringVar(&parentID, "parent", "", "Category to select")
	cmd.Flags().StringVar(&childID, "child", "", "Type to select within the category")
	cmd.Flags().StringVar(&ticketID, "ticket", "", "Save the resulting stream on this ticket")
	cmd.Flags().BoolVar(&required, "required", false, "Fail unless a stream is resolved")
	return cmd
}

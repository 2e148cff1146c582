package cli

import (
	"strings"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var f api.ProjectFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionProjects, "view"); err != nil {
				return writeErr(cmd, err)
			}
			page, err := app.client.ListProjects(commandContext(cmd), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   projectList(page.Items),
				"meta":   pageMeta(page.Total, f.ListOptions, len(page.Items)),
				"_hints": pageHints("helpdesk projects list", page.Total, f.ListOptions, len(page.Items)),
			})
		},
	}
	cmd.Flags().StringVar(&f.ClientID, "client", "", "Filter by client id")
	cmd.Flags().IntVar(&f.Limit, "limit", 50, "Max projects to return")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Offset (for pagination)")
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionProjects, "view"); err != nil {
				return writeErr(cmd, err)
			}
			p, err := app.client.GetProject(commandContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, apiErr(err, "project", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data":   p,
				"_hints": []string{"helpdesk tickets board --project " + p.ID, "helpdesk streams parents --project " + p.ID},
			})
		},
	}
}

type projectFlags struct {
	clientID    string
	name        string
	description string
	active      bool
}

func (pf *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.clientID, "client", "", "Client id")
	cmd.Flags().StringVar(&pf.name, "name", "", "Project name")
	cmd.Flags().StringVar(&pf.description, "description", "", "Project description")
	cmd.Flags().BoolVar(&pf.active, "active", true, "Whether the project is active")
}

func (pf *projectFlags) input(cmd *cobra.Command) model.ProjectInput {
	in := model.ProjectInput{ClientID: strings.TrimSpace(pf.clientID), Name: strings.TrimSpace(pf.name)}
	if cmd.Flags().Changed("description") {
		d := pf.description
		in.Description = &d
	}
	if cmd.Flags().Changed("active") {
		a := pf.active
		in.Active = &a
	}
	return in
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var pf projectFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionProjects, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			p, err := app.client.CreateProject(commandContext(cmd), pf.input(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	pf.register(cmd)
	return cmd
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var pf projectFlags
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionProjects, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			p, err := app.client.UpdateProject(commandContext(cmd), args[0], pf.input(cmd))
			if err != nil {
				return writeErr(cmd, apiErr(err, "project", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	pf.register(cmd)
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionProjects, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteProject(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, apiErr(err, "project", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

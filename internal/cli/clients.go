package cli

import (
	"strings"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"

	"github.com/spf13/cobra"
)

func newClientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Client (customer organisation) commands",
	}
	cmd.AddCommand(newClientsListCmd(app))
	cmd.AddCommand(newClientsShowCmd(app))
	cmd.AddCommand(newClientsCreateCmd(app))
	cmd.AddCommand(newClientsUpdateCmd(app))
	cmd.AddCommand(newClientsDeleteCmd(app))
	return cmd
}

func newClientsListCmd(app *App) *cobra.Command {
	var o api.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionClients, "view"); err != nil {
				return writeErr(cmd, err)
			}
			page, err := app.client.ListClients(commandContext(cmd), o)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   clientList(page.Items),
				"meta":   pageMeta(page.Total, o, len(page.Items)),
				"_hints": pageHints("helpdesk clients list", page.Total, o, len(page.Items)),
			})
		},
	}
	cmd.Flags().IntVar(&o.Limit, "limit", 50, "Max clients to return")
	cmd.Flags().IntVar(&o.Offset, "offset", 0, "Offset (for pagination)")
	return cmd
}

func newClientsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <client-id>",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionClients, "view"); err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client.GetClient(commandContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, apiErr(err, "client", args[0]))
			}
			return writeOut(cmd, app, map[string]any{
				"data":   c,
				"_hints": []string{"helpdesk projects list --client " + c.ID},
			})
		},
	}
}

type clientFlags struct {
	name, email, phone string
	active             bool
}

func (cf *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cf.name, "name", "", "Client name")
	cmd.Flags().StringVar(&cf.email, "email", "", "Contact email")
	cmd.Flags().StringVar(&cf.phone, "phone", "", "Contact phone")
	cmd.Flags().BoolVar(&cf.active, "active", true, "Whether the client is active")
}

func (cf *clientFlags) input(cmd *cobra.Command) model.ClientInput {
	in := model.ClientInput{
		Name:  strings.TrimSpace(cf.name),
		Email: strings.TrimSpace(cf.email),
		Phone: strings.TrimSpace(cf.phone),
	}
	if cmd.Flags().Changed("active") {
		a := cf.active
		in.Active = &a
	}
	return in
}

func newClientsCreateCmd(app *App) *cobra.Command {
	var cf clientFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionClients, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client.CreateClient(commandContext(cmd), cf.input(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cf.register(cmd)
	return cmd
}

func newClientsUpdateCmd(app *App) *cobra.Command {
	var cf clientFlags
	cmd := &cobra.Command{
		Use:   "update <client-id>",
		Short: "Update a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionClients, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client.UpdateClient(commandContext(cmd), args[0], cf.input(cmd))
			if err != nil {
				return writeErr(cmd, apiErr(err, "client", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}
	cf.register(cmd)
	return cmd
}

func newClientsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <client-id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionClients, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteClient(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, apiErr(err, "client", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

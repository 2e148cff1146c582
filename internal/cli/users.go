package cli

import (
	"strings"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User account commands (admin)",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersShowCmd(app))
	cmd.AddCommand(newUsersCreateCmd(app))
	cmd.AddCommand(newUsersUpdateCmd(app))
	cmd.AddCommand(newUsersDeleteCmd(app))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	var f api.UserFilter
	var role string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionUsers, "view"); err != nil {
				return writeErr(cmd, err)
			}
			f.Role = model.Role(strings.TrimSpace(role))
			page, err := app.client.ListUsers(commandContext(cmd), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   userList(page.Items),
				"meta":   pageMeta(page.Total, f.ListOptions, len(page.Items)),
				"_hints": pageHints("helpdesk users list", page.Total, f.ListOptions, len(page.Items)),
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (admin|employee|client)")
	cmd.Flags().IntVar(&f.Limit, "limit", 50, "Max users to return")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Offset (for pagination)")
	return cmd
}

func newUsersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionUsers, "view"); err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.client.GetUser(commandContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, apiErr(err, "user", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
}

type userFlags struct {
	fullName, email, role, clientID string
	passwordStdin, active           bool
}

func (uf *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&uf.fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&uf.email, "email", "", "Email")
	cmd.Flags().StringVar(&uf.role, "role", "", "Role (admin|employee|client)")
	cmd.Flags().StringVar(&uf.clientID, "client", "", "Client id (required for client users)")
	cmd.Flags().BoolVar(&uf.passwordStdin, "password-stdin", false, "Read the initial password from stdin")
	cmd.Flags().BoolVar(&uf.active, "active", true, "Whether the account is active")
}

func (uf *userFlags) input(cmd *cobra.Command) (model.UserInput, error) {
	in := model.UserInput{
		FullName: strings.TrimSpace(uf.fullName),
		Email:    strings.TrimSpace(uf.email),
		Role:     model.Role(strings.TrimSpace(uf.role)),
	}
	if cmd.Flags().Changed("client") {
		c := strings.TrimSpace(uf.clientID)
		in.ClientID = &c
	}
	if cmd.Flags().Changed("active") {
		a := uf.active
		in.Active = &a
	}
	if uf.passwordStdin {
		pw, err := readStdinLine(cmd)
		if err != nil {
			return in, err
		}
		in.Password = pw
	}
	return in, nil
}

func newUsersCreateCmd(app *App) *cobra.Command {
	var uf userFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionUsers, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			in, err := uf.input(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.client.CreateUser(commandContext(cmd), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
	uf.register(cmd)
	return cmd
}

func newUsersUpdateCmd(app *App) *cobra.Command {
	var uf userFlags
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionUsers, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			in, err := uf.input(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.client.UpdateUser(commandContext(cmd), args[0], in)
			if err != nil {
				return writeErr(cmd, apiErr(err, "user", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
	uf.register(cmd)
	return cmd
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionUsers, "manage"); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.DeleteUser(commandContext(cmd), args[0]); err != nil {
				return writeErr(cmd, apiErr(err, "user", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

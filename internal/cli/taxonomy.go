package cli

import (
	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/statusutil"

	"github.com/spf13/cobra"
)

func newTaxonomyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Ticket statuses and priorities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "statuses",
		Short: "List ticket statuses in board order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			statuses, err := app.client.Statuses(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": statusutil.Sorted(statuses)})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "priorities",
		Short: "List ticket priorities",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionTickets, "view"); err != nil {
				return writeErr(cmd, err)
			}
			ps, err := app.client.Priorities(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ps})
		},
	})
	return cmd
}

package cli

import (
	"helpdesk-cli/internal/perm"

	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Ticket metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionDashboard, "view"); err != nil {
				return writeErr(cmd, err)
			}
			d, err := app.client.LoadDashboard(commandContext(cmd), projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": d.Metrics,
				"meta": map[string]any{"projectId": projectID, "statuses": d.Statuses, "priorities": d.Priorities},
			})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Restrict metrics to a project")
	return cmd
}

package cli

import (
	"errors"
	"strings"

	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/search"

	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	var recent bool
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tickets, projects and users",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireUser(cmd, app, perm.SectionSearch, "view"); err != nil {
				return writeErr(cmd, err)
			}
			ctx := commandContext(cmd)
			if recent {
				qs, err := app.state.RecentSearches(ctx, limit)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": qs})
			}
			if len(args) == 0 {
				return writeErr(cmd, errors.New("missing <query> (or use --recent)"))
			}
			q := strings.TrimSpace(args[0])
			if !search.Qualifies(q) {
				return writeErr(cmd, errors.New("query must be at least 2 characters"))
			}

			results, err := search.Search(ctx, app.client, q, app.log)
			meta := map[string]any{"query": q, "returned": len(results)}
			if err != nil {
				if len(results) == 0 {
					return writeErr(cmd, err)
				}
				meta["partial"] = true
				meta["error"] = err.Error()
			}
			if err := app.state.AddRecentSearch(ctx, q); err != nil {
				app.log.WarnContext(ctx, "save recent search", "err", err)
			}
			if results == nil {
				results = searchResultList{}
			}
			return writeOut(cmd, app, map[string]any{"data": searchResultList(results), "meta": meta})
		},
	}
	cmd.Flags().BoolVar(&recent, "recent", false, "List recent queries instead of searching")
	cmd.Flags().IntVar(&limit, "limit", 10, "Max recent queries for --recent")
	return cmd
}

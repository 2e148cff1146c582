package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"helpdesk-cli/internal/api"
	"helpdesk-cli/internal/config"
	"helpdesk-cli/internal/format"
	"helpdesk-cli/internal/model"
	"helpdesk-cli/internal/perm"
	"helpdesk-cli/internal/session"
	"helpdesk-cli/internal/store"
	"helpdesk-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	APIURL     string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg     *config.Config
	state   *store.State
	client  *api.Client
	session *session.Session
	log     *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "helpdesk",
		Short:        "Helpdesk ticketing CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  helpdesk

  # Sign in and list open work
  helpdesk login --email me@example.com
  helpdesk tickets list --status open

  # Direct ticket lookup (shortcut for: helpdesk tickets show <ticket-id>)
  helpdesk '#t-42'
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := parseLogLevel(app.LogLevel); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("HELPDESK_CONFIG_DIR", ""), "Config and state directory (default ~/.helpdesk)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("HELPDESK_API_URL", ""), "Helpdesk API base URL (overrides apiUrl in config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("HELPDESK_FORMAT", "json"), "Output format (json|yaml|table)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("HELPDESK_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newTicketsCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newClientsCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newStreamsCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newCommentsCmd(app))
	cmd.AddCommand(newAttachmentsCmd(app))
	cmd.AddCommand(newTaxonomyCmd(app))
	cmd.AddCommand(newDashboardCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	lvl, err := parseLogLevel(app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	// The TUI owns the terminal; records go to its status bar.
	logs := tui.NewLogHandler(lvl)
	app.log = slog.New(logs)
	if err := connect(cmd, app); err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(commandContext(cmd), tui.Deps{
		Client:  app.client,
		Session: app.session,
		State:   app.state,
		Config:  app.cfg,
		Logger:  app.log,
		Logs:    logs,
	})
}

func parseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q (want debug|info|warn|error)", s)
	}
	return lvl, nil
}

func (app *App) configDir() (string, error) {
	if d := strings.TrimSpace(app.ConfigDir); d != "" {
		return d, nil
	}
	return config.Dir()
}

func loadConfig(app *App) (*config.Config, string, error) {
	dir, err := app.configDir()
	if err != nil {
		return nil, "", err
	}
	if app.cfg != nil {
		return app.cfg, dir, nil
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, dir, err
	}
	app.cfg = cfg
	return cfg, dir, nil
}

func (app *App) apiURL() string {
	if u := strings.TrimSpace(app.APIURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return app.cfg.ResolvedAPIURL()
}

// connect opens config, state, API client and session. The stored session is
// validated against the API; a rejected token leaves the session anonymous.
func connect(cmd *cobra.Command, app *App) error {
	if app.session != nil {
		return nil
	}
	ctx := commandContext(cmd)

	lvl, err := parseLogLevel(app.LogLevel)
	if err != nil {
		return err
	}
	if app.log == nil {
		app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	}

	_, dir, err := loadConfig(app)
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, dir)
	if err != nil {
		return err
	}
	app.state = st

	sess := session.New(st, func(err error) bool { return errors.Is(err, api.ErrUnauthorized) }, app.log)
	app.client = api.New(api.Options{
		BaseURL: app.apiURL(),
		Tokens:  sess,
		Logger:  app.log,
		Timeout: app.cfg.Timeout(),
	})
	if err := sess.Init(ctx, app.client); err != nil {
		app.log.WarnContext(ctx, "session bootstrap failed", "err", err)
	}
	app.session = sess
	return nil
}

// requireUser connects and checks that the signed-in user may perform action
// on section. Permission failures return before any further request.
func requireUser(cmd *cobra.Command, app *App, section perm.Section, action string) (model.User, error) {
	if err := connect(cmd, app); err != nil {
		return model.User{}, err
	}
	u, err := app.session.Require()
	if err != nil {
		return model.User{}, err
	}
	if err := perm.Check(u.Role, section, action); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (app *App) close() error {
	if app.state == nil {
		return nil
	}
	err := app.state.Close()
	app.state = nil
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	// Tables show the payload only.
	if strings.EqualFold(strings.TrimSpace(app.Format), "table") {
		if m, ok := v.(map[string]any); ok {
			if d, ok := m["data"]; ok {
				v = d
			}
		}
	}
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"helpdesk-cli/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			in := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(email) == "" {
				if passwordStdin {
					return writeErr(cmd, errors.New("--email is required with --password-stdin"))
				}
				fmt.Fprint(cmd.ErrOrStderr(), "Email: ")
				line, err := in.ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return writeErr(cmd, err)
				}
				email = strings.TrimSpace(line)
			}
			password, err := readPassword(cmd, in, passwordStdin)
			if err != nil {
				return writeErr(cmd, err)
			}

			creds := model.Credentials{Email: strings.TrimSpace(email), Password: password}
			u, err := app.session.Login(commandContext(cmd), app.client, creds)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   u,
				"_hints": []string{"helpdesk whoami", "helpdesk tickets list"},
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

// readPassword prompts without echo on a terminal and otherwise reads one
// line from in.
func readPassword(cmd *cobra.Command, in *bufio.Reader, fromStdin bool) (string, error) {
	if !fromStdin {
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.session.Logout(commandContext(cmd), app.client); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedOut": true}})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(cmd, app); err != nil {
				return writeErr(cmd, err)
			}
			u, err := app.session.Require()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": u,
				"meta": map[string]any{"apiUrl": app.client.BaseURL(), "sections": sectionsFor(u.Role)},
			})
		},
	}
}

func readStdinLine(cmd *cobra.Command) (string, error) {
	return readPassword(cmd, bufio.NewReader(cmd.InOrStdin()), true)
}

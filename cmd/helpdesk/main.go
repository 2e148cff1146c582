package main

import (
	"os"
	"strings"

	"helpdesk-cli/internal/cli"
)

// ticketRef reports whether s is a "#<id>" ticket reference.
func ticketRef(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "#") && len(s) > 1
}

// rewriteTicketLookupArgs makes `helpdesk '#<id>'` behave like
// `helpdesk tickets show <id>`. Cobra treats the first positional token as a
// subcommand, so argv is rewritten before parsing. Persistent flags may come
// first, so the first positional token is located by skipping known flags.
func rewriteTicketLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config-dir": true,
		"--api-url":    true,
		"--format":     true,
		"--log-level":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "tickets", "show", strings.TrimPrefix(strings.TrimSpace(argv[i]), "#"))
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && ticketRef(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			switch {
			case strings.Contains(a, "="), boolFlags[a]:
			case valueFlags[a]:
				i++
			}
			continue
		}
		if ticketRef(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteTicketLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

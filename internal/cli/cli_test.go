package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"helpdesk-cli/internal/apitest"
	"helpdesk-cli/internal/model"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runCLIWithInput(t, args, nil)
}

func runCLIWithInput(t *testing.T, args []string, stdin io.Reader) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type fixture struct {
	srv  *apitest.Server
	dir  string
	base []string
}

func ptr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New(t)
	srv.Statuses = []model.Status{
		{ID: "open", Name: "Open", Order: 1},
		{ID: "doing", Name: "In progress", Order: 2},
		{ID: "done", Name: "Done", Order: 3, IsClosed: true},
	}
	srv.Projects = []model.Project{{ID: "p1", ClientID: "c1", Name: "Test project", Active: true}}
	srv.Clients = []model.Client{{ID: "c1", Name: "Acme", Active: true}}
	srv.Tickets = []model.Ticket{
		{ID: "t1", Title: "Test ticket", ProjectID: "p1", StatusID: "open", ReporterID: "u-client"},
		{ID: "t2", Title: "Printer jam", ProjectID: "p1", StatusID: "doing", ReporterID: "u-admin"},
	}
	srv.ParentStreams["p1"] = []model.Stream{{ID: "hw", Name: "Hardware"}, {ID: "ops", Name: "Operations"}}
	srv.ChildStreams["hw"] = []model.Stream{{ID: "hw-printer", Name: "Printer"}}
	srv.AddAccount(model.User{ID: "u-admin", FullName: "Test Admin", Email: "admin@example.com", Role: model.RoleAdmin, Active: true}, "admin-pass")
	srv.AddAccount(model.User{ID: "u-client", FullName: "Carla Client", Email: "client@example.com", Role: model.RoleClient, ClientID: ptr("c1"), Active: true}, "client-pass")

	dir := t.TempDir()
	return &fixture{srv: srv, dir: dir, base: []string{"--config-dir", dir, "--api-url", srv.URL}}
}

func (f *fixture) args(extra ...string) []string {
	return append(append([]string{}, f.base...), extra...)
}

func (f *fixture) login(t *testing.T, email, password string) {
	t.Helper()
	stdout, stderr, err := runCLIWithInput(t, f.args("login", "--email", email, "--password-stdin"), strings.NewReader(password+"\n"))
	if err != nil {
		t.Fatalf("login failed: %v\nstderr:\n%s\nstdout:\n%s", err, stderr, stdout)
	}
}

func (f *fixture) mustRun(t *testing.T, extra ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, f.args(extra...))
	if err != nil {
		t.Fatalf("command failed: helpdesk %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", extra, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func TestLoginWhoamiLogout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	if _, _, err := runCLI(t, f.args("whoami")); err == nil {
		t.Fatalf("expected whoami to fail before login")
	}

	f.login(t, "admin@example.com", "admin-pass")
	env := f.mustRun(t, "whoami")
	data := env["data"].(map[string]any)
	if data["id"] != "u-admin" {
		t.Fatalf("unexpected user: %v", data)
	}
	if got := f.srv.Hits("GET /auth/me"); got == 0 {
		t.Fatalf("expected session bootstrap to validate the stored token")
	}

	f.mustRun(t, "logout")
	if f.srv.Hits("POST /auth/logout") != 1 {
		t.Fatalf("expected logout request")
	}
	if _, _, err := runCLI(t, f.args("whoami")); err == nil {
		t.Fatalf("expected whoami to fail after logout")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, stderr, err := runCLIWithInput(t, f.args("login", "--email", "admin@example.com", "--password-stdin"), strings.NewReader("nope\n"))
	if err == nil {
		t.Fatalf("expected login to fail")
	}
	if !strings.Contains(string(stderr), "invalid") {
		t.Fatalf("expected error on stderr, got %q", stderr)
	}
}

func TestClientRoleCannotListUsers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "client@example.com", "client-pass")

	_, stderr, err := runCLI(t, f.args("users", "list"))
	if err == nil {
		t.Fatalf("expected permission error")
	}
	if !strings.Contains(string(stderr), "permission denied") {
		t.Fatalf("expected permission denied, got %q", stderr)
	}
	if got := f.srv.Hits("GET /users"); got != 0 {
		t.Fatalf("expected no users request, got %d", got)
	}
}

func TestTicketsListAndShow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "admin@example.com", "admin-pass")

	env := f.mustRun(t, "tickets", "list", "--status", "open")
	items := env["data"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["id"] != "t1" {
		t.Fatalf("expected only t1, got %v", items)
	}
	if env["meta"].(map[string]any)["total"].(float64) != 1 {
		t.Fatalf("unexpected meta %v", env["meta"])
	}

	show := f.mustRun(t, "tickets", "show", "#t2")
	if show["meta"].(map[string]any)["status"] != "In progress" {
		t.Fatalf("unexpected meta %v", show["meta"])
	}

	_, stderr, err := runCLI(t, f.args("tickets", "show", "missing"))
	if err == nil || !strings.Contains(string(stderr), "ticket not found: missing") {
		t.Fatalf("expected not found, got %v %q", err, stderr)
	}
}

func TestTicketsMoveFollowsBoardContract(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "admin@example.com", "admin-pass")

	env := f.mustRun(t, "tickets", "move", "t1", "--status", "Open")
	if env["meta"].(map[string]any)["moved"] != false {
		t.Fatalf("same-column move should not be requested: %v", env["meta"])
	}
	if got := f.srv.Hits("POST /tickets/{id}"); got != 0 {
		t.Fatalf("expected no update request, got %d", got)
	}

	env = f.mustRun(t, "tickets", "move", "t1", "--status", "done")
	if env["data"].(map[string]any)["statusId"] != "done" {
		t.Fatalf("expected ticket in done, got %v", env["data"])
	}
	if got := f.srv.Hits("POST /tickets/{id}"); got != 1 {
		t.Fatalf("expected exactly one update request, got %d", got)
	}
}

func TestTicketsCreateUpdateBoard(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "admin@example.com", "admin-pass")

	created := f.mustRun(t, "tickets", "create", "--project", "p1", "--title", "VPN drops", "--description", "Since **Monday**")
	id := created["data"].(map[string]any)["id"].(string)

	updated := f.mustRun(t, "tickets", "update", id, "--status", "In progress", "--assignee", "u-admin")
	if updated["data"].(map[string]any)["statusId"] != "doing" {
		t.Fatalf("unexpected update result %v", updated["data"])
	}

	if _, _, err := runCLI(t, f.args("tickets", "update", id)); err == nil {
		t.Fatalf("expected empty update to be rejected")
	}

	board := f.mustRun(t, "tickets", "board", "--project", "p1")
	cols := board["data"].([]any)
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	doing := cols[1].(map[string]any)
	if doing["statusId"] != "doing" || len(doing["tickets"].([]any)) != 2 {
		t.Fatalf("unexpected doing column %v", doing)
	}
}

func TestClientCannotEditOthersTicket(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "client@example.com", "client-pass")

	if _, _, err := runCLI(t, f.args("tickets", "update", "t2", "--title", "mine now")); err == nil {
		t.Fatalf("expected client to be refused on someone else's ticket")
	}
	f.mustRun(t, "tickets", "update", "t1", "--title", "Test ticket (updated)")
}

func TestStreamsPick(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "admin@example.com", "admin-pass")

	env := f.mustRun(t, "streams", "pick", "--project", "p1", "--parent", "ops")
	data := env["data"].(map[string]any)
	if data["value"] != "ops" || data["state"] != "no-children" {
		t.Fatalf("unexpected pick result %v", data)
	}
	if changes := data["changes"].([]any); len(changes) != 1 || changes[0] != "ops" {
		t.Fatalf("expected a single change to ops, got %v", changes)
	}

	env = f.mustRun(t, "streams", "pick", "--project", "p1", "--value", "hw-printer", "--ticket", "t1")
	data = env["data"].(map[string]any)
	if data["parentId"] != "hw" || data["childId"] != "hw-printer" {
		t.Fatalf("expected reconciliation to hw/hw-printer, got %v", data)
	}
	if env["ticket"].(map[string]any)["streamId"] != "hw-printer" {
		t.Fatalf("expected ticket stream saved, got %v", env["ticket"])
	}

	if _, _, err := runCLI(t, f.args("streams", "pick", "--project", "p1", "--parent", "hw", "--required")); err == nil {
		t.Fatalf("expected --required to fail while no type is chosen")
	}
}

func TestSearchAndRecent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "admin@example.com", "admin-pass")

	env := f.mustRun(t, "search", "test")
	results := env["data"].([]any)
	var types []string
	for _, r := range results {
		types = append(types, r.(map[string]any)["type"].(string))
	}
	if strings.Join(types, ",") != "ticket,project,user" {
		t.Fatalf("unexpected result order %v", types)
	}

	f.srv.Lock()
	f.srv.Fail["GET /projects"] = 500
	f.srv.Unlock()
	env = f.mustRun(t, "search", "te")
	if env["meta"].(map[string]any)["partial"] != true {
		t.Fatalf("expected partial results, got %v", env["meta"])
	}

	recent := f.mustRun(t, "search", "--recent")
	qs := recent["data"].([]any)
	if len(qs) != 2 || qs[0] != "te" || qs[1] != "test" {
		t.Fatalf("unexpected recent searches %v", qs)
	}

	if _, _, err := runCLI(t, f.args("search", "t")); err == nil {
		t.Fatalf("expected short query to be rejected")
	}
}

func TestTableAndYAMLFormats(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, "admin@example.com", "admin-pass")

	stdout, stderr, err := runCLI(t, f.args("--format", "table", "tickets", "list"))
	if err != nil {
		t.Fatalf("table list failed: %v\n%s", err, stderr)
	}
	for _, w := range []string{"TITLE", "Printer jam", "t1"} {
		if !strings.Contains(string(stdout), w) {
			t.Fatalf("expected %q in table:\n%s", w, stdout)
		}
	}

	stdout, _, err = runCLI(t, f.args("--format", "yaml", "projects", "list"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stdout), "name: Test project") {
		t.Fatalf("unexpected yaml:\n%s", stdout)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if _, stderr, err := runCLI(t, []string{"--config-dir", dir, "config", "set", "defaultProjectId", "p1"}); err != nil {
		t.Fatalf("config set: %v\n%s", err, stderr)
	}
	stdout, _, err := runCLI(t, []string{"--config-dir", dir, "config", "show"})
	if err != nil {
		t.Fatal(err)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatal(err)
	}
	if env["data"].(map[string]any)["defaultProjectId"] != "p1" {
		t.Fatalf("unexpected config %v", env["data"])
	}

	if _, _, err := runCLI(t, []string{"--config-dir", dir, "config", "set", "nope", "x"}); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	t.Parallel()
	if _, _, err := runCLI(t, []string{"--log-level", "loud", "config", "show", "--config-dir", t.TempDir()}); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
}

func TestDocs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	stdout, stderr, err := runCLI(t, []string{"--config-dir", dir, "docs"})
	if err != nil {
		t.Fatalf("docs: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), `"board"`) {
		t.Fatalf("expected topic list, got %s", stdout)
	}

	stdout, _, err = runCLI(t, []string{"--config-dir", dir, "docs", "board", "--raw"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(stdout), "# The ticket board") {
		t.Fatalf("unexpected raw body %q", stdout)
	}

	_, stderr, err = runCLI(t, []string{"--config-dir", dir, "docs", "nope"})
	if err == nil || !strings.Contains(string(stderr), "unknown docs topic") {
		t.Fatalf("expected unknown topic error, got %v / %s", err, stderr)
	}
}

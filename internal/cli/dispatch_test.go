package cli_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"tidyup/internal/cli"
	"tidyup/internal/commands"
	"tidyup/internal/config"
	"tidyup/internal/credential"
	"tidyup/internal/exitcode"
	"tidyup/internal/service"
	"tidyup/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(cfg *config.Config, tokens oauth2.TokenSource, logger *slog.Logger) (service.Service, error) {
		return svc, nil
	}
}

type harness struct {
	svc *testutil.FakeService
	dir string
	d   *cli.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"TIDYUP_MOCK_API", "TIDYUP_API_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	svc := testutil.NewFakeService()
	return &harness{
		svc: svc,
		dir: t.TempDir(),
		d:   cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc)),
	}
}

// signIn stores a token for the account and opens its server-side session.
func (h *harness) signIn(t *testing.T, id string) {
	t.Helper()
	h.svc.SetSession(id)
	creds := credential.NewStore(filepath.Join(h.dir, config.TokenFile))
	if err := creds.SaveAccessToken("fake-token-" + id); err != nil {
		t.Fatalf("save token: %v", err)
	}
}

func (h *harness) run(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	args = append(args, "--config", h.dir)
	code = h.d.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	h := newHarness(t)

	var stdout, stderr bytes.Buffer
	code := h.d.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	h := newHarness(t)

	var stdout, stderr bytes.Buffer
	code := h.d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	h := newHarness(t)

	stdout, stderr, code := h.run("help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "Usage:") {
		t.Errorf("expected help output to start with 'Usage:', got %q", stdout)
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	h := newHarness(t)

	stdout, stderr, code := h.run("version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tidyup 0.1.0\n" {
		t.Errorf("expected 'tidyup 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	h := newHarness(t)

	_, stderr, code := h.run("version", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: --unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_CommandHelpFlag(t *testing.T) {
	h := newHarness(t)

	stdout, _, code := h.run("add", "--help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "Usage: tidyup add") {
		t.Errorf("expected add usage, got %q", stdout)
	}
	if h.svc.Calls("Me") != 0 {
		t.Error("expected no session lookup for --help")
	}
}

func TestDispatcher_NotLoggedInRedirectsToLogin(t *testing.T) {
	h := newHarness(t)

	stdout, stderr, code := h.run("add", "Wash", "windows")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: not logged in (run: tidyup login)\n") {
		t.Errorf("expected login redirect, got %q", stderr)
	}
	if !strings.Contains(stderr, "then retry: tidyup add Wash windows") {
		t.Errorf("expected original command in redirect, got %q", stderr)
	}
	if h.svc.Calls("CreateTask") != 0 {
		t.Error("guarded command must not run")
	}
}

func TestDispatcher_DefaultCommandShowsDashboard(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.UserID)
	h.svc.AddTask("Vacuum hallway", false)

	var out, errOut bytes.Buffer
	// Without a command the config dir must come from the environment.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	creds := credential.NewStore(filepath.Join(config.DefaultConfigDir(), config.TokenFile))
	if err := creds.SaveAccessToken("fake-token-" + testutil.UserID); err != nil {
		t.Fatalf("save token: %v", err)
	}

	code := h.d.Run(context.Background(), nil, &out, &errOut)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errOut.String())
	}
	if !strings.HasPrefix(out.String(), "My tasks\n") {
		t.Errorf("expected dashboard, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Vacuum hallway") {
		t.Errorf("expected task in dashboard, got %q", out.String())
	}
}

func TestDispatcher_SignedInRunsCommand(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.UserID)

	stdout, stderr, code := h.run("add", "Wash", "windows")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "Wash windows") {
		t.Errorf("expected created task, got %q", stdout)
	}
	if h.svc.Calls("Me") != 1 {
		t.Errorf("expected one Me call, got %d", h.svc.Calls("Me"))
	}
}

func TestDispatcher_UserCannotOpenAdminCommand(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.UserID)

	_, stderr, code := h.run("users")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: ADMIN role required (see: tidyup tasks)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if h.svc.Calls("ListUsers") != 0 {
		t.Error("guarded command must not run")
	}
}

func TestDispatcher_AdminOpensUserCommands(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.AdminID)

	_, stderr, code := h.run("tasks")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
}

func TestDispatcher_RejectedTokenIsCleared(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.UserID)
	h.svc.MeErr = &service.Error{Kind: service.ErrAuth, Status: 401}

	_, stderr, code := h.run("tasks")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: not logged in") {
		t.Errorf("expected login redirect, got %q", stderr)
	}
	creds := credential.NewStore(filepath.Join(h.dir, config.TokenFile))
	if _, err := creds.Load(); err == nil {
		t.Error("expected rejected token cleared")
	}
}

func TestDispatcher_UnreachableServerKeepsToken(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.UserID)
	h.svc.MeErr = &service.Error{Kind: service.ErrNetwork}

	_, stderr, code := h.run("tasks")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: could not verify session") {
		t.Errorf("expected verification error, got %q", stderr)
	}
	creds := credential.NewStore(filepath.Join(h.dir, config.TokenFile))
	if _, err := creds.Load(); err != nil {
		t.Errorf("expected token kept, got %v", err)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(cfg *config.Config, tokens oauth2.TokenSource, logger *slog.Logger) (service.Service, error) {
		return nil, service.Errorf(service.ErrServer, "boom")
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var out, errOut bytes.Buffer
	code := d.Run(context.Background(), []string{"version", "--config", t.TempDir()}, &out, &errOut)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(errOut.String(), "error: backend error: ") {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestDispatcher_LoginReadsInput(t *testing.T) {
	h := newHarness(t)
	h.d.SetInput(strings.NewReader(testutil.UserEmail + "\n" + testutil.Password + "\n"))

	stdout, stderr, code := h.run("login")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "logged in as Uma User (User)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if stderr != "Email: Password: " {
		t.Errorf("expected prompts on stderr, got %q", stderr)
	}
}

package commands_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"tidyup/internal/commands"
	"tidyup/internal/config"
	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/logging"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c *stubCmd) Name() string                                    { return c.name }
func (c *stubCmd) Aliases() []string                               { return c.aliases }
func (c *stubCmd) Synopsis() string                                { return "" }
func (c *stubCmd) Usage() string                                   { return "tidyup " + c.name }
func (c *stubCmd) Access() guard.Requirement                       { return guard.Public }
func (c *stubCmd) RegisterFlags(*pflag.FlagSet)                    {}
func (c *stubCmd) Run(context.Context, *commands.Env, []string) int { return 0 }

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&stubCmd{name: "a", aliases: []string{"b"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := r.Register(&stubCmd{name: "b"}); err == nil {
		t.Error("expected error for a name taken by an alias")
	}
	if err := r.Register(&stubCmd{name: "c", aliases: []string{"a"}}); err == nil {
		t.Error("expected error for an alias taken by a name")
	}
	// A rejected command leaves nothing behind.
	if _, ok := r.Find("c"); ok {
		t.Error("expected rejected command not registered")
	}
	if n := len(r.All()); n != 1 {
		t.Errorf("expected 1 command, got %d", n)
	}
}

func TestRegistry_AllCommandsDocumented(t *testing.T) {
	all := commands.DefaultRegistry.All()
	if len(all) == 0 {
		t.Fatal("no commands registered")
	}
	for i, cmd := range all {
		if i > 0 && all[i-1].Name() >= cmd.Name() {
			t.Errorf("commands not sorted: %s before %s", all[i-1].Name(), cmd.Name())
		}
		if !strings.HasPrefix(cmd.Usage(), "tidyup "+cmd.Name()) {
			t.Errorf("%s: usage %q does not start with the command", cmd.Name(), cmd.Usage())
		}
		if cmd.Synopsis() == "" {
			t.Errorf("%s: empty synopsis", cmd.Name())
		}
	}
}

func TestRegistry_AccessLevels(t *testing.T) {
	want := map[string]guard.Requirement{
		"login":    guard.Public,
		"logout":   guard.Public,
		"help":     guard.Public,
		"whoami":   guard.Authenticated,
		"tasks":    guard.User,
		"add":      guard.User,
		"profile":  guard.User,
		"users":    guard.Admin,
		"edituser": guard.Admin,
	}
	for name, req := range want {
		cmd, ok := commands.DefaultRegistry.Find(name)
		if !ok {
			t.Errorf("%s not registered", name)
			continue
		}
		if cmd.Access() != req {
			t.Errorf("%s: expected access %+v, got %+v", name, req, cmd.Access())
		}
	}
}

func TestMockServeCommand_StopsOnCancel(t *testing.T) {
	cmd := &commands.MockServeCmd{}
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse([]string{"--addr", "127.0.0.1:0"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	var out, errOut strings.Builder
	env := &commands.Env{
		Config: &config.Config{Dir: t.TempDir()},
		Logger: logging.Discard(),
		Out:    &out,
		ErrOut: &errOut,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := cmd.Run(ctx, env, fs.Args())

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errOut.String())
	}
	if !strings.HasPrefix(out.String(), "mock API listening on http://127.0.0.1:") {
		t.Errorf("unexpected stdout %q", out.String())
	}
	if !strings.Contains(out.String(), "password for all accounts: tidyup") {
		t.Errorf("expected dev password hint, got %q", out.String())
	}
}

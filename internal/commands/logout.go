package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"tidyup/internal/credential"
	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string                { return "logout" }
func (c *LogoutCmd) Aliases() []string           { return nil }
func (c *LogoutCmd) Synopsis() string            { return "Sign out and remove the stored token" }
func (c *LogoutCmd) Usage() string               { return "tidyup logout [common flags]" }
func (c *LogoutCmd) Access() guard.Requirement   { return guard.Public }
func (c *LogoutCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string) int {
	if _, err := env.Tokens.Load(); errors.Is(err, credential.ErrNoToken) {
		info(env, "not logged in")
		return exitcode.Success
	}

	// The local session ends even when the server call fails.
	if err := env.Session.Logout(ctx); err != nil {
		fmt.Fprintf(env.ErrOut, "warning: server logout failed: %v\n", err)
	}

	info(env, "ok")
	return exitcode.Success
}

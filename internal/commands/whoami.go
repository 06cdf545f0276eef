package commands

import (
	"context"

	"github.com/spf13/pflag"

	"tidyup/internal/config"
	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the signed-in account.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string                { return "whoami" }
func (c *WhoamiCmd) Aliases() []string           { return nil }
func (c *WhoamiCmd) Synopsis() string            { return "Show the signed-in account" }
func (c *WhoamiCmd) Usage() string               { return "tidyup whoami" }
func (c *WhoamiCmd) Access() guard.Requirement   { return guard.Authenticated }
func (c *WhoamiCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string) int {
	u, ok := env.Session.Identity()
	if !ok {
		return usage(env, msgNeedLoginFmt, config.AppName)
	}
	env.Printer().Profile(u)
	return exitcode.Success
}

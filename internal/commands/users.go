package commands

import (
	"context"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
)

func init() {
	Register(&UsersCmd{})
}

// UsersCmd lists all accounts.
type UsersCmd struct{}

func (c *UsersCmd) Name() string                { return "users" }
func (c *UsersCmd) Aliases() []string           { return nil }
func (c *UsersCmd) Synopsis() string            { return "List user accounts (admin)" }
func (c *UsersCmd) Usage() string               { return "tidyup users" }
func (c *UsersCmd) Access() guard.Requirement   { return guard.Admin }
func (c *UsersCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return usage(env, "unexpected argument: %s", args[0])
	}

	users, err := env.Service.ListUsers(ctx)
	if err != nil {
		return fail(ctx, env, msgLoadUsers, err)
	}

	p := env.Printer()
	if env.Config.Quiet {
		for _, u := range users {
			p.UserLine(u)
		}
		return exitcode.Success
	}
	p.Users(users)
	return exitcode.Success
}

package commands

import (
	"context"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/service"
)

func init() {
	Register(&EditUserCmd{})
}

// EditUserCmd changes another account's role or active flag.
type EditUserCmd struct {
	fs     *pflag.FlagSet
	role   string
	active bool
}

func (c *EditUserCmd) Name() string              { return "edituser" }
func (c *EditUserCmd) Aliases() []string         { return nil }
func (c *EditUserCmd) Synopsis() string          { return "Change a user's role or status (admin)" }
func (c *EditUserCmd) Usage() string             { return "tidyup edituser [--role ADMIN|USER] [--active=true|false] <id>" }
func (c *EditUserCmd) Access() guard.Requirement { return guard.Admin }

func (c *EditUserCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.role, "role", "", "ADMIN or USER")
	fs.BoolVar(&c.active, "active", true, "enable or disable the account")
}

func (c *EditUserCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, ok := taskIDArg(args)
	if !ok {
		return usage(env, "user id required")
	}

	var in service.UpdateUser
	if c.fs.Changed("role") {
		role, err := service.ParseRole(c.role)
		if err != nil {
			return usage(env, "%v", err)
		}
		in.Role = &role
	}
	if c.fs.Changed("active") {
		active := c.active
		in.Active = &active
	}
	if in.Role == nil && in.Active == nil {
		return usage(env, "nothing to change")
	}

	u, err := env.Service.UpdateUser(ctx, id, in)
	if err != nil {
		msg := msgUpdateUser
		if in.Active == nil {
			msg = msgUpdateRole
		}
		return fail(ctx, env, msg, err)
	}

	if !env.Config.Quiet {
		env.Printer().UserLine(u)
	}
	return exitcode.Success
}

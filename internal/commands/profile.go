package commands

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"tidyup/internal/config"
	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/service"
)

func init() {
	Register(&ProfileCmd{})
}

// ProfileCmd shows or updates the signed-in account's profile. After an
// update the session identity is refreshed from the server.
type ProfileCmd struct {
	fs    *pflag.FlagSet
	name  string
	email string
}

func (c *ProfileCmd) Name() string              { return "profile" }
func (c *ProfileCmd) Aliases() []string         { return []string{"me"} }
func (c *ProfileCmd) Synopsis() string          { return "Show or edit your profile" }
func (c *ProfileCmd) Usage() string             { return "tidyup profile [--name <name>] [--email <email>]" }
func (c *ProfileCmd) Access() guard.Requirement { return guard.User }

func (c *ProfileCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.name, "name", "", "name and surname")
	fs.StringVar(&c.email, "email", "", "email address")
}

func (c *ProfileCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return usage(env, "unexpected argument: %s", args[0])
	}

	var in service.UpdateMe
	if c.fs.Changed("name") {
		in.Name = nonBlank(c.name)
	}
	if c.fs.Changed("email") {
		in.Email = nonBlank(c.email)
	}

	if in.Name == nil && in.Email == nil {
		u, ok := env.Session.Identity()
		if !ok {
			return usage(env, msgNeedLoginFmt, config.AppName)
		}
		env.Printer().Profile(u)
		return exitcode.Success
	}

	if _, err := env.Service.UpdateMe(ctx, in); err != nil {
		return fail(ctx, env, msgUpdateMe, err)
	}
	u, err := env.Session.RefreshMe(ctx)
	if err != nil {
		return fail(ctx, env, msgUpdateMe, err)
	}

	info(env, "profile updated")
	if !env.Config.Quiet {
		env.Printer().Profile(u)
	}
	return exitcode.Success
}

// nonBlank returns nil for a blank value so the field is left out.
func nonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

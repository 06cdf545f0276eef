package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string                { return "version" }
func (c *VersionCmd) Aliases() []string           { return nil }
func (c *VersionCmd) Synopsis() string            { return "Print version" }
func (c *VersionCmd) Usage() string               { return "tidyup version" }
func (c *VersionCmd) Access() guard.Requirement   { return guard.Public }
func (c *VersionCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprintf(env.Out, "tidyup %s\n", Version)
	return exitcode.Success
}

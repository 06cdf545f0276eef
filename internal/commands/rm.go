package commands

import (
	"context"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string                { return "rm" }
func (c *RmCmd) Aliases() []string           { return []string{"delete"} }
func (c *RmCmd) Synopsis() string            { return "Delete a task" }
func (c *RmCmd) Usage() string               { return "tidyup rm <id>" }
func (c *RmCmd) Access() guard.Requirement   { return guard.User }
func (c *RmCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, ok := taskIDArg(args)
	if !ok {
		return usage(env, "task id required")
	}

	if err := env.Service.DeleteTask(ctx, id); err != nil {
		return fail(ctx, env, msgDeleteTask, err)
	}

	info(env, "ok")
	return exitcode.Success
}

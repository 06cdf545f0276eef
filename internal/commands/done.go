package commands

import (
	"context"
	"errors"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd flips the done flag of a task.
type DoneCmd struct{}

func (c *DoneCmd) Name() string                { return "done" }
func (c *DoneCmd) Aliases() []string           { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string            { return "Toggle a task between done and to do" }
func (c *DoneCmd) Usage() string               { return "tidyup done <id>" }
func (c *DoneCmd) Access() guard.Requirement   { return guard.User }
func (c *DoneCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, ok := taskIDArg(args)
	if !ok {
		return usage(env, "task id required")
	}

	task, err := findTask(ctx, env.Service, id)
	if errors.Is(err, service.ErrNotFound) {
		return usage(env, "task not found: %s", id)
	}
	if err != nil {
		return fail(ctx, env, msgLoadTasks, err)
	}

	updated, err := env.Service.ToggleDone(ctx, string(task.ID), !task.Done)
	if err != nil {
		return fail(ctx, env, msgUpdateTask, err)
	}

	if !env.Config.Quiet {
		env.Printer().Task(updated)
	}
	return exitcode.Success
}

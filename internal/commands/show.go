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
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task.
type ShowCmd struct{}

func (c *ShowCmd) Name() string                { return "show" }
func (c *ShowCmd) Aliases() []string           { return nil }
func (c *ShowCmd) Synopsis() string            { return "Show a task in detail" }
func (c *ShowCmd) Usage() string               { return "tidyup show <id>" }
func (c *ShowCmd) Access() guard.Requirement   { return guard.User }
func (c *ShowCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string) int {
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

	env.Printer().TaskDetail(task)
	return exitcode.Success
}

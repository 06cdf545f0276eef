package commands

import (
	"context"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd prints the task dashboard. It runs when no command is given.
type TasksCmd struct{}

func (c *TasksCmd) Name() string               { return "tasks" }
func (c *TasksCmd) Aliases() []string          { return []string{"list", "ls"} }
func (c *TasksCmd) Synopsis() string           { return "Show the task dashboard" }
func (c *TasksCmd) Usage() string              { return "tidyup tasks [common flags]" }
func (c *TasksCmd) Access() guard.Requirement  { return guard.User }
func (c *TasksCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *TasksCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return usage(env, "unexpected argument: %s", args[0])
	}

	tasks, err := env.Service.ListTasks(ctx)
	if err != nil {
		return fail(ctx, env, msgLoadTasks, err)
	}
	env.Logger.Debug("tasks loaded", "count", len(tasks))

	if env.Config.Quiet {
		p := env.Printer()
		for _, t := range tasks {
			p.Task(t)
		}
		return exitcode.Success
	}
	env.Printer().Dashboard(tasks)
	return exitcode.Success
}

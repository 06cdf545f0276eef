package commands

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	form taskForm
}

func (c *AddCmd) Name() string              { return "add" }
func (c *AddCmd) Aliases() []string         { return []string{"new"} }
func (c *AddCmd) Synopsis() string          { return "Create a task" }
func (c *AddCmd) Usage() string             { return "tidyup add [--desc <text>] [--due <date>] [--priority <p>] [--location <l>] <title...>" }
func (c *AddCmd) Access() guard.Requirement { return guard.User }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.form = taskForm{}
	c.form.register(fs, false)
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return usage(env, "title required")
	}

	in := service.TaskInput{Title: title}
	if err := c.form.apply(&in); err != nil {
		return usage(env, "%v", err)
	}

	task, err := env.Service.CreateTask(ctx, in)
	if err != nil {
		return fail(ctx, env, msgSaveTask, err)
	}
	env.Logger.Debug("task created", "id", task.ID)

	if !env.Config.Quiet {
		env.Printer().Task(task)
	}
	return exitcode.Success
}

package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Fields not given keep their value.
type EditCmd struct {
	form taskForm
}

func (c *EditCmd) Name() string              { return "edit" }
func (c *EditCmd) Aliases() []string         { return nil }
func (c *EditCmd) Synopsis() string          { return "Change a task" }
func (c *EditCmd) Usage() string             { return "tidyup edit [--title <t>] [--desc <text>] [--due <date>] [--priority <p>] [--location <l>] <id>" }
func (c *EditCmd) Access() guard.Requirement { return guard.User }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.form = taskForm{}
	c.form.register(fs, true)
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, ok := taskIDArg(args)
	if !ok {
		return usage(env, "task id required")
	}
	if !c.form.changed() {
		return usage(env, "nothing to change")
	}

	task, err := findTask(ctx, env.Service, id)
	if errors.Is(err, service.ErrNotFound) {
		return usage(env, "task not found: %s", id)
	}
	if err != nil {
		return fail(ctx, env, msgLoadTasks, err)
	}

	in := service.TaskUpdateInput{TaskInput: inputOf(task)}
	if err := c.form.apply(&in.TaskInput); err != nil {
		return usage(env, "%v", err)
	}
	if strings.TrimSpace(in.Title) == "" {
		return usage(env, "title required")
	}

	updated, err := env.Service.UpdateTask(ctx, id, in)
	if err != nil {
		return fail(ctx, env, msgSaveTask, err)
	}

	if !env.Config.Quiet {
		env.Printer().Task(updated)
	}
	return exitcode.Success
}

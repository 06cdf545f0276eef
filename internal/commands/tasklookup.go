package commands

import (
	"context"
	"strings"

	"tidyup/internal/service"
)

// taskIDArg returns the single task id argument.
func taskIDArg(args []string) (string, bool) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", false
	}
	return strings.TrimSpace(args[0]), true
}

// findTask loads the task list and returns the task with id. The API has
// no single-task read, so the list is the source of truth.
func findTask(ctx context.Context, svc service.Service, id string) (service.Task, error) {
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return service.Task{}, err
	}
	for _, t := range tasks {
		if string(t.ID) == id {
			return t, nil
		}
	}
	return service.Task{}, service.Errorf(service.ErrNotFound, "no task with id %s", id)
}

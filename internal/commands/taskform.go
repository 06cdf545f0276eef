package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"tidyup/internal/output"
	"tidyup/internal/service"
)

// taskForm holds the editable task fields shared by add and edit.
type taskForm struct {
	fs *pflag.FlagSet

	title       string
	description string
	due         string
	priority    string
	location    string
}

func (f *taskForm) register(fs *pflag.FlagSet, withTitle bool) {
	f.fs = fs
	if withTitle {
		fs.StringVarP(&f.title, "title", "t", "", "task title")
	}
	fs.StringVarP(&f.description, "desc", "d", "", "description")
	fs.StringVar(&f.due, "due", "", "due date (YYYY-MM-DD, empty to clear)")
	fs.StringVarP(&f.priority, "priority", "p", "", "LOW, MEDIUM, HIGH or none")
	fs.StringVarP(&f.location, "location", "l", "", "room or place")
}

// changed reports whether any form flag was given.
func (f *taskForm) changed() bool {
	for _, name := range []string{"title", "desc", "due", "priority", "location"} {
		if f.set(name) {
			return true
		}
	}
	return false
}

func (f *taskForm) set(name string) bool {
	return f.fs != nil && f.fs.Lookup(name) != nil && f.fs.Changed(name)
}

// apply copies the given flags onto in. Flags not given leave in unchanged.
func (f *taskForm) apply(in *service.TaskInput) error {
	if f.set("title") {
		in.Title = strings.TrimSpace(f.title)
	}
	if f.set("desc") {
		in.Description = strings.TrimSpace(f.description)
	}
	if f.set("due") {
		due := strings.TrimSpace(f.due)
		if due != "" {
			if _, err := time.Parse(output.DateLayout, due); err != nil {
				return fmt.Errorf("invalid due date: %s (want YYYY-MM-DD)", f.due)
			}
		}
		in.DueDate = due
	}
	if f.set("priority") {
		p, err := service.ParsePriority(f.priority)
		if err != nil {
			return err
		}
		in.Priority = p
	}
	if f.set("location") {
		in.Location = strings.TrimSpace(f.location)
	}
	return nil
}

func inputOf(t service.Task) service.TaskInput {
	return service.TaskInput{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Location:    t.Location,
	}
}

// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"tidyup/internal/config"
	"tidyup/internal/credential"
	"tidyup/internal/guard"
	"tidyup/internal/output"
	"tidyup/internal/service"
	"tidyup/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Access returns what the session must satisfy before Run is called.
	Access() guard.Requirement

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is everything a command runs with. The dispatcher builds one per
// invocation.
type Env struct {
	Config  *config.Config
	Service service.Service
	Session *session.Store
	Tokens  *credential.Store
	Logger  *slog.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Printer returns a formatter bound to Out.
func (e *Env) Printer() *output.Printer {
	return output.New(e.Out)
}

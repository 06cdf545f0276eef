// Package cli parses the command line and runs commands behind the
// session guards.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/oauth2"

	"tidyup/internal/commands"
	"tidyup/internal/config"
	"tidyup/internal/credential"
	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/logging"
	"tidyup/internal/service"
	"tidyup/internal/session"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = guard.HomeCommand

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(cfg *config.Config, tokens oauth2.TokenSource, logger *slog.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// SetInput sets the reader prompts read from. Defaults to stdin.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, DefaultCommand, nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command.
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, cmdName, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, invokedAs string, args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "override config directory")
	fs.BoolVar(&quiet, "quiet", false, "suppress informational output")
	fs.BoolVar(&debug, "debug", false, "print debug logs to stderr")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n", cmd.Usage())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := logging.New(errOut, debug).With("command", cmd.Name())
	tokens := credential.NewStore(cfg.TokenPath())

	svc, err := d.factory(cfg, tokens, logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	env := &commands.Env{
		Config:  cfg,
		Service: svc,
		Session: session.New(svc, tokens, session.WithLogger(logger)),
		Tokens:  tokens,
		Logger:  logger,
		In:      d.in,
		Out:     out,
		ErrOut:  errOut,
	}

	if req := cmd.Access(); req.Auth {
		from := strings.Join(append([]string{invokedAs}, args...), " ")
		if code := d.authorize(ctx, env, req, from); code != exitcode.Success {
			return code
		}
	}

	return cmd.Run(ctx, env, fs.Args())
}

// authorize resolves the session and evaluates req against it, waiting
// while the session is loading. It prints the redirect and returns its
// exit code when the command may not run.
func (d *Dispatcher) authorize(ctx context.Context, env *commands.Env, req guard.Requirement, from string) int {
	env.Session.Start(ctx)
	for {
		decision := req.Check(env.Session, from)
		env.Logger.Debug("guard", "decision", decision.Kind.String(), "state", env.Session.State().String())

		switch decision.Kind {
		case guard.Allow:
			return exitcode.Success

		case guard.Loading:
			if _, err := env.Session.Wait(ctx); err != nil {
				fmt.Fprintln(env.ErrOut, "error: cancelled")
				return exitcode.AuthError
			}

		case guard.RedirectLogin:
			// A token that survived resolution was not rejected; the
			// server could not be asked.
			if _, err := env.Tokens.Load(); err == nil {
				fmt.Fprintf(env.ErrOut, "error: could not verify session; check the API is reachable (%s)\n", env.Config.APIURL)
				return exitcode.BackendError
			}
			fmt.Fprintf(env.ErrOut, "error: not logged in (run: %s login)\n", config.AppName)
			if decision.From != "" {
				fmt.Fprintf(env.ErrOut, "then retry: %s %s\n", config.AppName, decision.From)
			}
			return exitcode.AuthError

		case guard.RedirectHome:
			fmt.Fprintf(env.ErrOut, "error: %s role required (see: %s %s)\n", decision.Role, config.AppName, guard.HomeCommand)
			return exitcode.AuthError
		}
	}
}

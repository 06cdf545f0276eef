package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tidyup/internal/config"
	"tidyup/internal/exitcode"
	"tidyup/internal/service"
)

// Generic messages shown when a view operation fails. The underlying error
// goes to the debug log.
const (
	msgLoadTasks    = "could not load tasks"
	msgSaveTask     = "saving task failed"
	msgUpdateTask   = "updating task failed"
	msgDeleteTask   = "deleting task failed"
	msgLoadUsers    = "could not load users"
	msgUpdateUser   = "updating user failed"
	msgUpdateRole   = "updating role failed"
	msgUpdateMe     = "failed to update profile"
	msgLoginFailed  = "login failed: check your credentials"
	msgNeedLoginFmt = "not logged in (run: %s login)"
)

// ExitCode maps a service error to an exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, service.ErrAuth):
		return exitcode.AuthError
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNotFound):
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// fail reports a failed operation with msg and returns the exit code for
// err. Validation and not-found messages from the backend are appended.
// An auth failure hands the session back to the session store.
func fail(ctx context.Context, env *Env, msg string, err error) int {
	env.Logger.Debug(msg, "error", err)

	line := msg
	if detail := userDetail(err); detail != "" {
		line += ": " + detail
	}
	fmt.Fprintf(env.ErrOut, "error: %s\n", line)

	if service.IsAuth(err) {
		fmt.Fprintf(env.ErrOut, "error: "+msgNeedLoginFmt+"\n", config.AppName)
		if env.Session != nil {
			// Lets the store drop a rejected token.
			_, _ = env.Session.RefreshMe(ctx)
		}
	}
	return ExitCode(err)
}

func userDetail(err error) string {
	if !errors.Is(err, service.ErrValidation) && !errors.Is(err, service.ErrNotFound) {
		return ""
	}
	var e *service.Error
	if errors.As(err, &e) {
		return strings.TrimSpace(e.Message)
	}
	return ""
}

// usage prints a usage error.
func usage(env *Env, format string, args ...any) int {
	fmt.Fprintf(env.ErrOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// info prints informational output unless --quiet is set.
func info(env *Env, format string, args ...any) {
	if env.Config.Quiet {
		return
	}
	fmt.Fprintf(env.Out, format+"\n", args...)
}

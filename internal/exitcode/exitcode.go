// Package exitcode defines exit codes for the CLI.
package exitcode

// Process exit codes. Commands map service errors onto these.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, unknown id).
	UserError = 1

	// AuthError indicates a missing or rejected session, or a role the account lacks.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

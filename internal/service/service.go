// Package service defines the backend-agnostic interface for TidyUp operations.
package service

import "context"

// Service defines the interface for the TidyUp API.
// All resource calls go through this interface; commands never talk HTTP directly.
// Implementations return errors classified with the sentinels in errors.go.
type Service interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, creds Credentials) (AuthResponse, error)

	// Logout asks the server to invalidate the current session.
	Logout(ctx context.Context) error

	// Me returns the identity behind the current credential.
	Me(ctx context.Context) (User, error)

	// UpdateMe updates the current user's profile.
	UpdateMe(ctx context.Context, in UpdateMe) (User, error)

	// ListUsers returns all user accounts (admin only on the server side).
	ListUsers(ctx context.Context) ([]User, error)

	// UpdateUser changes another account's role or active flag.
	UpdateUser(ctx context.Context, id string, in UpdateUser) (User, error)

	// ListTasks returns the current user's tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task; the server assigns id and createdAt.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces the editable fields of a task.
	UpdateTask(ctx context.Context, id string, in TaskUpdateInput) (Task, error)

	// ToggleDone sets the done flag of a task.
	ToggleDone(ctx context.Context, id string, done bool) (Task, error)

	// DeleteTask deletes a task. Deleting an unknown id fails with ErrNotFound.
	DeleteTask(ctx context.Context, id string) error
}

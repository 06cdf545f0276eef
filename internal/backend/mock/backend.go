// Package mock implements the service.Service interface with an in-memory
// simulation of the TidyUp API for offline development.
package mock

import (
	"context"
	"strings"
	"time"

	"tidyup/internal/service"
)

// Backend implements service.Service on a Store. The logged-in account is
// held by the store, the way a server holds a session.
type Backend struct {
	store   *Store
	latency time.Duration
}

// Option configures a Backend.
type Option func(*Backend)

// WithLatency sets the artificial delay applied to every call.
func WithLatency(d time.Duration) Option {
	return func(b *Backend) { b.latency = d }
}

// New creates a backend on store.
func New(store *Store, opts ...Option) *Backend {
	b := &Backend{store: store}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Store returns the underlying store.
func (b *Backend) Store() *Store { return b.store }

func (b *Backend) wait(ctx context.Context) error {
	if b.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return &service.Error{Kind: service.ErrNetwork, Err: err}
		}
		return nil
	}
	timer := time.NewTimer(b.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return &service.Error{Kind: service.ErrNetwork, Err: ctx.Err()}
	}
}

func (b *Backend) current() (service.User, error) {
	id := b.store.session()
	if id == "" {
		return service.User{}, unauthorized()
	}
	u, err := b.store.User(id)
	if err != nil || !u.IsActive() {
		return service.User{}, unauthorized()
	}
	return u, nil
}

// Login implements service.Service.
func (b *Backend) Login(ctx context.Context, creds service.Credentials) (service.AuthResponse, error) {
	if err := b.wait(ctx); err != nil {
		return service.AuthResponse{}, err
	}
	u, token, err := b.store.Authenticate(creds)
	if err != nil {
		return service.AuthResponse{}, err
	}
	if err := b.store.setSession(u.ID); err != nil {
		return service.AuthResponse{}, err
	}
	return service.AuthResponse{Token: token, User: &u}, nil
}

// Logout implements service.Service.
func (b *Backend) Logout(ctx context.Context) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	return b.store.setSession("")
}

// Me implements service.Service.
func (b *Backend) Me(ctx context.Context) (service.User, error) {
	if err := b.wait(ctx); err != nil {
		return service.User{}, err
	}
	return b.current()
}

// UpdateMe implements service.Service.
func (b *Backend) UpdateMe(ctx context.Context, in service.UpdateMe) (service.User, error) {
	if err := b.wait(ctx); err != nil {
		return service.User{}, err
	}
	u, err := b.current()
	if err != nil {
		return service.User{}, err
	}
	return b.store.UpdateProfile(u.ID, in)
}

// ListUsers implements service.Service.
func (b *Backend) ListUsers(ctx context.Context) ([]service.User, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	u, err := b.current()
	if err != nil {
		return nil, err
	}
	return b.store.Users(u.ID)
}

// UpdateUser implements service.Service.
func (b *Backend) UpdateUser(ctx context.Context, id string, in service.UpdateUser) (service.User, error) {
	if err := b.wait(ctx); err != nil {
		return service.User{}, err
	}
	u, err := b.current()
	if err != nil {
		return service.User{}, err
	}
	return b.store.UpdateUser(u.ID, service.ID(strings.TrimSpace(id)), in)
}

// ListTasks implements service.Service.
func (b *Backend) ListTasks(ctx context.Context) ([]service.Task, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if _, err := b.current(); err != nil {
		return nil, err
	}
	return b.store.Tasks(), nil
}

// CreateTask implements service.Service.
func (b *Backend) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	if err := b.wait(ctx); err != nil {
		return service.Task{}, err
	}
	if _, err := b.current(); err != nil {
		return service.Task{}, err
	}
	return b.store.CreateTask(in)
}

// UpdateTask implements service.Service.
func (b *Backend) UpdateTask(ctx context.Context, id string, in service.TaskUpdateInput) (service.Task, error) {
	if err := b.wait(ctx); err != nil {
		return service.Task{}, err
	}
	if _, err := b.current(); err != nil {
		return service.Task{}, err
	}
	return b.store.UpdateTask(service.ID(strings.TrimSpace(id)), in)
}

// ToggleDone implements service.Service.
func (b *Backend) ToggleDone(ctx context.Context, id string, done bool) (service.Task, error) {
	if err := b.wait(ctx); err != nil {
		return service.Task{}, err
	}
	if _, err := b.current(); err != nil {
		return service.Task{}, err
	}
	return b.store.SetDone(service.ID(strings.TrimSpace(id)), done)
}

// DeleteTask implements service.Service.
func (b *Backend) DeleteTask(ctx context.Context, id string) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	if _, err := b.current(); err != nil {
		return err
	}
	return b.store.DeleteTask(service.ID(strings.TrimSpace(id)))
}

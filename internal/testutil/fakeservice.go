// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"tidyup/internal/service"
)

// Seeded accounts.
const (
	AdminID    = "1"
	AdminEmail = "admin@example.com"
	UserID     = "2"
	UserEmail  = "user@example.com"
	Password   = "secret"
)

// FakeService is an in-memory implementation of service.Service for testing.
// The signed-in account is held by the fake, the way a server holds a session.
type FakeService struct {
	mu        sync.RWMutex
	users     []service.User
	passwords map[string]string // email -> password
	session   service.ID
	tasks     []service.Task
	nextID    int
	calls     map[string]int

	// Error injection for testing
	LoginErr      error
	LogoutErr     error
	MeErr         error
	UpdateMeErr   error
	ListUsersErr  error
	UpdateUserErr error
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	ToggleDoneErr error
	DeleteTaskErr error

	// MeGate, when set, makes Me block until it is closed or ctx ends. The
	// answer is for the account signed in when Me was called.
	MeGate chan struct{}

	// LoginGates makes Login for the keyed email block until the channel is
	// closed or ctx ends. Set it before any call.
	LoginGates map[string]chan struct{}
}

// NewFakeService creates a FakeService with one ADMIN and one USER account,
// both using Password, and no tasks.
func NewFakeService() *FakeService {
	return &FakeService{
		users: []service.User{
			{ID: AdminID, Email: AdminEmail, Name: "Ada Admin", Role: service.RoleAdmin},
			{ID: UserID, Email: UserEmail, Name: "Uma User", Role: service.RoleUser},
		},
		passwords: map[string]string{
			AdminEmail: Password,
			UserEmail:  Password,
		},
		nextID: 1,
		calls:  make(map[string]int),
	}
}

// SetSession signs in the account with id without going through Login.
func (f *FakeService) SetSession(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = service.ID(id)
}

// Session returns the signed-in account id, or "".
func (f *FakeService) Session() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return string(f.session)
}

// AddTask appends a task and returns its id.
func (f *FakeService) AddTask(title string, done bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newIDLocked()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Done: done, CreatedAt: "2026-01-01"})
	return string(id)
}

// Tasks returns a snapshot of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *FakeService) newIDLocked() service.ID {
	id := service.ID(strconv.Itoa(f.nextID))
	f.nextID++
	return id
}

func (f *FakeService) currentLocked() (int, error) {
	if f.session == "" {
		return -1, service.Errorf(service.ErrAuth, "not logged in")
	}
	for i, u := range f.users {
		if u.ID == f.session {
			return i, nil
		}
	}
	return -1, service.Errorf(service.ErrAuth, "unknown session")
}

func (f *FakeService) taskIndexLocked(id string) int {
	for i, t := range f.tasks {
		if string(t.ID) == id {
			return i
		}
	}
	return -1
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.AuthResponse, error) {
	f.record("Login")
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if gate := f.LoginGates[email]; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return service.AuthResponse{}, &service.Error{Kind: service.ErrNetwork, Err: ctx.Err()}
		}
	}
	if f.LoginErr != nil {
		return service.AuthResponse{}, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	pw, ok := f.passwords[email]
	if !ok || pw != creds.Password {
		return service.AuthResponse{}, &service.Error{Kind: service.ErrAuth, Status: 401, Message: "invalid credentials"}
	}
	for _, u := range f.users {
		if u.Email == email {
			f.session = u.ID
			user := u
			return service.AuthResponse{Token: "fake-token-" + string(u.ID), User: &user}, nil
		}
	}
	return service.AuthResponse{}, service.Errorf(service.ErrAuth, "invalid credentials")
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	f.record("Logout")
	f.mu.Lock()
	f.session = ""
	f.mu.Unlock()
	return f.LogoutErr
}

// Me implements service.Service.
func (f *FakeService) Me(ctx context.Context) (service.User, error) {
	f.record("Me")
	f.mu.RLock()
	var u service.User
	i, err := f.currentLocked()
	if err == nil {
		u = f.users[i]
	}
	f.mu.RUnlock()

	if f.MeGate != nil {
		select {
		case <-f.MeGate:
		case <-ctx.Done():
			return service.User{}, &service.Error{Kind: service.ErrNetwork, Err: ctx.Err()}
		}
	}
	if f.MeErr != nil {
		return service.User{}, f.MeErr
	}
	return u, err
}

// UpdateMe implements service.Service.
func (f *FakeService) UpdateMe(ctx context.Context, in service.UpdateMe) (service.User, error) {
	f.record("UpdateMe")
	if f.UpdateMeErr != nil {
		return service.User{}, f.UpdateMeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.currentLocked()
	if err != nil {
		return service.User{}, err
	}
	if in.Name != nil {
		f.users[i].Name = *in.Name
	}
	if in.Email != nil {
		f.users[i].Email = *in.Email
	}
	return f.users[i], nil
}

// ListUsers implements service.Service.
func (f *FakeService) ListUsers(ctx context.Context) ([]service.User, error) {
	f.record("ListUsers")
	if f.ListUsersErr != nil {
		return nil, f.ListUsersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, err := f.currentLocked(); err != nil {
		return nil, err
	}
	out := make([]service.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

// UpdateUser implements service.Service.
func (f *FakeService) UpdateUser(ctx context.Context, id string, in service.UpdateUser) (service.User, error) {
	f.record("UpdateUser")
	if f.UpdateUserErr != nil {
		return service.User{}, f.UpdateUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.currentLocked(); err != nil {
		return service.User{}, err
	}
	for i, u := range f.users {
		if string(u.ID) != id {
			continue
		}
		if in.Role != nil {
			f.users[i].Role = *in.Role
		}
		if in.Active != nil {
			active := *in.Active
			f.users[i].Active = &active
		}
		return f.users[i], nil
	}
	return service.User{}, service.Errorf(service.ErrNotFound, "user %s not found", id)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, err := f.currentLocked(); err != nil {
		return nil, err
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.currentLocked(); err != nil {
		return service.Task{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return service.Task{}, service.Errorf(service.ErrValidation, "title is required")
	}
	t := service.Task{
		ID:          f.newIDLocked(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Location:    in.Location,
		CreatedAt:   "2026-01-01",
	}
	f.tasks = append([]service.Task{t}, f.tasks...)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, in service.TaskUpdateInput) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.currentLocked(); err != nil {
		return service.Task{}, err
	}
	i := f.taskIndexLocked(id)
	if i < 0 {
		return service.Task{}, service.Errorf(service.ErrNotFound, "task %s not found", id)
	}
	t := &f.tasks[i]
	t.Title = in.Title
	t.Description = in.Description
	t.DueDate = in.DueDate
	t.Priority = in.Priority
	t.Location = in.Location
	if in.Done != nil {
		t.Done = *in.Done
	}
	return *t, nil
}

// ToggleDone implements service.Service.
func (f *FakeService) ToggleDone(ctx context.Context, id string, done bool) (service.Task, error) {
	f.record("ToggleDone")
	if f.ToggleDoneErr != nil {
		return service.Task{}, f.ToggleDoneErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.currentLocked(); err != nil {
		return service.Task{}, err
	}
	i := f.taskIndexLocked(id)
	if i < 0 {
		return service.Task{}, service.Errorf(service.ErrNotFound, "task %s not found", id)
	}
	f.tasks[i].Done = done
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.currentLocked(); err != nil {
		return err
	}
	i := f.taskIndexLocked(id)
	if i < 0 {
		return service.Errorf(service.ErrNotFound, "task %s not found", id)
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

var _ service.Service = (*FakeService)(nil)

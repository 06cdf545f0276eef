// Package httpapi implements the service.Service interface against the
// TidyUp HTTP API.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"tidyup/internal/service"
)

const (
	authBase  = "/auth"
	usersBase = "/users"
	tasksBase = "/tasks"
)

// Client implements service.Service over a Transport.
type Client struct {
	t *Transport
}

// New creates a client for the API at baseURL. Each request is bounded by
// timeout and carries the bearer token from tokens when one is stored.
func New(baseURL string, timeout time.Duration, tokens oauth2.TokenSource, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: timeout}
	return NewWithTransport(NewTransport(baseURL, httpClient, tokens, logger))
}

// NewWithTransport creates a client on an existing transport (for testing).
func NewWithTransport(t *Transport) *Client {
	return &Client{t: t}
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.AuthResponse, error) {
	var resp service.AuthResponse
	if err := c.t.Send(ctx, http.MethodPost, authBase+"/login", creds, &resp); err != nil {
		return service.AuthResponse{}, err
	}
	return resp, nil
}

// Logout implements service.Service.
func (c *Client) Logout(ctx context.Context) error {
	return c.t.Send(ctx, http.MethodPost, authBase+"/logout", nil, nil)
}

// Me implements service.Service.
func (c *Client) Me(ctx context.Context) (service.User, error) {
	var u service.User
	err := c.t.Send(ctx, http.MethodGet, usersBase+"/me", nil, &u)
	return u, err
}

// UpdateMe implements service.Service.
func (c *Client) UpdateMe(ctx context.Context, in service.UpdateMe) (service.User, error) {
	var u service.User
	err := c.t.Send(ctx, http.MethodPut, usersBase+"/me", in, &u)
	return u, err
}

// ListUsers implements service.Service.
func (c *Client) ListUsers(ctx context.Context) ([]service.User, error) {
	var users []service.User
	if err := c.t.Send(ctx, http.MethodGet, usersBase, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser implements service.Service.
func (c *Client) UpdateUser(ctx context.Context, id string, in service.UpdateUser) (service.User, error) {
	var u service.User
	err := c.t.Send(ctx, http.MethodPatch, itemPath(usersBase, id), in, &u)
	return u, err
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.t.Send(ctx, http.MethodGet, tasksBase, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	err := c.t.Send(ctx, http.MethodPost, tasksBase, in, &task)
	return task, err
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, in service.TaskUpdateInput) (service.Task, error) {
	var task service.Task
	err := c.t.Send(ctx, http.MethodPut, itemPath(tasksBase, id), in, &task)
	return task, err
}

// ToggleDone implements service.Service.
func (c *Client) ToggleDone(ctx context.Context, id string, done bool) (service.Task, error) {
	var task service.Task
	body := struct {
		Done bool `json:"done"`
	}{done}
	err := c.t.Send(ctx, http.MethodPatch, itemPath(tasksBase, id)+"/done", body, &task)
	return task, err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.t.Send(ctx, http.MethodDelete, itemPath(tasksBase, id), nil, nil)
}

func itemPath(base, id string) string {
	return fmt.Sprintf("%s/%s", base, url.PathEscape(id))
}

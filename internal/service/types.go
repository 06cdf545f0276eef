package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a user role.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("invalid role: %s", s)
}

// Priority is a task priority. The empty value means "none".
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority parses a priority name case-insensitively.
// "none" and the empty string map to PriorityNone.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	case PriorityNone, "NONE":
		return PriorityNone, nil
	}
	return "", fmt.Errorf("invalid priority: %s", s)
}

// ID is a resource identifier. The API may send ids as JSON numbers or
// strings; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// User is a user account as returned by the API.
type User struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      Role   `json:"role"`
	Active    *bool  `json:"active,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// IsActive reports whether the account is active. A missing flag means active.
func (u User) IsActive() bool {
	return u.Active == nil || *u.Active
}

// DisplayName returns the name, falling back to the email.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// Task is a single cleaning task.
type Task struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Done        bool     `json:"done"`
	DueDate     string   `json:"dueDate,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// TaskUpdateInput is the payload for updating a task.
type TaskUpdateInput struct {
	TaskInput
	Done *bool `json:"done,omitempty"`
}

// Credentials are a login request. Never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the login response. User may be absent, in which case
// the caller resolves the identity with Me.
type AuthResponse struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// UpdateMe is the payload for updating the current user's profile.
type UpdateMe struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateUser is the payload for an admin update of another account.
type UpdateUser struct {
	Role   *Role `json:"role,omitempty"`
	Active *bool `json:"active,omitempty"`
}

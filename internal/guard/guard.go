// Package guard decides whether a command may run given the session.
package guard

import (
	"tidyup/internal/service"
	"tidyup/internal/session"
)

// HomeCommand is where a role redirect sends the user.
const HomeCommand = "tasks"

// Kind is the outcome of a guard check.
type Kind int

const (
	// Allow lets the command run.
	Allow Kind = iota
	// Loading means the session is still resolving; check again later.
	Loading
	// RedirectLogin means there is no session.
	RedirectLogin
	// RedirectHome means the session lacks the required role.
	RedirectHome
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Decision is the result of a guard. From records the command the user
// asked for when redirected to login.
type Decision struct {
	Kind Kind
	From string
	Role service.Role
}

// Allowed reports whether the decision lets the command run.
func (d Decision) Allowed() bool { return d.Kind == Allow }

// Session is the read side of the session store.
type Session interface {
	State() session.State
	Identity() (service.User, bool)
}

// RequireAuth allows authenticated sessions. A resolving session yields
// Loading, never a redirect.
func RequireAuth(s Session, from string) Decision {
	switch s.State() {
	case session.Resolving:
		return Decision{Kind: Loading}
	case session.Authenticated:
		return Decision{Kind: Allow}
	}
	return Decision{Kind: RedirectLogin, From: from}
}

// RequireRole allows identities holding role. ADMIN satisfies every role.
func RequireRole(s Session, role service.Role) Decision {
	u, ok := s.Identity()
	if !ok {
		return Decision{Kind: RedirectLogin}
	}
	if u.Role == service.RoleAdmin || u.Role == role {
		return Decision{Kind: Allow}
	}
	return Decision{Kind: RedirectHome, Role: role}
}

// Chain returns the first decision that is not Allow.
func Chain(decisions ...Decision) Decision {
	for _, d := range decisions {
		if !d.Allowed() {
			return d
		}
	}
	return Decision{Kind: Allow}
}

// Requirement is the access level a command declares.
type Requirement struct {
	// Auth requires a session.
	Auth bool
	// Role, when set, also requires the role.
	Role service.Role
}

var (
	// Public needs no session.
	Public = Requirement{}
	// Authenticated needs any session.
	Authenticated = Requirement{Auth: true}
	// User needs the USER role (or ADMIN).
	User = Requirement{Auth: true, Role: service.RoleUser}
	// Admin needs the ADMIN role.
	Admin = Requirement{Auth: true, Role: service.RoleAdmin}
)

// Check evaluates r against s. from names the requested command.
func (r Requirement) Check(s Session, from string) Decision {
	if !r.Auth {
		return Decision{Kind: Allow}
	}
	auth := RequireAuth(s, from)
	if !auth.Allowed() || r.Role == "" {
		return auth
	}
	return Chain(auth, RequireRole(s, r.Role))
}

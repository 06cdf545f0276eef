// Package session holds the signed-in identity and the state machine that
// resolves it from the stored token.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"tidyup/internal/credential"
	"tidyup/internal/service"
)

// State is the resolution state of the session.
type State int

const (
	// Unresolved means Start has not been called.
	Unresolved State = iota
	// Resolving means an identity lookup is in flight.
	Resolving
	// Authenticated means an identity is known.
	Authenticated
	// Anonymous means there is no session.
	Anonymous
)

var stateNames = [...]string{"unresolved", "resolving", "authenticated", "anonymous"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// ErrSuperseded is returned by a Login overtaken by a newer Login or a
// Logout before it finished.
var ErrSuperseded = errors.New("session: superseded by a newer sign-in")

// Tokens persists the bearer token. *credential.Store implements it.
type Tokens interface {
	Load() (*oauth2.Token, error)
	SaveAccessToken(accessToken string) error
	Clear() error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for state transitions and swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the time source used for local token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the single owner of the session. All transitions go through its
// methods; readers get snapshots.
type Store struct {
	svc    service.Service
	tokens Tokens
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group

	mu       sync.Mutex
	state    State
	identity *service.User
	gen      uint64
	settled  chan struct{} // closed when the current Resolving phase ends
}

// New creates a store in the Unresolved state.
func New(svc service.Service, tokens Tokens, opts ...Option) *Store {
	s := &Store{
		svc:     svc,
		tokens:  tokens,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		state:   Unresolved,
		settled: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins resolving the session from the stored token. It only acts
// from Unresolved; later calls return the current state. Without a usable
// token the store becomes Anonymous with no network call. Otherwise the
// lookup runs in the background and Start returns Resolving.
func (s *Store) Start(ctx context.Context) State {
	s.mu.Lock()
	if s.state != Unresolved {
		st := s.state
		s.mu.Unlock()
		return st
	}

	tok, err := s.tokens.Load()
	switch {
	case errors.Is(err, credential.ErrNoToken):
		s.setLocked(Anonymous, nil)
		s.mu.Unlock()
		return Anonymous
	case err != nil:
		s.logger.Debug("stored token unreadable", "error", err)
		s.clearToken()
		s.setLocked(Anonymous, nil)
		s.mu.Unlock()
		return Anonymous
	case credential.Expired(tok, s.now()):
		s.logger.Debug("stored token expired")
		s.clearToken()
		s.setLocked(Anonymous, nil)
		s.mu.Unlock()
		return Anonymous
	}

	gen := s.enterResolvingLocked(true)
	s.mu.Unlock()

	go s.resolve(ctx, gen)
	return Resolving
}

// Login authenticates with creds, stores the returned token and resolves
// the identity. Blank credentials fail validation without changing state.
// Any other failure leaves the store Anonymous with no stored token. A
// Login that is superseded touches neither the state nor the token.
func (s *Store) Login(ctx context.Context, creds service.Credentials) (service.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return service.User{}, service.Errorf(service.ErrValidation, "email and password are required")
	}

	s.mu.Lock()
	gen := s.enterResolvingLocked(false)
	s.mu.Unlock()

	resp, err := s.svc.Login(ctx, creds)
	if err == nil && resp.Token == "" {
		err = service.Errorf(service.ErrServer, "login response carried no token")
	}
	if err != nil {
		s.fail(gen, err)
		return service.User{}, err
	}
	if err := s.saveToken(gen, resp.Token); err != nil {
		s.fail(gen, err)
		return service.User{}, err
	}

	// A lookup started with the previous token must not answer for this one.
	s.group.Forget(meKey)
	u, settled, err := s.resolve(ctx, gen)
	switch {
	case !settled:
		return service.User{}, ErrSuperseded
	case err != nil:
		s.clearToken()
		return service.User{}, err
	}
	return u, nil
}

// Logout ends the session. The stored token is cleared and the store
// becomes Anonymous whatever the server answers; the server's error is
// returned for reporting.
func (s *Store) Logout(ctx context.Context) error {
	err := s.svc.Logout(ctx)
	if err != nil {
		s.logger.Debug("logout request failed", "error", err)
	}
	s.clearToken()

	s.mu.Lock()
	s.gen++
	s.setLocked(Anonymous, nil)
	s.mu.Unlock()
	return err
}

// RefreshMe re-reads the identity. On failure the store becomes Anonymous;
// an auth failure also clears the stored token, other failures keep it so
// a later call can retry.
func (s *Store) RefreshMe(ctx context.Context) (service.User, error) {
	if _, err := s.tokens.Load(); err != nil {
		s.mu.Lock()
		s.gen++
		s.setLocked(Anonymous, nil)
		s.mu.Unlock()
		return service.User{}, service.Errorf(service.ErrAuth, "not logged in")
	}

	s.mu.Lock()
	gen := s.enterResolvingLocked(true)
	s.mu.Unlock()
	u, _, err := s.resolve(ctx, gen)
	return u, err
}

// Wait blocks until the store is not Resolving and returns the state.
func (s *Store) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state != Resolving {
		st := s.state
		s.mu.Unlock()
		return st, nil
	}
	ch := s.settled
	s.mu.Unlock()

	select {
	case <-ch:
		return s.State(), nil
	case <-ctx.Done():
		return Resolving, ctx.Err()
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns a copy of the signed-in account, if any.
func (s *Store) Identity() (service.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return service.User{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether an identity is known.
func (s *Store) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// IsAdmin reports whether the identity has the ADMIN role.
func (s *Store) IsAdmin() bool {
	u, ok := s.Identity()
	return ok && u.Role == service.RoleAdmin
}

// IsLoading reports whether a resolution is in flight.
func (s *Store) IsLoading() bool {
	return s.State() == Resolving
}

const meKey = "me"

// resolve looks up the identity; concurrent lookups share one request.
// settled reports whether phase gen still owned the store and took the
// result.
func (s *Store) resolve(ctx context.Context, gen uint64) (u service.User, settled bool, err error) {
	v, err, shared := s.group.Do(meKey, func() (any, error) {
		return s.svc.Me(ctx)
	})
	if err != nil {
		s.logger.Debug("session resolution failed", "error", err, "shared", shared)
		settled = s.settle(gen, Anonymous, nil)
		if settled && service.IsAuth(err) {
			s.clearToken()
		}
		return service.User{}, settled, err
	}
	u = v.(service.User)
	return u, s.settle(gen, Authenticated, &u), nil
}

// saveToken stores token unless phase gen has been superseded.
func (s *Store) saveToken(gen uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrSuperseded
	}
	return s.tokens.SaveAccessToken(token)
}

// fail ends login phase gen. The token is only cleared while gen still owns
// the store, so a superseded login cannot remove a newer one's token.
func (s *Store) fail(gen uint64, err error) {
	s.logger.Debug("login failed", "error", err)
	if s.settle(gen, Anonymous, nil) {
		s.clearToken()
	}
}

func (s *Store) clearToken() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Debug("clear token failed", "error", err)
	}
}

// enterResolvingLocked moves to Resolving and returns the phase's
// generation. With join, a phase already in progress keeps its generation;
// without, it is superseded and its result dropped.
func (s *Store) enterResolvingLocked(join bool) uint64 {
	if s.state == Resolving {
		if !join {
			s.gen++
		}
		return s.gen
	}
	s.gen++
	s.settled = make(chan struct{})
	s.transitionLocked(Resolving, nil)
	return s.gen
}

// settle ends the Resolving phase gen and reports whether it applied.
// Results of a superseded phase are dropped.
func (s *Store) settle(gen uint64, st State, u *service.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != Resolving {
		return false
	}
	s.setLocked(st, u)
	return true
}

func (s *Store) setLocked(st State, u *service.User) {
	was := s.state
	s.transitionLocked(st, u)
	if was == Resolving {
		close(s.settled)
	}
}

func (s *Store) transitionLocked(st State, u *service.User) {
	if s.state != st {
		s.logger.Debug("session state", "from", s.state.String(), "to", st.String())
	}
	s.state = st
	s.identity = u
}

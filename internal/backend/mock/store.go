package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tidyup/internal/service"
)

const (
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL = 24 * time.Hour

	tokenIssuer = "tidyup-mock"
	dateLayout  = "2006-01-02"
)

// DefaultSecret signs mock tokens unless WithSecret is given.
var DefaultSecret = []byte("tidyup-mock-secret")

type userRecord struct {
	service.User
	PasswordHash string `json:"passwordHash"`
}

// state is everything the mock server owns. It is what gets persisted.
type state struct {
	Users      []userRecord   `json:"users"`
	Tasks      []service.Task `json:"tasks"`
	NextTaskID int            `json:"nextTaskId"`

	// Session is the user logged in through Backend, if any.
	Session service.ID `json:"session,omitempty"`
}

// Store is the simulated server: accounts, tasks and token issuance.
// Operations take the acting user explicitly; Backend and the HTTP mock
// server decide who that is.
type Store struct {
	mu        sync.Mutex
	st        state
	secret    []byte
	statePath string
	now       func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStatePath persists the store to path after every mutation and loads
// it from there on creation when the file exists.
func WithStatePath(path string) StoreOption {
	return func(s *Store) { s.statePath = path }
}

// WithSecret sets the HMAC key used to sign tokens.
func WithSecret(secret []byte) StoreOption {
	return func(s *Store) { s.secret = secret }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store seeded with development fixtures, or loaded
// from the state file when one is configured and present.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{secret: DefaultSecret, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := s.load()
	if err != nil {
		return nil, err
	}
	if !loaded {
		st, err := seedState()
		if err != nil {
			return nil, fmt.Errorf("seed mock state: %w", err)
		}
		s.st = st
	}
	return s, nil
}

func (s *Store) load() (bool, error) {
	if s.statePath == "" {
		return false, nil
	}
	data, err := os.ReadFile(s.statePath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read mock state: %w", err)
	}
	if err := json.Unmarshal(data, &s.st); err != nil {
		return false, fmt.Errorf("invalid %s: %w", filepath.Base(s.statePath), err)
	}
	return true, nil
}

// save must be called with mu held.
func (s *Store) save() error {
	if s.statePath == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.statePath), 0700); err != nil {
		return &service.Error{Kind: service.ErrServer, Message: "persist mock state", Err: err}
	}
	if err := os.WriteFile(s.statePath, data, 0600); err != nil {
		return &service.Error{Kind: service.ErrServer, Message: "persist mock state", Err: err}
	}
	return nil
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

// Authenticate checks credentials and issues a token for the account.
func (s *Store) Authenticate(creds service.Credentials) (service.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.TrimSpace(creds.Email)
	for _, u := range s.st.Users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
			break
		}
		if !u.IsActive() {
			return service.User{}, "", invalidCredentials("account disabled")
		}
		token, err := s.issue(u.ID)
		if err != nil {
			return service.User{}, "", &service.Error{Kind: service.ErrServer, Status: http.StatusInternalServerError, Err: err}
		}
		return u.User, token, nil
	}
	return service.User{}, "", invalidCredentials("invalid credentials")
}

func (s *Store) issue(id service.ID) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   string(id),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})
	return tok.SignedString(s.secret)
}

// VerifyToken returns the active account a token was issued to.
func (s *Store) VerifyToken(raw string) (service.User, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return service.User{}, &service.Error{Kind: service.ErrAuth, Status: http.StatusUnauthorized, Message: "invalid token", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.findUser(service.ID(claims.Subject))
	if !ok || !u.IsActive() {
		return service.User{}, unauthorized()
	}
	return u.User, nil
}

// User returns an account by id.
func (s *Store) User(id service.ID) (service.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.findUser(id)
	if !ok {
		return service.User{}, notFound("user")
	}
	return u.User, nil
}

// UpdateProfile changes the name or email of account id. Blank values are ignored.
func (s *Store) UpdateProfile(id service.ID, in service.UpdateMe) (service.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return service.User{}, unauthorized()
	}
	u := s.st.Users[i]
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email := strings.TrimSpace(*in.Email)
		for j, other := range s.st.Users {
			if j != i && strings.EqualFold(other.Email, email) {
				return service.User{}, &service.Error{Kind: service.ErrServer, Status: http.StatusConflict, Message: "email already in use"}
			}
		}
		u.Email = email
	}
	prev := s.st.Users[i]
	s.st.Users[i] = u
	if err := s.save(); err != nil {
		s.st.Users[i] = prev
		return service.User{}, err
	}
	return u.User, nil
}

// Users lists all accounts. actor must be an admin.
func (s *Store) Users(actor service.ID) ([]service.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	users := make([]service.User, len(s.st.Users))
	for i, u := range s.st.Users {
		users[i] = u.User
	}
	return users, nil
}

// UpdateUser changes another account's role or active flag. actor must be an admin.
func (s *Store) UpdateUser(actor, id service.ID, in service.UpdateUser) (service.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(actor); err != nil {
		return service.User{}, err
	}
	i := s.userIndex(id)
	if i < 0 {
		return service.User{}, notFound("user")
	}
	u := &s.st.Users[i]
	if in.Role != nil {
		if *in.Role != service.RoleAdmin && *in.Role != service.RoleUser {
			return service.User{}, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: "invalid role"}
		}
		u.Role = *in.Role
	}
	if in.Active != nil {
		u.Active = boolPtr(*in.Active)
	}
	if err := s.save(); err != nil {
		return service.User{}, err
	}
	return u.User, nil
}

// Tasks returns a copy of all tasks, newest first.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]service.Task, len(s.st.Tasks))
	copy(tasks, s.st.Tasks)
	return tasks
}

// CreateTask adds a task with a new id, done=false and today's createdAt.
func (s *Store) CreateTask(in service.TaskInput) (service.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return service.Task{}, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: "title is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.NextTaskID < 1 {
		s.st.NextTaskID = len(s.st.Tasks) + 1
	}
	task := service.Task{
		ID:          service.ID(strconv.Itoa(s.st.NextTaskID)),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Location:    in.Location,
		CreatedAt:   s.today(),
	}
	s.st.NextTaskID++
	s.st.Tasks = append([]service.Task{task}, s.st.Tasks...)
	if err := s.save(); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces the editable fields of task id.
func (s *Store) UpdateTask(id service.ID, in service.TaskUpdateInput) (service.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return service.Task{}, &service.Error{Kind: service.ErrValidation, Status: http.StatusBadRequest, Message: "title is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return service.Task{}, notFound("task")
	}
	t := &s.st.Tasks[i]
	t.Title = strings.TrimSpace(in.Title)
	t.Description = in.Description
	t.DueDate = in.DueDate
	t.Priority = in.Priority
	t.Location = in.Location
	if in.Done != nil {
		t.Done = *in.Done
	}
	t.UpdatedAt = s.today()
	if err := s.save(); err != nil {
		return service.Task{}, err
	}
	return *t, nil
}

// SetDone sets the done flag of task id.
func (s *Store) SetDone(id service.ID, done bool) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return service.Task{}, notFound("task")
	}
	t := &s.st.Tasks[i]
	t.Done = done
	t.UpdatedAt = s.today()
	if err := s.save(); err != nil {
		return service.Task{}, err
	}
	return *t, nil
}

// DeleteTask removes task id. Unknown ids fail with ErrNotFound.
func (s *Store) DeleteTask(id service.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return notFound("task")
	}
	s.st.Tasks = append(s.st.Tasks[:i], s.st.Tasks[i+1:]...)
	return s.save()
}

func (s *Store) session() service.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Session
}

func (s *Store) setSession(id service.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Session = id
	return s.save()
}

func (s *Store) requireAdmin(actor service.ID) error {
	u, ok := s.findUser(actor)
	if !ok {
		return unauthorized()
	}
	if u.Role != service.RoleAdmin {
		return &service.Error{Kind: service.ErrServer, Status: http.StatusForbidden, Message: "forbidden"}
	}
	return nil
}

func (s *Store) findUser(id service.ID) (userRecord, bool) {
	if i := s.userIndex(id); i >= 0 {
		return s.st.Users[i], true
	}
	return userRecord{}, false
}

func (s *Store) userIndex(id service.ID) int {
	if id == "" {
		return -1
	}
	for i, u := range s.st.Users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(id service.ID) int {
	for i, t := range s.st.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(what string) error {
	return &service.Error{Kind: service.ErrNotFound, Status: http.StatusNotFound, Message: what + " not found"}
}

func unauthorized() error {
	return &service.Error{Kind: service.ErrAuth, Status: http.StatusUnauthorized, Message: "unauthorized"}
}

func invalidCredentials(msg string) error {
	return &service.Error{Kind: service.ErrAuth, Status: http.StatusUnauthorized, Message: msg}
}

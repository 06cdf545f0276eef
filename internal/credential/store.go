// Package credential persists the bearer token between invocations.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no token is stored.
var ErrNoToken = errors.New("no stored token")

// Store reads and writes the token file. The file is created with mode 0600.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored token. Returns ErrNoToken if the file is missing
// or holds an empty access token.
func (s *Store) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(s.path), err)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}

// Token implements oauth2.TokenSource.
func (s *Store) Token() (*oauth2.Token, error) {
	return s.Load()
}

// Save writes a bearer token, creating the parent directory if needed.
func (s *Store) Save(tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return errors.New("empty token")
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	if tok.Expiry.IsZero() {
		if exp, ok := jwtExpiry(tok.AccessToken); ok {
			tok.Expiry = exp
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// SaveAccessToken stores a raw access token as a bearer token.
func (s *Store) SaveAccessToken(accessToken string) error {
	return s.Save(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Expired reports whether tok is known to be expired at now. The expiry comes
// from the token's own Expiry field or, for JWT access tokens, from the
// unverified exp claim. Tokens without any expiry never expire locally.
func Expired(tok *oauth2.Token, now time.Time) bool {
	if tok == nil {
		return true
	}
	exp := tok.Expiry
	if exp.IsZero() {
		var ok bool
		exp, ok = jwtExpiry(tok.AccessToken)
		if !ok {
			return false
		}
	}
	return !now.Before(exp)
}

// jwtExpiry decodes the exp claim without verifying the signature; the
// server remains the authority on validity.
func jwtExpiry(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

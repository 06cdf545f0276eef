package credential_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"tidyup/internal/credential"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestStoreSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := credential.NewStore(path)

	if _, err := store.Load(); !errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	if err := store.SaveAccessToken("opaque-token"); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	tok, err := store.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok.AccessToken != "opaque-token" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear should be a no-op, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := credential.NewStore(path).Load()
	if err == nil || errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSaveRecordsJWTExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := credential.NewStore(path)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	if err := store.SaveAccessToken(signedToken(t, exp)); err != nil {
		t.Fatalf("save: %v", err)
	}
	tok, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !tok.Expiry.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, tok.Expiry)
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()

	if !credential.Expired(&oauth2.Token{AccessToken: signedToken(t, now.Add(-time.Minute))}, now) {
		t.Error("expected past JWT to be expired")
	}
	if credential.Expired(&oauth2.Token{AccessToken: signedToken(t, now.Add(time.Hour))}, now) {
		t.Error("expected future JWT to be valid")
	}
	if credential.Expired(&oauth2.Token{AccessToken: "opaque"}, now) {
		t.Error("opaque tokens never expire locally")
	}
	if !credential.Expired(&oauth2.Token{AccessToken: "opaque", Expiry: now.Add(-time.Second)}, now) {
		t.Error("expected explicit expiry to be honoured")
	}
	if !credential.Expired(nil, now) {
		t.Error("nil token is expired")
	}
}

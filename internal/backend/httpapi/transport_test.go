package httpapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"tidyup/internal/backend/httpapi"
	"tidyup/internal/service"
)

func serve(t *testing.T, status int, body string) (*httpapi.Client, *http.Request) {
	t.Helper()
	var seen http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"})
	return httpapi.New(srv.URL+"/", 0, tokens, nil), &seen
}

func TestSend_AttachesBearerAndRequestID(t *testing.T) {
	c, seen := serve(t, http.StatusOK, `{"id":7,"email":"jan@tidyup.dev","role":"USER"}`)

	u, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if u.ID != "7" {
		t.Errorf("expected numeric id decoded as \"7\", got %q", u.ID)
	}
	if got := seen.Header.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("expected bearer header, got %q", got)
	}
	if seen.Header.Get(httpapi.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
	if seen.URL.Path != "/users/me" {
		t.Errorf("expected /users/me, got %s", seen.URL.Path)
	}
}

func TestSend_NoTokenNoHeader(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := httpapi.New(srv.URL, 0, nil, nil)
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if auth != "" {
		t.Errorf("expected no Authorization header, got %q", auth)
	}
}

func TestSend_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"unauthorized", 401, `{"error":{"code":401,"message":"token expired"}}`, service.ErrAuth, "token expired"},
		{"not found", 404, `{"error":"no such task"}`, service.ErrNotFound, "no such task"},
		{"bad request", 400, `{"message":"title is required"}`, service.ErrValidation, "title is required"},
		{"unprocessable", 422, `{}`, service.ErrValidation, ""},
		{"forbidden", 403, `{"error":{"code":403,"message":"admin role required"}}`, service.ErrServer, "admin role required"},
		{"server", 500, `oops`, service.ErrServer, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := serve(t, tt.status, tt.body)

			_, err := c.ListTasks(context.Background())
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var e *service.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *service.Error, got %T", err)
			}
			if e.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, e.Status)
			}
			if e.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, e.Message)
			}
		})
	}
}

func TestSend_MalformedJSON(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `[{"id":`)

	_, err := c.ListTasks(context.Background())
	if !errors.Is(err, service.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
}

func TestSend_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := httpapi.New(url, 0, nil, nil)
	_, err := c.ListTasks(context.Background())
	if !errors.Is(err, service.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestToggleDone_SendsBody(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		data, _ := io.ReadAll(r.Body)
		if string(data) != `{"done":true}` {
			t.Errorf("unexpected body %s", data)
		}
		io.WriteString(w, `{"id":"3","title":"x","done":true}`)
	}))
	defer srv.Close()

	c := httpapi.New(srv.URL, 0, nil, nil)
	task, err := c.ToggleDone(context.Background(), "3", true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if method != http.MethodPatch || path != "/tasks/3/done" || !task.Done {
		t.Errorf("unexpected call %s %s -> %+v", method, path, task)
	}
}

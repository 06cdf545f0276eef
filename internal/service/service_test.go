package service_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"tidyup/internal/service"
)

func TestErrorMatchesKind(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list tasks: %w", &service.Error{Kind: service.ErrNetwork, Err: cause})

	if !errors.Is(err, service.ErrNetwork) {
		t.Error("expected errors.Is to match ErrNetwork")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}
	if errors.Is(err, service.ErrAuth) {
		t.Error("network error must not match ErrAuth")
	}
}

func TestErrorMessage(t *testing.T) {
	err := &service.Error{Kind: service.ErrNotFound, Status: 404, Message: "task not found"}
	if got := err.Error(); got != "not found (404): task not found" {
		t.Errorf("unexpected message %q", got)
	}
	if service.Status(err) != 404 {
		t.Errorf("expected status 404, got %d", service.Status(err))
	}
	if !service.IsAuth(service.Errorf(service.ErrAuth, "no session")) {
		t.Error("expected IsAuth to be true")
	}
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var tasks []service.Task
	data := `[{"id":7,"title":"a","done":false},{"id":"abc","title":"b","done":true}]`
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tasks[0].ID != "7" || tasks[1].ID != "abc" {
		t.Errorf("unexpected ids %q %q", tasks[0].ID, tasks[1].ID)
	}
}

func TestParsePriority(t *testing.T) {
	cases := map[string]service.Priority{
		"high":   service.PriorityHigh,
		"Medium": service.PriorityMedium,
		"LOW":    service.PriorityLow,
		"none":   service.PriorityNone,
		"":       service.PriorityNone,
	}
	for in, want := range cases {
		got, err := service.ParsePriority(in)
		if err != nil {
			t.Errorf("ParsePriority(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := service.ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestParseRole(t *testing.T) {
	if r, err := service.ParseRole("admin"); err != nil || r != service.RoleAdmin {
		t.Errorf("ParseRole(admin) = %q, %v", r, err)
	}
	if _, err := service.ParseRole("owner"); err == nil {
		t.Error("expected error for unknown role")
	}
}

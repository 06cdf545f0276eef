package mock

import (
	"golang.org/x/crypto/bcrypt"

	"tidyup/internal/service"
)

// DevPassword is the password of every seeded account.
const DevPassword = "tidyup"

func boolPtr(b bool) *bool { return &b }

// seedState returns the development fixtures: one admin, one active user
// and one deactivated user, plus a handful of tasks.
func seedState() (state, error) {
	// MinCost keeps startup fast; these are throwaway development accounts.
	hash, err := bcrypt.GenerateFromPassword([]byte(DevPassword), bcrypt.MinCost)
	if err != nil {
		return state{}, err
	}
	h := string(hash)

	users := []userRecord{
		{User: service.User{ID: "1", Email: "admin@tidyup.dev", Name: "Admin", Role: service.RoleAdmin, Active: boolPtr(true), CreatedAt: "2025-01-01"}, PasswordHash: h},
		{User: service.User{ID: "2", Email: "jan@tidyup.dev", Name: "Jan", Role: service.RoleUser, Active: boolPtr(true), CreatedAt: "2025-01-10"}, PasswordHash: h},
		{User: service.User{ID: "3", Email: "anna@tidyup.dev", Name: "Anna", Role: service.RoleUser, Active: boolPtr(false), CreatedAt: "2025-01-15"}, PasswordHash: h},
	}
	tasks := []service.Task{
		{ID: "1", Title: "Clean the kitchen", Description: "Dishes, counters, floor", DueDate: "2026-02-05", CreatedAt: "2026-01-20", Priority: service.PriorityHigh, Location: "Kitchen"},
		{ID: "2", Title: "Vacuum the living room", Description: "Carpet and sofa", Done: true, DueDate: "2026-01-28", CreatedAt: "2026-01-15", Priority: service.PriorityMedium, Location: "Living room"},
		{ID: "3", Title: "Take out the trash", DueDate: "2026-02-01", CreatedAt: "2026-01-30", Priority: service.PriorityLow, Location: "Hallway"},
	}
	return state{Users: users, Tasks: tasks, NextTaskID: len(tasks) + 1}, nil
}

package store

import (
	"context"
	"time"
)

type EmployeeRecord struct {
	EmployeeID string
	Known      bool
	// Since is when the employee joined the roster. Zero means no known
	// start, so every period applies.
	Since    time.Time
	LastSeen time.Time
}

// EmployeeStore is the roster the owner views iterate over. Identity itself
// is owned by the auth collaborator; this only tracks who exists.
type EmployeeStore interface {
	MarkSeen(ctx context.Context, employeeID string, t time.Time) error
	ListEmployees(ctx context.Context) ([]EmployeeRecord, error)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

// EmployeeRegistry is the roster used by owner views to find employees
// with no records at all in a period.
type EmployeeRegistry struct {
	store store.EmployeeStore
}

func NewEmployeeRegistry(st store.EmployeeStore) *EmployeeRegistry {
	return &EmployeeRegistry{store: st}
}

func (r *EmployeeRegistry) NoteSeen(ctx context.Context, employeeID string, t time.Time) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil
	}
	return r.store.MarkSeen(ctx, employeeID, t.UTC())
}

// Members returns every rostered employee, sorted by ID.
func (r *EmployeeRegistry) Members(ctx context.Context) ([]store.EmployeeRecord, error) {
	return r.store.ListEmployees(ctx)
}

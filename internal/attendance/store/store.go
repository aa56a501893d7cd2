package store

import (
	"context"
	"errors"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrAlreadyClosed = errors.New("record already closed")
)

// AttendanceRecord is one employee's attendance for one company-local day.
// ClockOut and WorkingHours stay nil while the shift is open.
type AttendanceRecord struct {
	ID               string
	EmployeeID       string
	Date             string // policy.DateLayout
	ClockIn          time.Time
	ClockOut         *time.Time
	WorkingHours     *float64
	Status           policy.Status
	IsLate           bool
	IsAutoClockedOut bool
	Location         string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Open reports whether the shift has not been closed yet.
func (r AttendanceRecord) Open() bool { return r.ClockOut == nil }

// CloseFn turns an open record into its closed form. It runs while the store
// holds the record exclusively, so the record it sees is the current one.
type CloseFn func(open AttendanceRecord) (AttendanceRecord, error)

// RecordStore persists attendance records, unique per (EmployeeID, Date).
type RecordStore interface {
	// CreateRecord inserts a new open record. Returns ErrDuplicate when the
	// employee already has a record for that date.
	CreateRecord(ctx context.Context, rec AttendanceRecord) error

	// GetRecord returns ErrNotFound when no record exists.
	GetRecord(ctx context.Context, employeeID, date string) (AttendanceRecord, error)

	// CloseShift atomically re-checks that the record is still open and, if
	// so, persists the result of fn. Returns ErrNotFound or ErrAlreadyClosed
	// without calling fn otherwise.
	CloseShift(ctx context.Context, employeeID, date string, fn CloseFn) (AttendanceRecord, error)

	// ListRange returns records with from ≤ Date ≤ to, ordered by date then
	// employee. An empty employeeID matches every employee.
	ListRange(ctx context.Context, employeeID, from, to string) ([]AttendanceRecord, error)

	// ListOpenThrough returns every open record dated on or before day.
	ListOpenThrough(ctx context.Context, day string) ([]AttendanceRecord, error)

	// ListRecent returns up to limit records, newest date first.
	ListRecent(ctx context.Context, limit int) ([]AttendanceRecord, error)
}

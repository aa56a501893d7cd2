package store

import (
	"context"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
)

// ChangeKind names the transition that produced a change event.
type ChangeKind string

const (
	ChangeClockIn      ChangeKind = "clock_in"
	ChangeClockOut     ChangeKind = "clock_out"
	ChangeAutoClockOut ChangeKind = "auto_clock_out"
)

// ChangeEventRecord is one "record changed" notification. ID is assigned by
// the store and increases monotonically, so consumers can poll with an
// after-ID cursor.
type ChangeEventRecord struct {
	ID         int64
	RecordID   string
	EmployeeID string
	Date       string
	Kind       ChangeKind
	Status     policy.Status
	OccurredAt time.Time
}

// ChangeEventStore is an append-only log read by the notification subsystem.
type ChangeEventStore interface {
	RecordChange(ctx context.Context, ev ChangeEventRecord) error
	ListChanges(ctx context.Context, afterID int64, limit int) ([]ChangeEventRecord, error)
}

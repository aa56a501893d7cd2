package service

import (
	"context"
	"log"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

// emitChange appends a "record changed" event for the notification
// subsystem. Failures are logged and never returned: the attendance
// transition has already been committed and must not be reported as failed.
func emitChange(
	ctx context.Context,
	events store.ChangeEventStore,
	logger *log.Logger,
	rec store.AttendanceRecord,
	kind store.ChangeKind,
	at time.Time,
) {
	if events == nil {
		return
	}
	ev := store.ChangeEventRecord{
		RecordID:   rec.ID,
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date,
		Kind:       kind,
		Status:     rec.Status,
		OccurredAt: at.UTC(),
	}
	if err := events.RecordChange(ctx, ev); err != nil {
		logger.Printf("change event %s for %s/%s not recorded: %v", kind, rec.EmployeeID, rec.Date, err)
	}
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

var tracer = otel.Tracer("github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service")

// ClockInOptions carries the opaque annotations of a clock-in.
type ClockInOptions struct {
	Location string
	Notes    string
}

// ClockService runs the per-(employee, day) state machine:
// no record → open (clock-in) → closed (clock-out or auto clock-out).
type ClockService struct {
	records  store.RecordStore
	events   store.ChangeEventStore
	registry *EmployeeRegistry
	policy   policy.Policy
	clock    policy.Clock
	logger   *log.Logger
}

func NewClockService(
	rs store.RecordStore,
	es store.ChangeEventStore,
	reg *EmployeeRegistry,
	p policy.Policy,
	clock policy.Clock,
	logger *log.Logger,
) *ClockService {
	if clock == nil {
		clock = policy.SystemClock{}
	}
	return &ClockService{records: rs, events: es, registry: reg, policy: p, clock: clock, logger: logger}
}

func (s *ClockService) Policy() policy.Policy { return s.policy }

// ClockIn opens today's shift at the current time.
func (s *ClockService) ClockIn(ctx context.Context, employeeID string, opts ClockInOptions) (store.AttendanceRecord, error) {
	return s.ClockInAt(ctx, employeeID, s.clock.Now(), opts)
}

// ClockInAt opens the shift for the company-local day of now.
func (s *ClockService) ClockInAt(ctx context.Context, employeeID string, now time.Time, opts ClockInOptions) (rec store.AttendanceRecord, err error) {
	ctx, span := tracer.Start(ctx, "ClockService.ClockIn", trace.WithAttributes(attribute.String("employee.id", employeeID)))
	defer func() { endSpan(span, err) }()

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return store.AttendanceRecord{}, ErrInvalidEmployeeID
	}
	day := s.policy.Day(now)

	// Any record for today, open or closed, blocks a second clock-in.
	_, err = s.records.GetRecord(ctx, employeeID, day)
	switch {
	case err == nil:
		return store.AttendanceRecord{}, ErrAlreadyClockedIn
	case !errors.Is(err, store.ErrNotFound):
		return store.AttendanceRecord{}, storageErr("clock in", err)
	}

	isLate := false
	switch s.policy.ClassifyClockIn(now) {
	case policy.TooEarly:
		return store.AttendanceRecord{}, ErrTooEarly
	case policy.TooLateToday:
		return store.AttendanceRecord{}, ErrWindowClosed
	case policy.Late:
		isLate = true
	}

	status := policy.StatusPresent
	if isLate {
		status = policy.StatusLate
	}
	rec = store.AttendanceRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       day,
		ClockIn:    now.UTC(),
		Status:     status,
		IsLate:     isLate,
		Location:   strings.TrimSpace(opts.Location),
		Notes:      strings.TrimSpace(opts.Notes),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}

	if err = s.records.CreateRecord(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.AttendanceRecord{}, ErrAlreadyClockedIn
		}
		return store.AttendanceRecord{}, storageErr("clock in", err)
	}

	if s.registry != nil {
		if regErr := s.registry.NoteSeen(ctx, employeeID, now); regErr != nil {
			s.logger.Printf("roster update for %s failed: %v", employeeID, regErr)
		}
	}
	emitChange(ctx, s.events, s.logger, rec, store.ChangeClockIn, now)

	span.SetAttributes(attribute.String("attendance.status", string(rec.Status)))
	return rec, nil
}

// ClockOut closes today's open shift at the current time.
func (s *ClockService) ClockOut(ctx context.Context, employeeID, notes string) (store.AttendanceRecord, error) {
	return s.ClockOutAt(ctx, employeeID, s.clock.Now(), notes)
}

// ClockOutAt closes the open shift for the company-local day of now.
func (s *ClockService) ClockOutAt(ctx context.Context, employeeID string, now time.Time, notes string) (rec store.AttendanceRecord, err error) {
	ctx, span := tracer.Start(ctx, "ClockService.ClockOut", trace.WithAttributes(attribute.String("employee.id", employeeID)))
	defer func() { endSpan(span, err) }()

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return store.AttendanceRecord{}, ErrInvalidEmployeeID
	}
	day := s.policy.Day(now)
	notes = strings.TrimSpace(notes)

	rec, err = s.records.CloseShift(ctx, employeeID, day, func(open store.AttendanceRecord) (store.AttendanceRecord, error) {
		hours := policy.WorkingHours(open.ClockIn, now)
		closedAt := now.UTC()

		open.ClockOut = &closedAt
		open.WorkingHours = &hours
		open.IsAutoClockedOut = false
		open.Status = s.policy.ClassifyCompletedShift(policy.Completion{
			WorkingHours: hours,
			IsLate:       open.IsLate,
			ClosedAt:     now,
			Day:          open.Date,
		})
		open.Notes = appendNote(open.Notes, notes)
		open.UpdatedAt = closedAt
		return open, nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return store.AttendanceRecord{}, ErrNoOpenShift
	case errors.Is(err, store.ErrAlreadyClosed):
		return store.AttendanceRecord{}, ErrAlreadyClockedOut
	case err != nil:
		return store.AttendanceRecord{}, storageErr("clock out", err)
	}

	emitChange(ctx, s.events, s.logger, rec, store.ChangeClockOut, now)

	span.SetAttributes(attribute.String("attendance.status", string(rec.Status)))
	return rec, nil
}

// GetToday returns the employee's record for the current company-local day,
// or nil if there is none.
func (s *ClockService) GetToday(ctx context.Context, employeeID string) (*store.AttendanceRecord, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	rec, err := s.records.GetRecord(ctx, employeeID, s.policy.Day(s.clock.Now()))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get today", err)
	}
	return &rec, nil
}

// GetRange returns records dated from..to inclusive. employeeID "*" or ""
// selects every employee.
func (s *ClockService) GetRange(ctx context.Context, employeeID, from, to string) ([]store.AttendanceRecord, error) {
	fromDay, err := s.policy.ParseDay(from)
	if err != nil {
		return nil, ErrInvalidRange
	}
	toDay, err := s.policy.ParseDay(to)
	if err != nil || toDay.Before(fromDay) {
		return nil, ErrInvalidRange
	}

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "*" {
		employeeID = ""
	}

	recs, err := s.records.ListRange(ctx, employeeID, fromDay.Format(policy.DateLayout), toDay.Format(policy.DateLayout))
	if err != nil {
		return nil, storageErr("get range", err)
	}
	return recs, nil
}

// Recent returns the newest records across all employees for activity feeds.
func (s *ClockService) Recent(ctx context.Context, limit int) ([]store.AttendanceRecord, error) {
	recs, err := s.records.ListRecent(ctx, limit)
	if err != nil {
		return nil, storageErr("recent", err)
	}
	return recs, nil
}

// Changes pages through the change-event log after the given cursor.
func (s *ClockService) Changes(ctx context.Context, afterID int64, limit int) ([]store.ChangeEventRecord, error) {
	if s.events == nil {
		return nil, nil
	}
	evs, err := s.events.ListChanges(ctx, afterID, limit)
	if err != nil {
		return nil, storageErr("changes", err)
	}
	return evs, nil
}

func appendNote(existing, note string) string {
	switch {
	case note == "":
		return existing
	case existing == "":
		return note
	default:
		return existing + "\n" + note
	}
}

// endSpan marks the span failed only for faults; rejections are normal
// outcomes and are recorded as an attribute.
func endSpan(span trace.Span, err error) {
	if err != nil {
		if IsRejection(err) {
			span.SetAttributes(attribute.String("attendance.rejection", ErrorCode(err)))
		} else {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
	}
	span.End()
}

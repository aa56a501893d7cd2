package service_test

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store/memory"
)

// wib is UTC+7, the company zone used throughout these tests.
var wib = time.FixedZone("WIB", 7*3600)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// at returns the given wall-clock time in the company zone.
func at(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, wib)
}

// engine wires every service over in-memory stores sharing one clock.
type engine struct {
	clock    *policy.FixedClock
	records  *flakyStore
	events   *memory.ChangeEventStore
	holidays *memory.HolidayStore
	registry *service.EmployeeRegistry
	svc      *service.ClockService
	sweeper  *service.AutoClockoutSweeper
	agg      *service.Aggregator
}

func newEngine(t *testing.T, now time.Time, roster ...string) *engine {
	t.Helper()
	p := policy.Default(wib)
	clock := policy.NewFixedClock(now)
	rs := &flakyStore{Store: memory.New()}
	es := memory.NewChangeEventStore()
	hs := memory.NewHolidayStore(nil)
	reg := service.NewEmployeeRegistry(memory.NewEmployeeStore(roster))

	return &engine{
		clock:    clock,
		records:  rs,
		events:   es,
		holidays: hs,
		registry: reg,
		svc:      service.NewClockService(rs, es, reg, p, clock, silentLogger()),
		sweeper:  service.NewAutoClockoutSweeper(rs, es, p, clock, service.SweeperConfig{Interval: 10 * time.Millisecond}, silentLogger()),
		agg:      service.NewAggregator(rs, hs, reg, p, clock),
	}
}

func (e *engine) clockIn(t *testing.T, employeeID string, when time.Time) store.AttendanceRecord {
	t.Helper()
	rec, err := e.svc.ClockInAt(context.Background(), employeeID, when, service.ClockInOptions{})
	if err != nil {
		t.Fatalf("ClockInAt(%s, %s): %v", employeeID, when, err)
	}
	return rec
}

func (e *engine) clockOut(t *testing.T, employeeID string, when time.Time) store.AttendanceRecord {
	t.Helper()
	rec, err := e.svc.ClockOutAt(context.Background(), employeeID, when, "")
	if err != nil {
		t.Fatalf("ClockOutAt(%s, %s): %v", employeeID, when, err)
	}
	return rec
}

func (e *engine) record(t *testing.T, employeeID, date string) store.AttendanceRecord {
	t.Helper()
	rec, err := e.records.GetRecord(context.Background(), employeeID, date)
	if err != nil {
		t.Fatalf("GetRecord(%s, %s): %v", employeeID, date, err)
	}
	return rec
}

func hoursOf(rec store.AttendanceRecord) float64 {
	if rec.WorkingHours == nil {
		return -1
	}
	return *rec.WorkingHours
}

var errDiskGone = errors.New("disk gone")

// flakyStore wraps the memory store and fails selected operations.
type flakyStore struct {
	*memory.Store

	mu         sync.Mutex
	failReads  bool
	failWrites bool
	failClose  map[string]bool // employee IDs whose CloseShift fails
}

func (s *flakyStore) setFailReads(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = v
}

func (s *flakyStore) setFailWrites(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = v
}

func (s *flakyStore) failCloseFor(employeeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failClose == nil {
		s.failClose = make(map[string]bool)
	}
	s.failClose[employeeID] = true
}

func (s *flakyStore) GetRecord(ctx context.Context, employeeID, date string) (store.AttendanceRecord, error) {
	s.mu.Lock()
	fail := s.failReads
	s.mu.Unlock()
	if fail {
		return store.AttendanceRecord{}, errDiskGone
	}
	return s.Store.GetRecord(ctx, employeeID, date)
}

func (s *flakyStore) CreateRecord(ctx context.Context, rec store.AttendanceRecord) error {
	s.mu.Lock()
	fail := s.failWrites
	s.mu.Unlock()
	if fail {
		return errDiskGone
	}
	return s.Store.CreateRecord(ctx, rec)
}

func (s *flakyStore) CloseShift(ctx context.Context, employeeID, date string, fn store.CloseFn) (store.AttendanceRecord, error) {
	s.mu.Lock()
	fail := s.failWrites || s.failClose[employeeID]
	s.mu.Unlock()
	if fail {
		return store.AttendanceRecord{}, errDiskGone
	}
	return s.Store.CloseShift(ctx, employeeID, date, fn)
}

func (s *flakyStore) ListRange(ctx context.Context, employeeID, from, to string) ([]store.AttendanceRecord, error) {
	s.mu.Lock()
	fail := s.failReads
	s.mu.Unlock()
	if fail {
		return nil, errDiskGone
	}
	return s.Store.ListRange(ctx, employeeID, from, to)
}

func (s *flakyStore) ListOpenThrough(ctx context.Context, day string) ([]store.AttendanceRecord, error) {
	s.mu.Lock()
	fail := s.failReads
	s.mu.Unlock()
	if fail {
		return nil, errDiskGone
	}
	return s.Store.ListOpenThrough(ctx, day)
}

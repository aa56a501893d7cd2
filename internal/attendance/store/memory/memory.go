package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

// Store keeps attendance records in memory, indexed by date so range reads
// only touch the days asked for.
type Store struct {
	mu     sync.RWMutex
	byDate map[string]map[string]store.AttendanceRecord // date -> employee -> record
	days   []string                                     // sorted keys of byDate
}

func New() *Store {
	return &Store{
		byDate: make(map[string]map[string]store.AttendanceRecord),
	}
}

func (s *Store) CreateRecord(_ context.Context, rec store.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.byDate[rec.Date]
	if !ok {
		day = make(map[string]store.AttendanceRecord)
		s.byDate[rec.Date] = day
		i := sort.SearchStrings(s.days, rec.Date)
		s.days = append(s.days, "")
		copy(s.days[i+1:], s.days[i:])
		s.days[i] = rec.Date
	}
	if _, exists := day[rec.EmployeeID]; exists {
		return store.ErrDuplicate
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	day[rec.EmployeeID] = clone(rec)
	return nil
}

func (s *Store) GetRecord(_ context.Context, employeeID, date string) (store.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byDate[date][employeeID]
	if !ok {
		return store.AttendanceRecord{}, store.ErrNotFound
	}
	return clone(rec), nil
}

func (s *Store) CloseShift(_ context.Context, employeeID, date string, fn store.CloseFn) (store.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byDate[date][employeeID]
	if !ok {
		return store.AttendanceRecord{}, store.ErrNotFound
	}
	if !rec.Open() {
		return clone(rec), store.ErrAlreadyClosed
	}

	closed, err := fn(clone(rec))
	if err != nil {
		return store.AttendanceRecord{}, err
	}
	// Identity fields are not the callback's to change.
	closed.ID = rec.ID
	closed.EmployeeID = rec.EmployeeID
	closed.Date = rec.Date
	closed.ClockIn = rec.ClockIn
	closed.CreatedAt = rec.CreatedAt
	if closed.UpdatedAt.IsZero() {
		closed.UpdatedAt = time.Now().UTC()
	}

	s.byDate[date][employeeID] = clone(closed)
	return clone(closed), nil
}

func (s *Store) ListRange(_ context.Context, employeeID, from, to string) ([]store.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.AttendanceRecord
	for i := sort.SearchStrings(s.days, from); i < len(s.days) && s.days[i] <= to; i++ {
		day := s.byDate[s.days[i]]
		if employeeID != "" {
			if rec, ok := day[employeeID]; ok {
				out = append(out, clone(rec))
			}
			continue
		}
		out = append(out, sortedByEmployee(day)...)
	}
	return out, nil
}

func (s *Store) ListOpenThrough(_ context.Context, day string) ([]store.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.AttendanceRecord
	for i := 0; i < len(s.days) && s.days[i] <= day; i++ {
		for _, rec := range sortedByEmployee(s.byDate[s.days[i]]) {
			if rec.Open() {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]store.AttendanceRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.AttendanceRecord
	for i := len(s.days) - 1; i >= 0 && len(out) < limit; i-- {
		day := sortedByEmployee(s.byDate[s.days[i]])
		sort.SliceStable(day, func(a, b int) bool { return day[a].ClockIn.After(day[b].ClockIn) })
		for _, rec := range day {
			if len(out) == limit {
				break
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

// Len returns the number of stored records. Test-only helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, day := range s.byDate {
		n += len(day)
	}
	return n
}

func sortedByEmployee(day map[string]store.AttendanceRecord) []store.AttendanceRecord {
	out := make([]store.AttendanceRecord, 0, len(day))
	for _, rec := range day {
		out = append(out, clone(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

// clone copies the pointer fields so callers cannot mutate stored state.
func clone(rec store.AttendanceRecord) store.AttendanceRecord {
	if rec.ClockOut != nil {
		t := *rec.ClockOut
		rec.ClockOut = &t
	}
	if rec.WorkingHours != nil {
		h := *rec.WorkingHours
		rec.WorkingHours = &h
	}
	return rec
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	dbpkg "github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/db"
)

const recordColumns = `
  record_id, employee_id, work_date, clock_in_ms, clock_out_ms, working_hours,
  status, is_late, is_auto_clocked_out, location, notes, created_at_ms, updated_at_ms`

type RecordStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewRecordStore(db *sql.DB, writer *dbpkg.Worker) *RecordStore {
	return &RecordStore{db: db, writer: writer}
}

func (s *RecordStore) CreateRecord(ctx context.Context, rec store.AttendanceRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	createdMs := rec.CreatedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureEmployee(ctx, tx, rec.EmployeeID, createdMs); err != nil {
			return err
		}

		// The UNIQUE(employee_id, work_date) constraint is the final word
		// on duplicates; this check just gives a clean sentinel.
		var exists int
		err := tx.QueryRowContext(ctx, `
SELECT 1 FROM attendance_records WHERE employee_id = ? AND work_date = ?;
`, rec.EmployeeID, rec.Date).Scan(&exists)
		if err == nil {
			return store.ErrDuplicate
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("CreateRecord check existing: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO attendance_records(`+recordColumns+`
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`, recordArgs(rec)...); err != nil {
			if isUniqueViolation(err) {
				return store.ErrDuplicate
			}
			return fmt.Errorf("CreateRecord insert: %w", err)
		}
		return nil
	})
}

func (s *RecordStore) GetRecord(ctx context.Context, employeeID, date string) (store.AttendanceRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+recordColumns+`
FROM attendance_records
WHERE employee_id = ? AND work_date = ?;
`, employeeID, date)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.AttendanceRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.AttendanceRecord{}, fmt.Errorf("GetRecord: %w", err)
	}
	return rec, nil
}

// CloseShift reads and updates the record inside one Worker transaction.
// The UPDATE also carries "clock_out_ms IS NULL", so a row closed by any
// other path is never overwritten.
func (s *RecordStore) CloseShift(ctx context.Context, employeeID, date string, fn store.CloseFn) (store.AttendanceRecord, error) {
	var out store.AttendanceRecord

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
SELECT `+recordColumns+`
FROM attendance_records
WHERE employee_id = ? AND work_date = ?;
`, employeeID, date)

		current, err := scanRecord(row)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("CloseShift load: %w", err)
		}
		if !current.Open() {
			out = current
			return store.ErrAlreadyClosed
		}

		closed, err := fn(current)
		if err != nil {
			return err
		}
		if closed.ClockOut == nil {
			return fmt.Errorf("CloseShift: close function left clock_out unset")
		}
		if closed.UpdatedAt.IsZero() {
			closed.UpdatedAt = time.Now().UTC()
		}

		var hours any
		if closed.WorkingHours != nil {
			hours = *closed.WorkingHours
		}

		res, err := tx.ExecContext(ctx, `
UPDATE attendance_records
SET clock_out_ms = ?,
    working_hours = ?,
    status = ?,
    is_auto_clocked_out = ?,
    notes = ?,
    updated_at_ms = ?
WHERE employee_id = ? AND work_date = ? AND clock_out_ms IS NULL;
`,
			closed.ClockOut.UTC().UnixMilli(), hours, string(closed.Status),
			boolInt(closed.IsAutoClockedOut), closed.Notes, closed.UpdatedAt.UTC().UnixMilli(),
			employeeID, date,
		)
		if err != nil {
			return fmt.Errorf("CloseShift update: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrAlreadyClosed
		}

		closed.ID = current.ID
		closed.EmployeeID = current.EmployeeID
		closed.Date = current.Date
		closed.ClockIn = current.ClockIn
		closed.CreatedAt = current.CreatedAt
		out = closed
		return nil
	})
	if err != nil && !errors.Is(err, store.ErrAlreadyClosed) {
		return store.AttendanceRecord{}, err
	}
	return out, err
}

// ListRange uses idx_attendance_date, so cost follows the size of the range.
func (s *RecordStore) ListRange(ctx context.Context, employeeID, from, to string) ([]store.AttendanceRecord, error) {
	query := `
SELECT ` + recordColumns + `
FROM attendance_records
WHERE work_date >= ? AND work_date <= ?`
	args := []any{from, to}
	if employeeID != "" {
		query += ` AND employee_id = ?`
		args = append(args, employeeID)
	}
	query += `
ORDER BY work_date, employee_id;`

	recs, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListRange: %w", err)
	}
	return recs, nil
}

func (s *RecordStore) ListOpenThrough(ctx context.Context, day string) ([]store.AttendanceRecord, error) {
	recs, err := s.query(ctx, `
SELECT `+recordColumns+`
FROM attendance_records
WHERE clock_out_ms IS NULL AND work_date <= ?
ORDER BY work_date, employee_id;
`, day)
	if err != nil {
		return nil, fmt.Errorf("ListOpenThrough: %w", err)
	}
	return recs, nil
}

func (s *RecordStore) ListRecent(ctx context.Context, limit int) ([]store.AttendanceRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	recs, err := s.query(ctx, `
SELECT `+recordColumns+`
FROM attendance_records
ORDER BY work_date DESC, clock_in_ms DESC, employee_id
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	return recs, nil
}

func (s *RecordStore) query(ctx context.Context, query string, args ...any) ([]store.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (store.AttendanceRecord, error) {
	var (
		rec                 store.AttendanceRecord
		clockInMs           int64
		clockOutMs          sql.NullInt64
		hours               sql.NullFloat64
		status              string
		isLate, isAuto      int
		createdMs, updateMs int64
	)
	if err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &clockInMs, &clockOutMs, &hours,
		&status, &isLate, &isAuto, &rec.Location, &rec.Notes, &createdMs, &updateMs,
	); err != nil {
		return store.AttendanceRecord{}, err
	}

	rec.ClockIn = time.UnixMilli(clockInMs).UTC()
	if clockOutMs.Valid {
		t := time.UnixMilli(clockOutMs.Int64).UTC()
		rec.ClockOut = &t
	}
	if hours.Valid {
		h := hours.Float64
		rec.WorkingHours = &h
	}
	rec.Status = policy.Status(status)
	rec.IsLate = isLate == 1
	rec.IsAutoClockedOut = isAuto == 1
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	rec.UpdatedAt = time.UnixMilli(updateMs).UTC()
	return rec, nil
}

func recordArgs(rec store.AttendanceRecord) []any {
	var clockOut, hours any
	if rec.ClockOut != nil {
		clockOut = rec.ClockOut.UTC().UnixMilli()
	}
	if rec.WorkingHours != nil {
		hours = *rec.WorkingHours
	}
	return []any{
		rec.ID, rec.EmployeeID, rec.Date, rec.ClockIn.UTC().UnixMilli(), clockOut, hours,
		string(rec.Status), boolInt(rec.IsLate), boolInt(rec.IsAutoClockedOut),
		rec.Location, rec.Notes, rec.CreatedAt.UTC().UnixMilli(), rec.UpdatedAt.UTC().UnixMilli(),
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	dbpkg "github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/db"
)

type EmployeeStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewEmployeeStore(db *sql.DB, writer *dbpkg.Worker) *EmployeeStore {
	return &EmployeeStore{db: db, writer: writer}
}

// MarkSeen upserts the employee as known and stamps last_seen.
func (s *EmployeeStore) MarkSeen(ctx context.Context, employeeID string, t time.Time) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := ensureEmployee(ctx, tx, employeeID, ms); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE employees
SET known = 1,
    last_seen_at_ms = ?,
    updated_at_ms   = ?
WHERE employee_id = ?;
`, ms, ms, employeeID); err != nil {
			return fmt.Errorf("MarkSeen update employee: %w", err)
		}
		return nil
	})
}

func (s *EmployeeStore) ListEmployees(ctx context.Context) ([]store.EmployeeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT employee_id, known, created_at_ms, last_seen_at_ms
FROM employees
WHERE known = 1
ORDER BY employee_id;
`)
	if err != nil {
		return nil, fmt.Errorf("ListEmployees: %w", err)
	}
	defer rows.Close()

	var out []store.EmployeeRecord
	for rows.Next() {
		var (
			rec      store.EmployeeRecord
			known     int
			createdMs int64
			lastSeen  sql.NullInt64
		)
		if err := rows.Scan(&rec.EmployeeID, &known, &createdMs, &lastSeen); err != nil {
			return nil, fmt.Errorf("ListEmployees scan: %w", err)
		}
		rec.Known = known == 1
		rec.Since = time.UnixMilli(createdMs).UTC()
		if lastSeen.Valid {
			rec.LastSeen = time.UnixMilli(lastSeen.Int64).UTC()
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

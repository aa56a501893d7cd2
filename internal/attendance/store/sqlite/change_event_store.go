package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	dbpkg "github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/db"
)

type ChangeEventStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewChangeEventStore(db *sql.DB, writer *dbpkg.Worker) *ChangeEventStore {
	return &ChangeEventStore{db: db, writer: writer}
}

func (s *ChangeEventStore) RecordChange(ctx context.Context, ev store.ChangeEventRecord) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO attendance_changes(
  record_id, employee_id, work_date, kind, status, occurred_at_ms
) VALUES (?, ?, ?, ?, ?, ?);
`,
			ev.RecordID, ev.EmployeeID, ev.Date, string(ev.Kind), string(ev.Status),
			ev.OccurredAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("RecordChange insert: %w", err)
		}
		return nil
	})
}

func (s *ChangeEventStore) ListChanges(ctx context.Context, afterID int64, limit int) ([]store.ChangeEventRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT change_id, record_id, employee_id, work_date, kind, status, occurred_at_ms
FROM attendance_changes
WHERE change_id > ?
ORDER BY change_id
LIMIT ?;
`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListChanges: %w", err)
	}
	defer rows.Close()

	var out []store.ChangeEventRecord
	for rows.Next() {
		var (
			ev           store.ChangeEventRecord
			kind, status string
			occurredMs   int64
		)
		if err := rows.Scan(&ev.ID, &ev.RecordID, &ev.EmployeeID, &ev.Date, &kind, &status, &occurredMs); err != nil {
			return nil, fmt.Errorf("ListChanges scan: %w", err)
		}
		ev.Kind = store.ChangeKind(kind)
		ev.Status = policy.Status(status)
		ev.OccurredAt = time.UnixMilli(occurredMs).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

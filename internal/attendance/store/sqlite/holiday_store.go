package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	dbpkg "github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/db"
)

type HolidayStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewHolidayStore(db *sql.DB, writer *dbpkg.Worker) *HolidayStore {
	return &HolidayStore{db: db, writer: writer}
}

func (s *HolidayStore) AddHoliday(ctx context.Context, h store.Holiday) error {
	now := time.Now().UTC().UnixMilli()
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO company_holidays(holiday_date, name, created_at_ms)
VALUES (?, ?, ?)
ON CONFLICT(holiday_date) DO UPDATE SET name = excluded.name;
`, h.Date, h.Name, now); err != nil {
			return fmt.Errorf("AddHoliday: %w", err)
		}
		return nil
	})
}

func (s *HolidayStore) ListHolidays(ctx context.Context, from, to string) ([]store.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT holiday_date, name
FROM company_holidays
WHERE holiday_date >= ? AND holiday_date <= ?
ORDER BY holiday_date;
`, from, to)
	if err != nil {
		return nil, fmt.Errorf("ListHolidays: %w", err)
	}
	defer rows.Close()

	var out []store.Holiday
	for rows.Next() {
		var h store.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("ListHolidays scan: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

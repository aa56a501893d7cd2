package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type SeedDevOptions struct {
	// KnownEmployees are inserted into the roster as known employees.
	KnownEmployees []string
	// Holidays are "2006-01-02" dates added to the company calendar.
	Holidays []string
}

// SeedDev pre-populates the roster and holiday calendar. Re-running it is safe.
func SeedDev(ctx context.Context, db *sql.DB, opt SeedDevOptions) error {
	now := time.Now().UTC().UnixMilli()

	for _, id := range opt.KnownEmployees {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, `
INSERT INTO employees(employee_id, known, created_at_ms, updated_at_ms)
VALUES (?, 1, ?, ?)
ON CONFLICT(employee_id) DO UPDATE SET
  known = 1,
  updated_at_ms = excluded.updated_at_ms;
`, id, now, now); err != nil {
			return fmt.Errorf("seed employee %s: %w", id, err)
		}
	}

	for _, d := range opt.Holidays {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO company_holidays(holiday_date, name, created_at_ms)
VALUES (?, '', ?);
`, d, now); err != nil {
			return fmt.Errorf("seed holiday %s: %w", d, err)
		}
	}

	return nil
}

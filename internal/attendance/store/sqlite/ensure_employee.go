package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ensureEmployee guarantees an employees row exists so the foreign key from
// attendance_records is satisfied. Employees first seen through a clock-in
// start as not known; only the roster seeder marks them known.
//
// Must be called inside an existing transaction.
func ensureEmployee(ctx context.Context, tx *sql.Tx, employeeID string, nowMs int64) error {
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO employees(
  employee_id, known, created_at_ms, updated_at_ms
) VALUES (?, 0, ?, ?);
`, employeeID, nowMs, nowMs); err != nil {
		return fmt.Errorf("ensureEmployee %s: %w", employeeID, err)
	}
	return nil
}

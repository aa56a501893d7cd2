package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/db"
)

// openTestDB returns an in-memory SQLite connection with the same PRAGMAs
// and schema as production.  The connection is closed automatically when the
// test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Each call gets a unique in-memory database.  The shared-cache URI
	// keeps the database alive for the lifetime of the connection pool.
	dsn := fmt.Sprintf(
		"file:test_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		t.Name(),
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: ping: %v", err)
	}

	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: migrate: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// newTestWriter returns a db.Worker backed by conn.  The worker is closed
// automatically when the test finishes.
func newTestWriter(t *testing.T, conn *sql.DB) *db.Worker {
	t.Helper()

	w := db.NewWorker(conn)
	t.Cleanup(func() { w.Close() })
	return w
}

var base = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC) // 09:00 WIB

// openRecord builds an open record for employeeID on date, clocked in at
// base shifted by offset.
func openRecord(employeeID, date string, offset time.Duration) store.AttendanceRecord {
	in := base.Add(offset)
	return store.AttendanceRecord{
		ID:         employeeID + "-" + date,
		EmployeeID: employeeID,
		Date:       date,
		ClockIn:    in,
		Status:     policy.StatusPresent,
		CreatedAt:  in,
		UpdatedAt:  in,
	}
}

// closeAt returns a CloseFn that closes the shift at t with the given hours.
func closeAt(t time.Time, hours float64, auto bool) store.CloseFn {
	return func(open store.AttendanceRecord) (store.AttendanceRecord, error) {
		open.ClockOut = &t
		open.WorkingHours = &hours
		open.IsAutoClockedOut = auto
		open.UpdatedAt = t
		return open, nil
	}
}

package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/db"
)

func openFile(t *testing.T, path string) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), db.Config{Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return conn
}

func count(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestOpen_MigratesOnceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "attendance.db")

	conn := openFile(t, path)
	applied := count(t, conn, `SELECT COUNT(*) FROM schema_migrations`)
	if applied == 0 {
		t.Fatal("expected at least one applied migration")
	}
	conn.Close()

	conn = openFile(t, path)
	defer conn.Close()
	if got := count(t, conn, `SELECT COUNT(*) FROM schema_migrations`); got != applied {
		t.Errorf("reopen re-applied migrations: %d -> %d", applied, got)
	}
}

func TestSeedDev_Idempotent(t *testing.T) {
	conn := openFile(t, filepath.Join(t.TempDir(), "attendance.db"))
	defer conn.Close()

	opt := db.SeedDevOptions{
		KnownEmployees: []string{"alice", " ", "bob"},
		Holidays:       []string{"2026-03-19", ""},
	}
	for i := 0; i < 2; i++ {
		if err := db.SeedDev(context.Background(), conn, opt); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	if got := count(t, conn, `SELECT COUNT(*) FROM employees WHERE known = 1`); got != 2 {
		t.Errorf("expected 2 known employees, got %d", got)
	}
	if got := count(t, conn, `SELECT COUNT(*) FROM company_holidays`); got != 1 {
		t.Errorf("expected 1 holiday, got %d", got)
	}
}

func TestWorker_CommitAndRollback(t *testing.T) {
	conn := openFile(t, filepath.Join(t.TempDir(), "attendance.db"))
	defer conn.Close()
	w := db.NewWorker(conn)
	defer w.Close()

	ctx := context.Background()
	insert := func(date string) db.TxFn {
		return func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO company_holidays(holiday_date, name, created_at_ms) VALUES (?, '', 0)`, date)
			return err
		}
	}

	if err := w.Do(ctx, insert("2026-01-01")); err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("boom")
	err := w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := insert("2026-05-01")(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if got := count(t, conn, `SELECT COUNT(*) FROM company_holidays`); got != 1 {
		t.Errorf("expected the failed job to roll back, got %d rows", got)
	}
}

func TestWorker_ClosedRejects(t *testing.T) {
	conn := openFile(t, filepath.Join(t.TempDir(), "attendance.db"))
	defer conn.Close()

	w := db.NewWorker(conn)
	w.Close()
	w.Close()

	err := w.Do(context.Background(), func(context.Context, *sql.Tx) error { return nil })
	if !errors.Is(err, db.ErrWorkerClosed) {
		t.Fatalf("expected ErrWorkerClosed, got %v", err)
	}
}

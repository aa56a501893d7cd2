package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/store"
)

// AutoClockoutSweeper force-closes shifts still open after shift end. It
// runs as a background goroutine, independent of any client being online.
//
// Each sweep closes open records dated before today, plus today's once the
// shift has ended, so a sweep after downtime also catches up on earlier
// days. Closing goes through RecordStore.CloseShift, which re-checks the
// record is open: an employee clock-out that lands first always wins.
type AutoClockoutSweeper struct {
	records  store.RecordStore
	events   store.ChangeEventStore
	policy   policy.Policy
	clock    policy.Clock
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// SweeperConfig holds the parameters for NewAutoClockoutSweeper.
type SweeperConfig struct {
	// Interval is how often the sweeper runs. Defaults to one minute.
	Interval time.Duration
}

// NewAutoClockoutSweeper creates a sweeper but does not start it.
func NewAutoClockoutSweeper(
	rs store.RecordStore,
	es store.ChangeEventStore,
	p policy.Policy,
	clock policy.Clock,
	cfg SweeperConfig,
	logger *log.Logger,
) *AutoClockoutSweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	if clock == nil {
		clock = policy.SystemClock{}
	}
	return &AutoClockoutSweeper{
		records:  rs,
		events:   es,
		policy:   p,
		clock:    clock,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start sweeps once immediately, then on every interval, until ctx is
// cancelled or Stop is called. Calling Start twice is a no-op.
func (w *AutoClockoutSweeper) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true

	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)

	w.logger.Printf("auto clock-out sweeper started (shift_end=%s, interval=%s)", w.policy.ShiftEnd, w.interval)
}

// Stop signals the sweeper to exit and waits for it to finish.
func (w *AutoClockoutSweeper) Stop() {
	w.mu.Lock()
	started, cancel := w.started, w.cancel
	w.mu.Unlock()
	if !started {
		return
	}
	cancel()
	<-w.done
}

func (w *AutoClockoutSweeper) loop(ctx context.Context) {
	defer close(w.done)

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *AutoClockoutSweeper) sweep(ctx context.Context) {
	closed, err := w.SweepOnce(ctx)
	if err != nil {
		w.logger.Printf("auto clock-out sweep error: %v", err)
		return
	}
	if closed > 0 {
		w.logger.Printf("auto clock-out sweep: closed %d open shifts", closed)
	}
}

// SweepOnce runs a single pass and returns how many shifts it closed.
// Per-record failures are logged and skipped; only a failure to list open
// records is returned.
func (w *AutoClockoutSweeper) SweepOnce(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "AutoClockoutSweeper.SweepOnce")
	defer span.End()

	now := w.clock.Now()
	through, err := w.closableThrough(now)
	if err != nil {
		return 0, err
	}

	open, err := w.records.ListOpenThrough(ctx, through)
	if err != nil {
		return 0, storageErr("list open shifts", err)
	}

	closed := 0
	for _, rec := range open {
		ok, err := w.closeOne(ctx, rec)
		if err != nil {
			w.logger.Printf("auto clock-out %s/%s failed: %v", rec.EmployeeID, rec.Date, err)
			continue
		}
		if ok {
			closed++
		}
	}

	span.SetAttributes(
		attribute.String("sweep.through", through),
		attribute.Int("sweep.open", len(open)),
		attribute.Int("sweep.closed", closed),
	)
	return closed, nil
}

// closableThrough returns the latest day whose shift has ended at now.
func (w *AutoClockoutSweeper) closableThrough(now time.Time) (string, error) {
	today := w.policy.Day(now)
	end, err := w.policy.ShiftEndOn(today)
	if err != nil {
		return "", err
	}
	if !now.Before(end) {
		return today, nil
	}
	d, err := w.policy.ParseDay(today)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -1).Format(policy.DateLayout), nil
}

func (w *AutoClockoutSweeper) closeOne(ctx context.Context, rec store.AttendanceRecord) (bool, error) {
	end, err := w.policy.ShiftEndOn(rec.Date)
	if err != nil {
		return false, err
	}

	closed, err := w.records.CloseShift(ctx, rec.EmployeeID, rec.Date, func(open store.AttendanceRecord) (store.AttendanceRecord, error) {
		hours := policy.WorkingHours(open.ClockIn, end)
		closedAt := end.UTC()

		open.ClockOut = &closedAt
		open.WorkingHours = &hours
		open.IsAutoClockedOut = true
		open.Status = w.policy.ClassifyCompletedShift(policy.Completion{
			WorkingHours: hours,
			IsLate:       open.IsLate,
			ClosedAt:     end,
			Day:          open.Date,
			Auto:         true,
		})
		open.UpdatedAt = w.clock.Now().UTC()
		return open, nil
	})
	if errors.Is(err, store.ErrAlreadyClosed) || errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	emitChange(ctx, w.events, w.logger, closed, store.ChangeAutoClockOut, w.clock.Now())
	return true, nil
}

package service

import (
	"errors"
	"fmt"
)

// Policy rejections. These are expected, user-facing outcomes and are
// returned as-is; callers should show them rather than treat them as faults.
var (
	ErrInvalidEmployeeID = errors.New("employee_id is required")
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrNoOpenShift       = errors.New("no open shift today")
	ErrTooEarly          = errors.New("shift has not started yet")
	ErrWindowClosed      = errors.New("clock-in window is closed for today")
	ErrInvalidRange      = errors.New("invalid date range")
)

// ErrStorageUnavailable marks store failures ("try again"), as opposed to
// the rejections above ("your action was invalid").
var ErrStorageUnavailable = errors.New("attendance storage unavailable")

// Machine-readable codes for the errors above.
const (
	CodeInvalidEmployeeID  = "invalid_employee_id"
	CodeAlreadyClockedIn   = "already_clocked_in"
	CodeAlreadyClockedOut  = "already_clocked_out"
	CodeNoOpenShift        = "no_open_shift"
	CodeTooEarly           = "too_early"
	CodeWindowClosed       = "window_closed"
	CodeInvalidRange       = "invalid_range"
	CodeStorageUnavailable = "storage_unavailable"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidEmployeeID, CodeInvalidEmployeeID},
	{ErrAlreadyClockedIn, CodeAlreadyClockedIn},
	{ErrAlreadyClockedOut, CodeAlreadyClockedOut},
	{ErrNoOpenShift, CodeNoOpenShift},
	{ErrTooEarly, CodeTooEarly},
	{ErrWindowClosed, CodeWindowClosed},
	{ErrInvalidRange, CodeInvalidRange},
	{ErrStorageUnavailable, CodeStorageUnavailable},
}

// ErrorCode returns the stable code for err, or "" if err is not one of the
// package's errors.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// IsRejection reports whether err is a policy rejection rather than a fault.
func IsRejection(err error) bool {
	code := ErrorCode(err)
	return code != "" && code != CodeStorageUnavailable
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

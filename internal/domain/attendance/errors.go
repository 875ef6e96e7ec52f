package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrDuplicateRecord   = errors.New("attendance record already exists for this date")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Manual entry errors
	ErrInvalidTimeRange      = errors.New("check-out must not precede check-in")
	ErrFutureDate            = errors.New("attendance date must not be in the future")
	ErrOutsideBackfillWindow = errors.New("attendance date is outside the allowed backfill window")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrUnauthorized   = errors.New("unauthorized to access this attendance record")
)

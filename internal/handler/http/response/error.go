package response

import (
	"errors"
	"net/http"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/validator"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance lifecycle errors: detected synchronously, before any
	// optimistic state change.
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "You have not checked in yet", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out")
	case errors.Is(err, attendance.ErrInvalidTimeRange):
		BadRequest(w, "Check-out must not precede check-in", nil)
	case errors.Is(err, attendance.ErrFutureDate):
		BadRequest(w, "Attendance date must not be in the future", nil)
	case errors.Is(err, attendance.ErrOutsideBackfillWindow):
		BadRequest(w, "Attendance date is outside the allowed backfill window", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this attendance record")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrManagerAccessRequired):
		Forbidden(w, "Manager role required")

	// Reconciliation errors: the optimistic update already happened; the
	// caller decides whether and when to retry.
	case errors.Is(err, reconcile.ErrPersist):
		BadGateway(w, "Change saved locally but could not be persisted; retry or refresh")
	case errors.Is(err, reconcile.ErrLoadFailed):
		BadGateway(w, "Could not load attendance records from the store")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

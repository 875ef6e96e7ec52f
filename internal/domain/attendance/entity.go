package attendance

import (
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
)

type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	Status        Status
	DurationHours float64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

// RecordID derives the stable identifier for an employee's record on a
// given calendar date. Deterministic construction is what enforces the
// one-record-per-employee-per-day invariant in the store.
func RecordID(employeeID string, date time.Time) string {
	return employeeID + "_" + date.Format(timeutil.DateLayout)
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
)

// ManualStatuses are the statuses a manual entry may set directly; they are
// exempt from automatic classification.
var ManualStatuses = []string{string(StatusHalfDay), string(StatusOnLeave)}

// Attended reports whether the status counts toward the attendance-rate
// numerator. Half-day presence is deliberately not credited.
func (s Status) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

package attendance

import (
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// ManualEntryRequest creates or edits a record for a past (or current) date.
// Either timestamp may be omitted; a partial record keeps duration 0.
type ManualEntryRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	Status     *string `json:"status"`
	IsNew      bool    `json:"is_new"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.CheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be an ISO8601 timestamp",
			})
		}
	}

	if r.CheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an ISO8601 timestamp",
			})
		}
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, ManualStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status may only be set manually to half_day or on_leave",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// PeriodFilter selects a calendar-month window for listing and aggregation.
type PeriodFilter struct {
	Period     string `json:"period"` // "current" (default) or "previous"
	EmployeeID string `json:"employee_id"`
}

const (
	PeriodCurrent  = "current"
	PeriodPrevious = "previous"
)

func (f *PeriodFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Period != "" && !validator.IsInSlice(f.Period, []string{PeriodCurrent, PeriodPrevious}) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be either current or previous",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Bounds resolves the filter to inclusive period bounds relative to now.
func (f *PeriodFilter) Bounds(now time.Time) (time.Time, time.Time) {
	if f.Period == PeriodPrevious {
		return timeutil.PreviousMonthBounds(now)
	}
	return timeutil.MonthBounds(now)
}

type RecordResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	Date          string  `json:"date"`
	CheckIn       *string `json:"check_in"`
	CheckOut      *string `json:"check_out"`
	Status        string  `json:"status"`
	DurationHours float64 `json:"duration_hours"`
}

type ListRecordsResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}

// timePtrToString safely converts a *time.Time to a display string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func NewRecordResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		EmployeeName:  rec.EmployeeName,
		Date:          rec.Date.Format(timeutil.DateLayout),
		CheckIn:       timePtrToString(rec.CheckIn),
		CheckOut:      timePtrToString(rec.CheckOut),
		Status:        string(rec.Status),
		DurationHours: rec.DurationHours,
	}
}

// ========================================
// STATS DTOs
// ========================================

// StatsResponse summarizes a record set for a period; identical shape for
// team-wide and single-employee views.
type StatsResponse struct {
	TotalHours     float64 `json:"total_hours"`
	AverageHours   float64 `json:"average_hours"`
	AttendanceRate int     `json:"attendance_rate"`
	LateCount      int     `json:"late_count"`
	PresentCount   int     `json:"present_count"`
	TotalRecords   int     `json:"total_records"`
	Period         string  `json:"period"`
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
}

// SeriesPoint is one chart bucket: a distinct date with summed hours and the
// number of attended records on that date.
type SeriesPoint struct {
	Date          string  `json:"date"`
	TotalHours    float64 `json:"total_hours"`
	AttendedCount int     `json:"attended_count"`
}

type SeriesResponse struct {
	Points []SeriesPoint `json:"points"`
}

package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/validator"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
)

type AttendanceServiceImpl struct {
	reconciler    *reconcile.Reconciler
	employeeRepo  employee.Repository
	lateThreshold attendance.LateThreshold
}

func NewAttendanceService(
	reconciler *reconcile.Reconciler,
	employeeRepo employee.Repository,
	lateThreshold attendance.LateThreshold,
) attendance.Service {
	return &AttendanceServiceImpl{
		reconciler:    reconciler,
		employeeRepo:  employeeRepo,
		lateThreshold: lateThreshold,
	}
}

// CheckIn implements attendance.Service. All validation happens against the
// latest known local state before the optimistic apply, so an invalid
// mutation never reaches it.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string, now time.Time) (attendance.RecordResponse, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.RecordResponse{}, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}}
	}

	emp, err := a.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	today := timeutil.DateOnly(now)

	rec, exists := a.reconciler.FindByEmployeeAndDate(employeeID, today)
	if exists && rec.CheckIn != nil {
		return attendance.RecordResponse{}, attendance.ErrDuplicateRecord
	}
	if !exists {
		rec = attendance.Record{
			ID:         attendance.RecordID(employeeID, today),
			EmployeeID: employeeID,
			Date:       today,
		}
	}

	checkIn := now
	rec.CheckIn = &checkIn
	rec.CheckOut = nil
	rec.Status = attendance.ClassifyStatus(rec.CheckIn, a.lateThreshold)
	rec.DurationHours = 0
	rec.EmployeeName = &emp.FullName

	saved, err := a.reconciler.Save(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.NewRecordResponse(saved), nil
}

// CheckOut implements attendance.Service. Closed records are not silently
// rewritten here; the manual-entry path is the only way to edit them.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string, now time.Time) (attendance.RecordResponse, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.RecordResponse{}, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}}
	}

	today := timeutil.DateOnly(now)

	rec, exists := a.reconciler.FindByEmployeeAndDate(employeeID, today)
	if !exists || rec.CheckIn == nil {
		return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if now.Before(*rec.CheckIn) {
		return attendance.RecordResponse{}, attendance.ErrInvalidTimeRange
	}

	checkOut := now
	rec.CheckOut = &checkOut
	rec.DurationHours = timeutil.DurationHours(rec.CheckIn, rec.CheckOut)

	saved, err := a.reconciler.Save(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.NewRecordResponse(saved), nil
}

// ManualUpsert implements attendance.Service. Status is always recomputed
// at write time; the only caller-supplied statuses honored are the manual
// half_day / on_leave markers.
func (a *AttendanceServiceImpl) ManualUpsert(ctx context.Context, req attendance.ManualEntryRequest, now time.Time) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	today := timeutil.DateOnly(now)

	if date.After(today) {
		return attendance.RecordResponse{}, attendance.ErrFutureDate
	}
	windowStart, _ := timeutil.PreviousMonthBounds(now)
	if date.Before(timeutil.DateOnly(windowStart)) {
		return attendance.RecordResponse{}, attendance.ErrOutsideBackfillWindow
	}

	var checkIn, checkOut *time.Time
	if req.CheckIn != nil {
		t, _ := validator.IsValidDateTime(*req.CheckIn)
		checkIn = &t
	}
	if req.CheckOut != nil {
		t, _ := validator.IsValidDateTime(*req.CheckOut)
		checkOut = &t
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return attendance.RecordResponse{}, attendance.ErrInvalidTimeRange
	}

	emp, err := a.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	existing, exists := a.reconciler.FindByEmployeeAndDate(req.EmployeeID, date)
	if req.IsNew && exists {
		return attendance.RecordResponse{}, attendance.ErrDuplicateRecord
	}
	if !req.IsNew && !exists {
		return attendance.RecordResponse{}, attendance.ErrRecordNotFound
	}

	rec := attendance.Record{
		ID:            attendance.RecordID(req.EmployeeID, date),
		EmployeeID:    req.EmployeeID,
		Date:          date,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		DurationHours: timeutil.DurationHours(checkIn, checkOut),
		EmployeeName:  &emp.FullName,
	}
	if exists {
		rec.CreatedAt = existing.CreatedAt
	}

	if req.Status != nil {
		rec.Status = attendance.Status(*req.Status)
	} else {
		rec.Status = attendance.ClassifyStatus(checkIn, a.lateThreshold)
	}

	saved, err := a.reconciler.Save(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return attendance.NewRecordResponse(saved), nil
}

// Delete implements attendance.Service. Deleting an unknown record is an
// error, not a no-op, and records belong to their employee: only the owner
// or a manager may remove one.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, recordID, actorID string, asManager bool) error {
	if validator.IsEmpty(recordID) {
		return validator.ValidationErrors{{Field: "id", Message: "record id is required"}}
	}
	if !asManager {
		if rec, ok := a.reconciler.Find(recordID); ok && rec.EmployeeID != actorID {
			return attendance.ErrUnauthorized
		}
	}
	return a.reconciler.Delete(ctx, recordID)
}

// ListRecords implements attendance.Service.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.PeriodFilter, now time.Time) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	start, end := filter.Bounds(now)

	var records []attendance.Record
	for _, rec := range a.reconciler.Records() {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if !timeutil.WithinPeriod(rec.Date, start, end) {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})

	resp := attendance.ListRecordsResponse{
		Records: make([]attendance.RecordResponse, 0, len(records)),
		Total:   len(records),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, attendance.NewRecordResponse(rec))
	}

	return resp, nil
}

// Refresh implements attendance.Service.
func (a *AttendanceServiceImpl) Refresh(ctx context.Context) error {
	if err := a.reconciler.Load(ctx, attendance.ListFilter{}); err != nil {
		return fmt.Errorf("failed to refresh records: %w", err)
	}
	return nil
}

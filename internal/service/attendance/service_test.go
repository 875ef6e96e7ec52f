package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	records    map[string]attendance.Record
	failUpsert bool
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Record)}
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if f.failUpsert {
		return attendance.Record{}, errors.New("store unavailable")
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.records[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(ids ...string) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, id := range ids {
		f.employees[id] = employee.Employee{
			ID:         id,
			FullName:   "Employee " + id,
			Role:       employee.RoleEmployee,
			Department: "Engineering",
		}
	}
	return f
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func mustThreshold(t *testing.T) attendance.LateThreshold {
	t.Helper()
	threshold, err := attendance.ParseLateThreshold("10:00")
	require.NoError(t, err)
	return threshold
}

func newTestService(t *testing.T, repo *fakeAttendanceRepo) attendance.Service {
	t.Helper()
	return NewAttendanceService(
		reconcile.NewReconciler(repo),
		newFakeEmployeeRepo("emp-1", "emp-2", "emp-3"),
		mustThreshold(t),
	)
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed
}

func strPtr(s string) *string { return &s }

func TestCheckIn_BeforeThresholdIsPresent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	resp, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))

	require.NoError(t, err)
	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, float64(0), resp.DurationHours)
	assert.Equal(t, "emp-1_2024-03-11", resp.ID)
	assert.Equal(t, "2024-03-11", resp.Date)
	require.NotNil(t, resp.CheckIn)
	assert.Nil(t, resp.CheckOut)
}

func TestCheckIn_AtOrAfterThresholdIsLate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	resp, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 10:30"))

	require.NoError(t, err)
	assert.Equal(t, "late", resp.Status)
	assert.Equal(t, float64(0), resp.DurationHours)
}

func TestCheckIn_DuplicateRejectedAndOriginalUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(t, repo)

	first, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:45"))
	assert.True(t, errors.Is(err, attendance.ErrDuplicateRecord))

	stored := repo.records[first.ID]
	assert.Equal(t, at(t, "2024-03-11 09:15"), *stored.CheckIn, "original record must be unchanged")
}

func TestCheckIn_UnknownEmployee(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	_, err := svc.CheckIn(ctx, "emp-404", at(t, "2024-03-11 09:15"))
	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))
}

func TestCheckOut_ComputesDuration(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	_, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))
	require.NoError(t, err)

	resp, err := svc.CheckOut(ctx, "emp-1", at(t, "2024-03-11 17:45"))

	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.DurationHours)
	assert.Equal(t, "present", resp.Status, "check-out must not change status")
	require.NotNil(t, resp.CheckOut)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	_, err := svc.CheckOut(ctx, "emp-1", at(t, "2024-03-11 17:45"))
	assert.True(t, errors.Is(err, attendance.ErrNotCheckedIn))
}

func TestCheckOut_Twice(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	_, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, "emp-1", at(t, "2024-03-11 17:45"))
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, "emp-1", at(t, "2024-03-11 18:00"))
	assert.True(t, errors.Is(err, attendance.ErrAlreadyCheckedOut))
}

func TestManualUpsert_FutureDateRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-12",
		IsNew:      true,
	}
	_, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))
	assert.True(t, errors.Is(err, attendance.ErrFutureDate))
}

func TestManualUpsert_PreviousMonthBackfill(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-02-20",
		CheckIn:    strPtr("2024-02-20T08:30:00Z"),
		CheckOut:   strPtr("2024-02-20T17:00:00Z"),
		IsNew:      true,
	}
	resp, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))

	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.DurationHours)
	assert.Equal(t, "present", resp.Status)
}

func TestManualUpsert_OutsideBackfillWindow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-01-31",
		IsNew:      true,
	}
	_, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))
	assert.True(t, errors.Is(err, attendance.ErrOutsideBackfillWindow))
}

func TestManualUpsert_InvertedRangeRejectedBeforeMutation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(t, repo)

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-10",
		CheckIn:    strPtr("2024-03-10T17:00:00Z"),
		CheckOut:   strPtr("2024-03-10T09:00:00Z"),
		IsNew:      true,
	}
	_, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))

	assert.True(t, errors.Is(err, attendance.ErrInvalidTimeRange))
	assert.Empty(t, repo.records, "rejected edits must not reach the store")
}

func TestManualUpsert_DuplicateOnCreate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	_, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))
	require.NoError(t, err)

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-11",
		IsNew:      true,
	}
	_, err = svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))
	assert.True(t, errors.Is(err, attendance.ErrDuplicateRecord))
}

func TestManualUpsert_EditMissingRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-10",
		IsNew:      false,
	}
	_, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))
	assert.True(t, errors.Is(err, attendance.ErrRecordNotFound))
}

func TestManualUpsert_ManualStatusHonored(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-10",
		Status:     strPtr("on_leave"),
		IsNew:      true,
	}
	resp, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))

	require.NoError(t, err)
	assert.Equal(t, "on_leave", resp.Status)
	assert.Equal(t, float64(0), resp.DurationHours)
}

func TestManualUpsert_RejectsAutomaticStatuses(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-10",
		Status:     strPtr("present"),
		IsNew:      true,
	}
	_, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))
	require.Error(t, err)
}

func TestManualUpsert_PartialRecordKeepsZeroDuration(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	req := attendance.ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2024-03-10",
		CheckIn:    strPtr("2024-03-10T10:30:00Z"),
		IsNew:      true,
	}
	resp, err := svc.ManualUpsert(ctx, req, at(t, "2024-03-11 12:00"))

	require.NoError(t, err)
	assert.Equal(t, float64(0), resp.DurationHours)
	assert.Equal(t, "late", resp.Status)
}

func TestDelete_UnknownRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	err := svc.Delete(ctx, "emp-1_2024-03-11", "emp-1", false)
	assert.True(t, errors.Is(err, attendance.ErrRecordNotFound))
}

func TestDelete_OwnerRemovesOwnRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	resp, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, resp.ID, "emp-1", false))

	list, err := svc.ListRecords(ctx, attendance.PeriodFilter{EmployeeID: "emp-1"}, at(t, "2024-03-11 12:00"))
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}

func TestDelete_OtherEmployeesRecordRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	resp, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))
	require.NoError(t, err)

	err = svc.Delete(ctx, resp.ID, "emp-2", false)
	assert.True(t, errors.Is(err, attendance.ErrUnauthorized))

	// The record survives the rejected attempt.
	list, err := svc.ListRecords(ctx, attendance.PeriodFilter{EmployeeID: "emp-1"}, at(t, "2024-03-11 12:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestDelete_ManagerRemovesAnyRecord(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())

	resp, err := svc.CheckIn(ctx, "emp-1", at(t, "2024-03-11 09:15"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, resp.ID, "emp-2", true))
}

func TestCheckIn_PersistFailureKeepsLocalRecordVisible(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	repo.failUpsert = true
	svc := newTestService(t, repo)

	now := at(t, "2024-03-11 09:15")
	_, err := svc.CheckIn(ctx, "emp-1", now)

	require.Error(t, err)
	assert.True(t, errors.Is(err, reconcile.ErrPersist))

	// The optimistic record stays in the reconciled set the views read.
	list, err := svc.ListRecords(ctx, attendance.PeriodFilter{EmployeeID: "emp-1"}, now)
	require.NoError(t, err)
	require.Len(t, list.Records, 1)
	assert.Equal(t, "emp-1_2024-03-11", list.Records[0].ID)
}

func TestListRecords_PeriodFiltering(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeAttendanceRepo())
	now := at(t, "2024-03-11 12:00")

	_, err := svc.ManualUpsert(ctx, attendance.ManualEntryRequest{
		EmployeeID: "emp-1", Date: "2024-03-05", IsNew: true,
		CheckIn: strPtr("2024-03-05T09:00:00Z"),
	}, now)
	require.NoError(t, err)
	_, err = svc.ManualUpsert(ctx, attendance.ManualEntryRequest{
		EmployeeID: "emp-1", Date: "2024-02-15", IsNew: true,
		CheckIn: strPtr("2024-02-15T09:00:00Z"),
	}, now)
	require.NoError(t, err)

	current, err := svc.ListRecords(ctx, attendance.PeriodFilter{Period: attendance.PeriodCurrent}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Total)
	assert.Equal(t, "2024-03-05", current.Records[0].Date)

	previous, err := svc.ListRecords(ctx, attendance.PeriodFilter{Period: attendance.PeriodPrevious}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, previous.Total)
	assert.Equal(t, "2024-02-15", previous.Records[0].Date)
}

package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAttendanceRepo struct {
	records    map[string]attendance.Record
	failUpsert bool
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: make(map[string]attendance.Record)}
}

func (m *memAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (m *memAttendanceRepo) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if m.failUpsert {
		return attendance.Record{}, errors.New("store unavailable")
	}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memAttendanceRepo) Delete(ctx context.Context, id string) error {
	delete(m.records, id)
	return nil
}

type memEmployeeRepo struct {
	employees []employee.Employee
}

func (m *memEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	return m.employees, nil
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range m.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func newTestJobs(repo *memAttendanceRepo, reconciler *reconcile.Reconciler, employees ...string) *AttendanceJobs {
	emps := make([]employee.Employee, 0, len(employees))
	for _, id := range employees {
		emps = append(emps, employee.Employee{ID: id, FullName: "Employee " + id})
	}
	return &AttendanceJobs{
		repo:         repo,
		reconciler:   reconciler,
		employeeRepo: &memEmployeeRepo{employees: emps},
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

func TestMarkAbsentees_BackfillsMissingEmployees(t *testing.T) {
	ctx := context.Background()
	repo := newMemAttendanceRepo()

	// emp-1 already has a record for yesterday; emp-2 does not.
	yesterday := timeutil.DateOnly(time.Now().AddDate(0, 0, -1))
	checkIn := yesterday.Add(9 * time.Hour)
	repo.records["emp-1_"+yesterday.Format(timeutil.DateLayout)] = attendance.Record{
		ID:         attendance.RecordID("emp-1", yesterday),
		EmployeeID: "emp-1",
		Date:       yesterday,
		CheckIn:    &checkIn,
		Status:     attendance.StatusPresent,
	}

	reconciler := reconcile.NewReconciler(repo)
	require.NoError(t, reconciler.Load(ctx, attendance.ListFilter{}))

	jobs := newTestJobs(repo, reconciler, "emp-1", "emp-2")
	require.NoError(t, jobs.MarkAbsentees(ctx))

	marked, ok := repo.records[attendance.RecordID("emp-2", yesterday)]
	require.True(t, ok)
	assert.Equal(t, attendance.StatusAbsent, marked.Status)

	// emp-1's existing record is untouched.
	kept := repo.records[attendance.RecordID("emp-1", yesterday)]
	assert.Equal(t, attendance.StatusPresent, kept.Status)

	// The local set picked up the new record through the reload.
	_, found := reconciler.FindByEmployeeAndDate("emp-2", yesterday)
	assert.True(t, found)
}

func TestMarkAbsentees_NothingMissingWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := newMemAttendanceRepo()

	yesterday := timeutil.DateOnly(time.Now().AddDate(0, 0, -1))
	repo.records[attendance.RecordID("emp-1", yesterday)] = attendance.Record{
		ID:         attendance.RecordID("emp-1", yesterday),
		EmployeeID: "emp-1",
		Date:       yesterday,
		Status:     attendance.StatusOnLeave,
	}

	reconciler := reconcile.NewReconciler(repo)
	require.NoError(t, reconciler.Load(ctx, attendance.ListFilter{}))

	jobs := newTestJobs(repo, reconciler, "emp-1")
	require.NoError(t, jobs.MarkAbsentees(ctx))

	assert.Equal(t, 1, len(repo.records))
}

func TestMarkAbsentees_FailedBatchLeavesLocalSetClean(t *testing.T) {
	ctx := context.Background()
	repo := newMemAttendanceRepo()
	repo.failUpsert = true

	reconciler := reconcile.NewReconciler(repo)

	jobs := newTestJobs(repo, reconciler, "emp-1")
	require.Error(t, jobs.MarkAbsentees(ctx))

	// No phantom absent record may linger locally: the next run must still
	// see the employee as unmarked.
	yesterday := timeutil.DateOnly(time.Now().AddDate(0, 0, -1))
	_, found := reconciler.FindByEmployeeAndDate("emp-1", yesterday)
	assert.False(t, found)
}

func TestScheduler_RunsJobImmediatelyAndStops(t *testing.T) {
	var runs atomic.Int32

	s := NewScheduler()
	s.AddJob("counter", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := NewScheduler()
	s.Stop()
}

package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory attendance.Repository with failure injection.
type fakeRepo struct {
	records    map[string]attendance.Record
	failUpsert bool
	failDelete bool
	failList   bool
	listCalls  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]attendance.Record)}
}

func (f *fakeRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error) {
	f.listCalls++
	if f.failList {
		return nil, errors.New("store unavailable")
	}
	var out []attendance.Record
	for _, rec := range f.records {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if f.failUpsert {
		return attendance.Record{}, errors.New("store unavailable")
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.failDelete {
		return errors.New("store unavailable")
	}
	if _, ok := f.records[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func testRecord(employeeID, date string) attendance.Record {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	checkIn := day.Add(9 * time.Hour)
	return attendance.Record{
		ID:         attendance.RecordID(employeeID, day),
		EmployeeID: employeeID,
		Date:       day,
		CheckIn:    &checkIn,
		Status:     attendance.StatusPresent,
	}
}

func TestReconciler_SavePersists(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	rec := testRecord("emp-1", "2024-03-11")

	reconciler := NewReconciler(repo)
	_, err := reconciler.Save(ctx, rec)

	require.NoError(t, err)
	assert.Len(t, reconciler.Records(), 1)
	_, ok := repo.records[rec.ID]
	assert.True(t, ok, "record should reach the store")
}

func TestReconciler_SaveKeepsLocalOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.failUpsert = true
	rec := testRecord("emp-1", "2024-03-11")

	reconciler := NewReconciler(repo)
	_, err := reconciler.Save(ctx, rec)

	// The error is surfaced, but the optimistic update stays visible: no
	// automatic rollback, no automatic retry.
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersist))
	got, ok := reconciler.Find(rec.ID)
	require.True(t, ok, "local set must keep the optimistic record")
	assert.Equal(t, rec.EmployeeID, got.EmployeeID)
	assert.Empty(t, repo.records)
}

func TestReconciler_SaveReplacesById(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	rec := testRecord("emp-1", "2024-03-11")

	reconciler := NewReconciler(repo)
	_, err := reconciler.Save(ctx, rec)
	require.NoError(t, err)

	checkOut := rec.Date.Add(17 * time.Hour)
	rec.CheckOut = &checkOut
	rec.DurationHours = 8
	_, err = reconciler.Save(ctx, rec)
	require.NoError(t, err)

	assert.Len(t, reconciler.Records(), 1, "same id must replace, not append")
	got, _ := reconciler.Find(rec.ID)
	assert.Equal(t, float64(8), got.DurationHours)
}

func TestReconciler_DeleteRemovesLocallyFirst(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	rec := testRecord("emp-1", "2024-03-11")

	reconciler := NewReconciler(repo)
	_, err := reconciler.Save(ctx, rec)
	require.NoError(t, err)

	repo.failDelete = true
	err = reconciler.Delete(ctx, rec.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersist))
	_, ok := reconciler.Find(rec.ID)
	assert.False(t, ok, "local removal happens before store confirmation")
}

func TestReconciler_DeleteUnknownRecord(t *testing.T) {
	reconciler := NewReconciler(newFakeRepo())
	err := reconciler.Delete(context.Background(), "emp-1_2024-03-11")
	assert.True(t, errors.Is(err, attendance.ErrRecordNotFound))
}

func TestReconciler_LoadReplacesSet(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	recA := testRecord("emp-1", "2024-03-11")
	recB := testRecord("emp-2", "2024-03-11")
	repo.records[recA.ID] = recA
	repo.records[recB.ID] = recB

	reconciler := NewReconciler(repo)
	require.NoError(t, reconciler.Load(ctx, attendance.ListFilter{}))
	assert.Len(t, reconciler.Records(), 2)

	require.NoError(t, reconciler.Load(ctx, attendance.ListFilter{EmployeeID: "emp-1"}))
	assert.Len(t, reconciler.Records(), 1)
}

func TestReconciler_LoadGivesUpAfterRetries(t *testing.T) {
	repo := newFakeRepo()
	repo.failList = true

	// Cancelled context short-circuits the backoff wait so the test does
	// not sleep through real retry delays.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reconciler := NewReconciler(repo)
	err := reconciler.Load(ctx, attendance.ListFilter{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoadFailed))
	assert.GreaterOrEqual(t, repo.listCalls, 1)
	assert.Empty(t, reconciler.Records(), "failed load must resolve to an empty state")
}

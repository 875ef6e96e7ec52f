package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
	"github.com/attendly-hq/attendance-backend-go/internal/repository/postgresql"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
)

// AttendanceJobs owns the scheduled attendance maintenance work.
type AttendanceJobs struct {
	repo         attendance.Repository
	reconciler   *reconcile.Reconciler
	employeeRepo employee.Repository
	inTx         func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewAttendanceJobs(db *database.DB, repo attendance.Repository, reconciler *reconcile.Reconciler, employeeRepo employee.Repository) *AttendanceJobs {
	return &AttendanceJobs{
		repo:         repo,
		reconciler:   reconciler,
		employeeRepo: employeeRepo,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// MarkAbsentees backfills an absent record for every employee with no
// record on the previous calendar day. The batch is written in a single
// transaction so a partially marked day never reaches the store; the local
// set is reloaded only after the commit.
func (j *AttendanceJobs) MarkAbsentees(ctx context.Context) error {
	yesterday := timeutil.DateOnly(time.Now().AddDate(0, 0, -1))

	employees, err := j.employeeRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	var missing []attendance.Record
	for _, emp := range employees {
		if _, exists := j.reconciler.FindByEmployeeAndDate(emp.ID, yesterday); exists {
			continue
		}
		missing = append(missing, attendance.Record{
			ID:         attendance.RecordID(emp.ID, yesterday),
			EmployeeID: emp.ID,
			Date:       yesterday,
			Status:     attendance.StatusAbsent,
		})
	}
	if len(missing) == 0 {
		return nil
	}

	err = j.inTx(ctx, func(txCtx context.Context) error {
		for _, rec := range missing {
			if _, err := j.repo.Upsert(txCtx, rec); err != nil {
				return fmt.Errorf("failed to mark absentee %s: %w", rec.EmployeeID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("absentees marked", "date", yesterday.Format(timeutil.DateLayout), "count", len(missing))
	return j.reconciler.Load(ctx, attendance.ListFilter{})
}

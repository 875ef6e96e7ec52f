package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.check_in, a.check_out,
	   a.status, a.duration_hours, a.created_at, a.updated_at, e.full_name`

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	var (
		conditions []string
		args       []interface{}
	)

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
	`, attendanceColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.date ASC, a.employee_id ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return records, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`, attendanceColumns)

	var rec attendance.Record
	err := scanRecord(q.QueryRow(ctx, query, id), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return rec, nil
}

// Upsert implements attendance.Repository. The deterministic id makes the
// insert collapse into an update for the same employee and date.
func (a *attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in, check_out, status, duration_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (id) DO UPDATE SET
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			status = EXCLUDED.status,
			duration_hours = EXCLUDED.duration_hours,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date,
		rec.CheckIn,
		rec.CheckOut,
		string(rec.Status),
		rec.DurationHours,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return rec, nil
}

// Delete implements attendance.Repository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

func scanRecord(row pgx.Row, rec *attendance.Record) error {
	var status string
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
		&status, &rec.DurationHours, &rec.CreatedAt, &rec.UpdatedAt, &rec.EmployeeName,
	)
	if err != nil {
		return err
	}
	rec.Status = attendance.Status(status)
	return nil
}

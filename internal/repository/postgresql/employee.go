package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

// List implements employee.Repository.
func (e *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, full_name, email, role, department, created_at, updated_at
		FROM employees
		ORDER BY full_name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		var role string
		if err := rows.Scan(&emp.ID, &emp.FullName, &emp.Email, &role, &emp.Department, &emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		emp.Role = employee.Role(role)
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employee rows: %w", err)
	}

	return employees, nil
}

// GetByID implements employee.Repository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, full_name, email, role, department, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	var role string
	err := q.QueryRow(ctx, query, id).Scan(&emp.ID, &emp.FullName, &emp.Email, &role, &emp.Department, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	emp.Role = employee.Role(role)

	return emp, nil
}

package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records. The store is keyed
// by the deterministic record id, so Upsert has create-or-replace semantics.
type Repository interface {
	// List retrieves records, optionally restricted to one employee and/or
	// an inclusive date range.
	List(ctx context.Context, filter ListFilter) ([]Record, error)

	// GetByID retrieves a single record.
	GetByID(ctx context.Context, id string) (Record, error)

	// Upsert creates or replaces the record with a matching id.
	Upsert(ctx context.Context, rec Record) (Record, error)

	// Delete removes a record by id.
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

package attendance

import (
	"context"
	"time"
)

// Service defines the record lifecycle. Every mutating operation takes an
// explicit now so the rules are deterministic under test; the transport
// layer supplies the live clock.
type Service interface {
	// CheckIn opens today's record for the employee.
	CheckIn(ctx context.Context, employeeID string, now time.Time) (RecordResponse, error)

	// CheckOut closes today's open record.
	CheckOut(ctx context.Context, employeeID string, now time.Time) (RecordResponse, error)

	// ManualUpsert creates or edits a record for a past date inside the
	// backfill window.
	ManualUpsert(ctx context.Context, req ManualEntryRequest, now time.Time) (RecordResponse, error)

	// Delete removes a record by id. Non-manager actors may only delete
	// their own records.
	Delete(ctx context.Context, recordID, actorID string, asManager bool) error

	// ListRecords returns the reconciled record set for a period, for one
	// employee or the whole team depending on the filter.
	ListRecords(ctx context.Context, filter PeriodFilter, now time.Time) (ListRecordsResponse, error)

	// Refresh reloads the local record set from the store.
	Refresh(ctx context.Context) error
}

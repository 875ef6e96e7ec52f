package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
)

// ErrPersist wraps transport-level failures from the store. By the time it
// is returned the optimistic local mutation has already been applied; the
// caller surfaces the error and local state is left as-is.
var ErrPersist = errors.New("failed to persist attendance record")

// ErrLoadFailed is terminal for a session load: retries are exhausted and
// the caller must present a failed/empty state rather than keep waiting.
var ErrLoadFailed = errors.New("failed to load attendance records from store")

const (
	loadAttempts = 3
	loadBackoff  = 2 * time.Second
)

// Reconciler merges optimistic local mutations with remote persistence.
// Local apply always happens before the store round-trip; a persist failure
// is reported but never rolled back automatically, which leaves a known
// inconsistency window until the caller refreshes or retries.
type Reconciler struct {
	mu   sync.RWMutex
	set  RecordSet
	repo attendance.Repository
}

func NewReconciler(repo attendance.Repository) *Reconciler {
	return &Reconciler{repo: repo}
}

// Load replaces the local set from the store. Fetches right after session
// start may race store propagation, so a small fixed number of attempts
// with fixed backoff is used before giving up.
func (r *Reconciler) Load(ctx context.Context, filter attendance.ListFilter) error {
	var lastErr error
	for attempt := 1; attempt <= loadAttempts; attempt++ {
		records, err := r.repo.List(ctx, filter)
		if err == nil {
			r.mu.Lock()
			r.set.Replace(records)
			r.mu.Unlock()
			return nil
		}
		lastErr = err
		slog.Warn("record load attempt failed", "attempt", attempt, "error", err)

		if attempt < loadAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrLoadFailed, ctx.Err())
			case <-time.After(loadBackoff):
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrLoadFailed, lastErr)
}

// Save applies rec locally, then persists it. The local apply is never
// undone here, even when persistence fails.
func (r *Reconciler) Save(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	r.set.Apply(rec)
	r.mu.Unlock()

	persisted, err := r.repo.Upsert(ctx, rec)
	if err != nil {
		return rec, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	// Adopt store-assigned metadata (timestamps) without touching the
	// caller-visible fields.
	r.mu.Lock()
	r.set.Apply(persisted)
	r.mu.Unlock()

	return persisted, nil
}

// Delete removes rec locally, then from the store. Local removal stands
// even when the store call fails.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	removed := r.set.Remove(id)
	r.mu.Unlock()

	if !removed {
		return attendance.ErrRecordNotFound
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			// Already gone remotely; local and remote now agree.
			return nil
		}
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	return nil
}

// Records returns a snapshot of the reconciled set.
func (r *Reconciler) Records() []attendance.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set.Records()
}

// Find returns the locally held record with the given id.
func (r *Reconciler) Find(id string) (attendance.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set.Find(id)
}

// FindByEmployeeAndDate returns the locally held record for one employee on
// one calendar date.
func (r *Reconciler) FindByEmployeeAndDate(employeeID string, date time.Time) (attendance.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set.FindByEmployeeAndDate(employeeID, date)
}

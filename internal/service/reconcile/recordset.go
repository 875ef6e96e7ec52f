package reconcile

import (
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
)

// RecordSet is the locally held view of the attendance store. Mutations are
// applied here before remote confirmation so the initiating actor always
// reads their own writes.
type RecordSet struct {
	records []attendance.Record
}

// Apply replaces the record with a matching id, or appends when absent.
func (s *RecordSet) Apply(rec attendance.Record) {
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return
		}
	}
	s.records = append(s.records, rec)
}

// Remove deletes the record with the given id and reports whether it was
// present.
func (s *RecordSet) Remove(id string) bool {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps the whole set, used after a store reload.
func (s *RecordSet) Replace(records []attendance.Record) {
	s.records = append([]attendance.Record(nil), records...)
}

// Records returns a copy of the current set.
func (s *RecordSet) Records() []attendance.Record {
	return append([]attendance.Record(nil), s.records...)
}

// Find returns the record with the given id.
func (s *RecordSet) Find(id string) (attendance.Record, bool) {
	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i], true
		}
	}
	return attendance.Record{}, false
}

// FindByEmployeeAndDate returns the record for one employee on one calendar
// date. At most one such record can exist.
func (s *RecordSet) FindByEmployeeAndDate(employeeID string, date time.Time) (attendance.Record, bool) {
	for i := range s.records {
		if s.records[i].EmployeeID == employeeID && timeutil.SameDate(s.records[i].Date, date) {
			return s.records[i], true
		}
	}
	return attendance.Record{}, false
}

// Len returns the number of records held locally.
func (s *RecordSet) Len() int {
	return len(s.records)
}

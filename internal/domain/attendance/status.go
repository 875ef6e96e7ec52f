package attendance

import (
	"fmt"
	"time"
)

// LateThreshold is the clock time from which a check-in counts as late.
type LateThreshold struct {
	Hour   int
	Minute int
}

// ParseLateThreshold parses an "HH:MM" clock time.
func ParseLateThreshold(value string) (LateThreshold, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return LateThreshold{}, fmt.Errorf("invalid late threshold %q: %w", value, err)
	}
	return LateThreshold{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ClassifyStatus derives an attendance status from the check-in clock time.
// A missing check-in classifies as absent; at or past the threshold the
// status is late, before it present. Check-out presence never influences
// status: punctuality and work volume are kept orthogonal.
func ClassifyStatus(checkIn *time.Time, threshold LateThreshold) Status {
	if checkIn == nil {
		return StatusAbsent
	}
	minuteOfDay := checkIn.Hour()*60 + checkIn.Minute()
	if minuteOfDay >= threshold.Hour*60+threshold.Minute {
		return StatusLate
	}
	return StatusPresent
}

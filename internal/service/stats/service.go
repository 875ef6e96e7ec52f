package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
	"github.com/shopspring/decimal"
)

// DefaultSeriesWindow caps the chart series to the most recent distinct
// dates with activity. It is a size bound for presentation, not a filter.
const DefaultSeriesWindow = 14

type Service interface {
	// Overview summarizes the reconciled record set for a period. Team vs
	// individual granularity is purely the filter's employee restriction.
	Overview(ctx context.Context, filter attendance.PeriodFilter, now time.Time) (attendance.StatsResponse, error)

	// Series produces the time-bucketed chart series for a period.
	Series(ctx context.Context, filter attendance.PeriodFilter, now time.Time) (attendance.SeriesResponse, error)
}

type StatsServiceImpl struct {
	reconciler *reconcile.Reconciler
}

func NewStatsService(reconciler *reconcile.Reconciler) Service {
	return &StatsServiceImpl{reconciler: reconciler}
}

// Overview implements Service.
func (s *StatsServiceImpl) Overview(ctx context.Context, filter attendance.PeriodFilter, now time.Time) (attendance.StatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	start, end := filter.Bounds(now)
	records := s.periodRecords(filter, start, end)

	resp := Summarize(records)
	resp.Period = filter.Period
	if resp.Period == "" {
		resp.Period = attendance.PeriodCurrent
	}
	resp.PeriodStart = start.Format(timeutil.DateLayout)
	resp.PeriodEnd = end.Format(timeutil.DateLayout)

	return resp, nil
}

// Series implements Service.
func (s *StatsServiceImpl) Series(ctx context.Context, filter attendance.PeriodFilter, now time.Time) (attendance.SeriesResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.SeriesResponse{}, err
	}

	start, end := filter.Bounds(now)
	records := s.periodRecords(filter, start, end)

	return attendance.SeriesResponse{Points: DailySeries(records, DefaultSeriesWindow)}, nil
}

func (s *StatsServiceImpl) periodRecords(filter attendance.PeriodFilter, start, end time.Time) []attendance.Record {
	var records []attendance.Record
	for _, rec := range s.reconciler.Records() {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if !timeutil.WithinPeriod(rec.Date, start, end) {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Summarize computes period statistics over a record set. An empty set
// yields all zeroes; there is no division anywhere a zero count can reach.
func Summarize(records []attendance.Record) attendance.StatsResponse {
	resp := attendance.StatsResponse{TotalRecords: len(records)}

	total := decimal.Zero
	attended := 0
	for _, rec := range records {
		total = total.Add(decimal.NewFromFloat(rec.DurationHours))
		switch rec.Status {
		case attendance.StatusPresent:
			resp.PresentCount++
		case attendance.StatusLate:
			resp.LateCount++
		}
		if rec.Status.Attended() {
			attended++
		}
	}

	resp.TotalHours, _ = total.Round(2).Float64()
	if len(records) > 0 {
		resp.AverageHours, _ = total.Div(decimal.NewFromInt(int64(len(records)))).Round(2).Float64()
		resp.AttendanceRate = int(math.Round(100 * float64(attended) / float64(len(records))))
	}

	return resp
}

// DailySeries buckets records by distinct date in chronological order,
// summing hours and counting attended records per date, keeping only the
// maxDays most recent dates with activity.
func DailySeries(records []attendance.Record, maxDays int) []attendance.SeriesPoint {
	buckets := make(map[string]*attendance.SeriesPoint)
	for _, rec := range records {
		key := rec.Date.Format(timeutil.DateLayout)
		point, ok := buckets[key]
		if !ok {
			point = &attendance.SeriesPoint{Date: key}
			buckets[key] = point
		}
		hours := decimal.NewFromFloat(point.TotalHours).Add(decimal.NewFromFloat(rec.DurationHours))
		point.TotalHours, _ = hours.Round(2).Float64()
		if rec.Status.Attended() {
			point.AttendedCount++
		}
	}

	points := make([]attendance.SeriesPoint, 0, len(buckets))
	for _, point := range buckets {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	if maxDays > 0 && len(points) > maxDays {
		points = points[len(points)-maxDays:]
	}

	return points
}

package report

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/service/stats"
)

// Consumers treat the generated block as opaque display text; nothing in
// this module depends on its shape.
const monthlyTemplate = `Attendance report for {{.PeriodLabel}}

Records: {{.Stats.TotalRecords}} across {{.EmployeeCount}} employee(s).
Total hours worked: {{printf "%.2f" .Stats.TotalHours}} (average {{printf "%.2f" .Stats.AverageHours}} per record).
Attendance rate: {{.Stats.AttendanceRate}}%. On time: {{.Stats.PresentCount}}, late: {{.Stats.LateCount}}.
{{if gt .Stats.LateCount 0}}Late arrivals need attention this period.{{else}}No late arrivals were recorded this period.{{end}}
`

type Service interface {
	// Monthly renders the narrative text block for a period.
	Monthly(ctx context.Context, filter attendance.PeriodFilter, now time.Time) (string, error)
}

type ReportServiceImpl struct {
	statsService stats.Service
	employeeRepo employee.Repository
	tmpl         *template.Template
}

func NewReportService(statsService stats.Service, employeeRepo employee.Repository) Service {
	return &ReportServiceImpl{
		statsService: statsService,
		employeeRepo: employeeRepo,
		tmpl:         template.Must(template.New("monthly").Parse(monthlyTemplate)),
	}
}

// Monthly implements Service.
func (r *ReportServiceImpl) Monthly(ctx context.Context, filter attendance.PeriodFilter, now time.Time) (string, error) {
	summary, err := r.statsService.Overview(ctx, filter, now)
	if err != nil {
		return "", err
	}

	// The period bounds already resolve "previous" safely on month-end
	// dates, where subtracting a month from the raw clock would normalize
	// forward.
	periodStart, _ := filter.Bounds(now)
	label := periodStart.Format("January 2006")

	employeeCount := 1
	if filter.EmployeeID == "" {
		employees, err := r.employeeRepo.List(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list employees: %w", err)
		}
		employeeCount = len(employees)
	}

	data := struct {
		PeriodLabel   string
		Stats         attendance.StatsResponse
		EmployeeCount int
	}{
		PeriodLabel:   label,
		Stats:         summary,
		EmployeeCount: employeeCount,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	return buf.String(), nil
}

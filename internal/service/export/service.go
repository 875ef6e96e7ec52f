package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/timeutil"
	"github.com/attendly-hq/attendance-backend-go/internal/service/reconcile"
	"github.com/xuri/excelize/v2"
)

// Row is one exported attendance line: the record joined with employee
// identity in the flat shape downstream spreadsheets expect.
type Row struct {
	EmployeeName  string
	Role          string
	Department    string
	Date          string
	CheckIn       string
	CheckOut      string
	DurationHours float64
	Status        string
}

var header = []string{"Employee", "Role", "Department", "Date", "Check In", "Check Out", "Duration (h)", "Status"}

type Service interface {
	// Rows joins the reconciled record set for a period with the employee
	// directory.
	Rows(ctx context.Context, filter attendance.PeriodFilter, now time.Time) ([]Row, error)

	// WriteCSV serializes rows as a comma-delimited file.
	WriteCSV(w io.Writer, rows []Row) error

	// WriteXLSX serializes rows as a spreadsheet workbook.
	WriteXLSX(w io.Writer, rows []Row) error
}

type ExportServiceImpl struct {
	reconciler   *reconcile.Reconciler
	employeeRepo employee.Repository
}

func NewExportService(reconciler *reconcile.Reconciler, employeeRepo employee.Repository) Service {
	return &ExportServiceImpl{
		reconciler:   reconciler,
		employeeRepo: employeeRepo,
	}
}

// Rows implements Service.
func (e *ExportServiceImpl) Rows(ctx context.Context, filter attendance.PeriodFilter, now time.Time) ([]Row, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employees, err := e.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	start, end := filter.Bounds(now)

	var records []attendance.Record
	for _, rec := range e.reconciler.Records() {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if !timeutil.WithinPeriod(rec.Date, start, end) {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			Date:          rec.Date.Format(timeutil.DateLayout),
			CheckIn:       clockString(rec.CheckIn),
			CheckOut:      clockString(rec.CheckOut),
			DurationHours: rec.DurationHours,
			Status:        string(rec.Status),
		}
		if emp, ok := byID[rec.EmployeeID]; ok {
			row.EmployeeName = emp.FullName
			row.Role = string(emp.Role)
			row.Department = emp.Department
		} else {
			row.EmployeeName = rec.EmployeeID
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteCSV implements Service.
func (e *ExportServiceImpl) WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		fields := []string{
			row.EmployeeName,
			row.Role,
			row.Department,
			row.Date,
			row.CheckIn,
			row.CheckOut,
			strconv.FormatFloat(row.DurationHours, 'f', 2, 64),
			row.Status,
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX implements Service.
func (e *ExportServiceImpl) WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.EmployeeName,
			row.Role,
			row.Department,
			row.Date,
			row.CheckIn,
			row.CheckOut,
			row.DurationHours,
			row.Status,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func clockString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}

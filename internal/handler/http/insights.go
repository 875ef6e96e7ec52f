package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/response"
	"github.com/attendly-hq/attendance-backend-go/internal/service/export"
	"github.com/attendly-hq/attendance-backend-go/internal/service/report"
	"github.com/attendly-hq/attendance-backend-go/internal/service/stats"
)

// InsightsHandler serves the aggregated views: summary stats, chart series,
// the narrative report and the tabular export.
type InsightsHandler interface {
	MyStats(w http.ResponseWriter, r *http.Request)
	MySeries(w http.ResponseWriter, r *http.Request)
	TeamStats(w http.ResponseWriter, r *http.Request)
	TeamSeries(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type insightsHandlerImpl struct {
	statsService  stats.Service
	reportService report.Service
	exportService export.Service
}

func NewInsightsHandler(statsService stats.Service, reportService report.Service, exportService export.Service) InsightsHandler {
	return &insightsHandlerImpl{
		statsService:  statsService,
		reportService: reportService,
		exportService: exportService,
	}
}

// MyStats implements InsightsHandler.
func (h *insightsHandlerImpl) MyStats(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: employeeID,
	}

	resp, err := h.statsService.Overview(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// MySeries implements InsightsHandler.
func (h *insightsHandlerImpl) MySeries(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: employeeID,
	}

	resp, err := h.statsService.Series(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// TeamStats implements InsightsHandler.
func (h *insightsHandlerImpl) TeamStats(w http.ResponseWriter, r *http.Request) {
	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	resp, err := h.statsService.Overview(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// TeamSeries implements InsightsHandler.
func (h *insightsHandlerImpl) TeamSeries(w http.ResponseWriter, r *http.Request) {
	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	resp, err := h.statsService.Series(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Report implements InsightsHandler.
func (h *insightsHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	text, err := h.reportService.Monthly(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{"report": text})
}

// Export implements InsightsHandler. format=csv or format=xlsx (default).
func (h *insightsHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	rows, err := h.exportService.Rows(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s", time.Now().Format("2006-01"))

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		if err := h.exportService.WriteCSV(w, rows); err != nil {
			response.InternalServerError(w, "Failed to write export")
		}
	default:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		if err := h.exportService.WriteXLSX(w, rows); err != nil {
			response.InternalServerError(w, "Failed to write export")
		}
	}
}

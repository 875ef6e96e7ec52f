package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	ManualUpsert(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	GetMyRecords(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler. The live clock enters here; every
// layer below takes it as a parameter.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	resp, err := h.attendanceService.CheckIn(r.Context(), employeeID, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", resp)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	resp, err := h.attendanceService.CheckOut(r.Context(), employeeID, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", resp)
}

// ManualUpsert implements AttendanceHandler. Employees backfill their own
// records only: for non-manager callers the token identity always replaces
// whatever employee_id the body carries. Managers may target any employee.
func (h *attendanceHandlerImpl) ManualUpsert(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode manual entry request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if actorRole != employee.RoleManager || req.EmployeeID == "" {
		req.EmployeeID = actorID
	}

	resp, err := h.attendanceService.ManualUpsert(r.Context(), req, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record saved", resp)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, actorRole, err := actorFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	recordID := chi.URLParam(r, "id")

	if err := h.attendanceService.Delete(r.Context(), recordID, actorID, actorRole == employee.RoleManager); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// GetMyRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyRecords(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: employeeID,
	}

	resp, err := h.attendanceService.ListRecords(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements AttendanceHandler. Manager view: the whole team by
// default, one employee with the employee_id query.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.PeriodFilter{
		Period:     r.URL.Query().Get("period"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	resp, err := h.attendanceService.ListRecords(r.Context(), filter, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Refresh implements AttendanceHandler: reloads the local record set from
// the store, the manual re-sync path after a reported persist failure.
func (h *attendanceHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.Refresh(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance records reloaded", nil)
}

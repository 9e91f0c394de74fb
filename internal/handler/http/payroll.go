package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/nominahr/payroll-backend-go/internal/handler/http/response"
	"github.com/nominahr/payroll-backend-go/internal/pkg/validator"
	documentservice "github.com/nominahr/payroll-backend-go/internal/service/document"
	payrollservice "github.com/nominahr/payroll-backend-go/internal/service/payroll"
)

type PayrollHandler interface {
	CreateConfig(w http.ResponseWriter, r *http.Request)
	GetConfig(w http.ResponseWriter, r *http.Request)
	ListConfigs(w http.ResponseWriter, r *http.Request)
	UpdateConfig(w http.ResponseWriter, r *http.Request)

	CreatePeriod(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	PreviewPeriod(w http.ResponseWriter, r *http.Request)
	ProcessPeriod(w http.ResponseWriter, r *http.Request)
	MarkPeriodPaid(w http.ResponseWriter, r *http.Request)
	ListDetails(w http.ResponseWriter, r *http.Request)
	GetDetail(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService  payrollservice.Service
	documentService documentservice.Service
}

func NewPayrollHandler(payrollService payrollservice.Service, documentService documentservice.Service) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService:  payrollService,
		documentService: documentService,
	}
}

// ========== CONFIG ==========

// CreateConfig implements PayrollHandler.
func (h *PayrollHandlerImpl) CreateConfig(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateConfigRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateConfig decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.CreateConfig(r.Context(), req)
	if err != nil {
		slog.Error("CreateConfig service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll config created", resp)
}

// GetConfig implements PayrollHandler.
func (h *PayrollHandlerImpl) GetConfig(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.HandleError(w, validator.ValidationErrors{
			{Field: "year", Message: "must be an integer"},
		})
		return
	}

	resp, err := h.payrollService.GetConfig(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListConfigs implements PayrollHandler.
func (h *PayrollHandlerImpl) ListConfigs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.ListConfigs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// UpdateConfig implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.HandleError(w, validator.ValidationErrors{
			{Field: "year", Message: "must be an integer"},
		})
		return
	}

	var req payroll.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateConfig decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Year = year

	resp, err := h.payrollService.UpdateConfig(r.Context(), req)
	if err != nil {
		slog.Error("UpdateConfig service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll config updated", resp)
}

// ========== PERIODS ==========

// CreatePeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePeriodRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreatePeriod decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.CreatePeriod(r.Context(), req)
	if err != nil {
		slog.Error("CreatePeriod service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period created", resp)
}

// GetPeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListPeriods implements PayrollHandler.
func (h *PayrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.ListPeriods(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// PreviewPeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) PreviewPeriod(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.PreviewPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("PreviewPeriod service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ProcessPeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) ProcessPeriod(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.ProcessPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("ProcessPeriod service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period processed", resp)
}

// MarkPeriodPaid implements PayrollHandler.
func (h *PayrollHandlerImpl) MarkPeriodPaid(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.MarkPeriodPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("MarkPeriodPaid service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period marked as paid", resp)
}

// ListDetails implements PayrollHandler.
func (h *PayrollHandlerImpl) ListDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.ListDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetDetail implements PayrollHandler.
func (h *PayrollHandlerImpl) GetDetail(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.GetDetail(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// DownloadPayslip implements PayrollHandler.
func (h *PayrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	employeeID := chi.URLParam(r, "employeeID")

	// Render into a buffer first so failures still produce a JSON error
	// instead of a truncated PDF.
	var buf bytes.Buffer
	if err := h.documentService.RenderPayslip(r.Context(), periodID, employeeID, &buf); err != nil {
		slog.Error("DownloadPayslip service error", "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payslip-%s-%s.pdf"`, periodID, employeeID))
	_, _ = w.Write(buf.Bytes())
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/nominahr/payroll-backend-go/internal/handler/http/response"
	timeoffservice "github.com/nominahr/payroll-backend-go/internal/service/timeoff"
)

type TimeOffHandler interface {
	CreatePolicy(w http.ResponseWriter, r *http.Request)
	ListPolicies(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)
	RolloverYear(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

type TimeOffHandlerImpl struct {
	timeOffService timeoffservice.Service
}

func NewTimeOffHandler(timeOffService timeoffservice.Service) TimeOffHandler {
	return &TimeOffHandlerImpl{timeOffService: timeOffService}
}

// CreatePolicy implements TimeOffHandler.
func (h *TimeOffHandlerImpl) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req timeoff.CreatePolicyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreatePolicy decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.timeOffService.CreatePolicy(r.Context(), req)
	if err != nil {
		slog.Error("CreatePolicy service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off policy created", resp)
}

// ListPolicies implements TimeOffHandler.
func (h *TimeOffHandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeOffService.ListPolicies(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListBalances implements TimeOffHandler.
func (h *TimeOffHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeOffService.ListBalances(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// RolloverYear implements TimeOffHandler.
func (h *TimeOffHandlerImpl) RolloverYear(w http.ResponseWriter, r *http.Request) {
	var req timeoff.RolloverRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RolloverYear decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.timeOffService.RolloverYear(r.Context(), req); err != nil {
		slog.Error("RolloverYear service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Balances rolled over", nil)
}

// CreateRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req timeoff.CreateRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.timeOffService.CreateRequest(r.Context(), req)
	if err != nil {
		slog.Error("CreateRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off request submitted", resp)
}

// ListRequests implements TimeOffHandler.
func (h *TimeOffHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeOffService.ListRequests(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ApproveRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeOffService.ApproveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("ApproveRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request approved", resp)
}

// RejectRequest implements TimeOffHandler.
func (h *TimeOffHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeOffService.RejectRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("RejectRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request rejected", resp)
}

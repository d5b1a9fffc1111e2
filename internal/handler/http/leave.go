package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/leave"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/middleware"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListForApprover(w http.ResponseWriter, r *http.Request)
	ApproveReject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

func (h *LeaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.leaveService.Submit(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", leave.ToRequestResponse(created))
}

func (h *LeaveHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	updated, err := h.leaveService.Update(r.Context(), principal, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated", leave.ToRequestResponse(updated))
}

func (h *LeaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	deleted, err := h.leaveService.Remove(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted", leave.ToRequestResponse(deleted))
}

func (h *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.leaveService.GetByID(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToRequestResponse(request))
}

func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.leaveService.ListAll(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToRequestResponses(requests))
}

func (h *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.leaveService.ListForRequester(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToRequestResponses(requests))
}

func (h *LeaveHandlerImpl) ListForApprover(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.leaveService.ListForApprover(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToRequestResponses(requests))
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *LeaveHandlerImpl) ApproveReject(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	request, err := h.leaveService.Transition(r.Context(), principal, chi.URLParam(r, "id"), leave.RequestStatus(req.Status))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request processed", leave.ToRequestResponse(request))
}

func (h *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.leaveService.Cancel(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", leave.ToRequestResponse(request))
}

func (h *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.leaveService.GetBalance(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToBalanceResponse(balance))
}

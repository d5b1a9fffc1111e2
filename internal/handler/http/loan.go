package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/loan"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/middleware"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/response"
)

type LoanHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListForApprover(w http.ResponseWriter, r *http.Request)
	ApproveReject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type LoanHandlerImpl struct {
	loanService loan.LoanService
}

func NewLoanHandler(loanService loan.LoanService) LoanHandler {
	return &LoanHandlerImpl{loanService: loanService}
}

func (h *LoanHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req loan.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.loanService.Submit(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan request submitted", loan.ToLoanResponse(created))
}

func (h *LoanHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req loan.UpdateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	updated, err := h.loanService.Update(r.Context(), principal, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan updated", loan.ToLoanResponse(updated))
}

func (h *LoanHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	deleted, err := h.loanService.Remove(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan deleted", loan.ToLoanResponse(deleted))
}

func (h *LoanHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	l, err := h.loanService.GetByID(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan.ToLoanResponse(l))
}

func (h *LoanHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	loans, err := h.loanService.ListAll(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan.ToLoanResponses(loans))
}

func (h *LoanHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	loans, err := h.loanService.ListForRequester(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan.ToLoanResponses(loans))
}

func (h *LoanHandlerImpl) ListForApprover(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	loans, err := h.loanService.ListForApprover(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, loan.ToLoanResponses(loans))
}

func (h *LoanHandlerImpl) ApproveReject(w http.ResponseWriter, r *http.Request) {
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

	l, err := h.loanService.Transition(r.Context(), principal, chi.URLParam(r, "id"), loan.RequestStatus(req.Status))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan processed", loan.ToLoanResponse(l))
}

func (h *LoanHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	l, err := h.loanService.Cancel(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan cancelled", loan.ToLoanResponse(l))
}

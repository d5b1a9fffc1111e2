package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/payment"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/middleware"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/response"
)

type PaymentHandler interface {
	CreateRecipient(w http.ResponseWriter, r *http.Request)
	Disburse(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Webhook(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type PaymentHandlerImpl struct {
	paymentService payment.PaymentService
}

func NewPaymentHandler(paymentService payment.PaymentService) PaymentHandler {
	return &PaymentHandlerImpl{paymentService: paymentService}
}

func (h *PaymentHandlerImpl) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payment.CreateRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	code, err := h.paymentService.CreateRecipient(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Recipient registered", map[string]string{"recipient_code": code})
}

func (h *PaymentHandlerImpl) Disburse(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.paymentService.DisburseLoan(r.Context(), principal, chi.URLParam(r, "loanId")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan disbursed", nil)
}

func (h *PaymentHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payment.AcceptPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	p, err := h.paymentService.AcceptPayment(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment initialized", payment.ToPaymentResponse(p))
}

// Webhook is unauthenticated; the HMAC signature in the header is the
// only trust anchor.
func (h *PaymentHandlerImpl) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "Failed to read request body", nil)
		return
	}

	signature := r.Header.Get("x-paystack-signature")
	if err := h.paymentService.HandleWebhook(r.Context(), signature, body); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, nil)
}

func (h *PaymentHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	p, err := h.paymentService.Reconcile(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payment.ToPaymentResponse(p))
}

func (h *PaymentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	p, err := h.paymentService.GetByID(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payment.ToPaymentResponse(p))
}

func (h *PaymentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	payments, err := h.paymentService.ListAll(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payment.ToPaymentResponses(payments))
}

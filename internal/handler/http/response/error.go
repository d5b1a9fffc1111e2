package response

import (
	"errors"
	"net/http"

	"github.com/ess-hr/ess-backend-go/internal/domain/leave"
	"github.com/ess-hr/ess-backend-go/internal/domain/loan"
	"github.com/ess-hr/ess-backend-go/internal/domain/payment"
	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrManagerNotFound):
		NotFound(w, "Manager not found")
	case errors.Is(err, user.ErrNotAuthorized):
		Unauthorized(w, "User not authorized to this feature")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrNoRequestsFound):
		NotFound(w, "No leave requests found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "Leave already exists for the given dates")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Start date cannot be after end date", nil)
	case errors.Is(err, leave.ErrAlreadyInApproval):
		Conflict(w, "Leave applications cannot be updated at the moment")
	case errors.Is(err, leave.ErrManagerHasApproved):
		Conflict(w, "Manager has approved already and cancellation cannot be done at the moment")

	// Loan domain errors
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrNoLoansFound):
		NotFound(w, "No loans found")
	case errors.Is(err, loan.ErrAlreadyInApproval):
		Conflict(w, "Loan cannot be updated at the moment")
	case errors.Is(err, loan.ErrManagerHasApproved):
		Conflict(w, "Manager has approved already and cancellation cannot be done at the moment")
	case errors.Is(err, loan.ErrNoRecipientCode):
		BadRequest(w, "Recipient code not found, register payment details first", nil)
	case errors.Is(err, loan.ErrNotApproved):
		Conflict(w, "Loan is not approved for disbursement")

	// Payment domain errors
	case errors.Is(err, payment.ErrPaymentNotFound):
		NotFound(w, "Payment not found")
	case errors.Is(err, payment.ErrNoPaymentsFound):
		NotFound(w, "No payments found")
	case errors.Is(err, payment.ErrGatewayRejected):
		BadRequest(w, "Payment gateway rejected the request", nil)
	case errors.Is(err, payment.ErrInvalidSignature):
		Unauthorized(w, "Webhook signature verification failed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

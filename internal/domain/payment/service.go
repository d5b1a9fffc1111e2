package payment

import (
	"context"

	"github.com/ess-hr/ess-backend-go/internal/domain/user"
)

// PaymentService bridges the loan workflow to the payment gateway.
type PaymentService interface {
	// CreateRecipient registers the principal's mobile-money details
	// with the gateway and stores the recipient code on the user.
	CreateRecipient(ctx context.Context, principal user.Principal, req CreateRecipientRequest) (string, error)
	// DisburseLoan transfers an approved loan amount to its requester's
	// stored recipient and marks the loan disbursed.
	DisburseLoan(ctx context.Context, principal user.Principal, loanID string) error
	// AcceptPayment initializes a gateway transaction for a repayment
	// and returns the checkout handle.
	AcceptPayment(ctx context.Context, principal user.Principal, req AcceptPaymentRequest) (Payment, error)
	// HandleWebhook verifies the gateway signature and settles the
	// referenced payment against its loan.
	HandleWebhook(ctx context.Context, signature string, body []byte) error
	// Reconcile verifies a pending payment directly with the gateway,
	// settling it when the webhook delivery was missed.
	Reconcile(ctx context.Context, principal user.Principal, id string) (Payment, error)
	GetByID(ctx context.Context, principal user.Principal, id string) (Payment, error)
	ListAll(ctx context.Context, principal user.Principal) ([]Payment, error)
}

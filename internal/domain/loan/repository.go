package loan

import (
	"context"

	"github.com/shopspring/decimal"
)

// LoanRepository - interface for the loans table
type LoanRepository interface {
	Create(ctx context.Context, l Loan) (Loan, error)
	GetByID(ctx context.Context, id string) (Loan, error)
	GetAll(ctx context.Context) ([]Loan, error)
	GetByUserID(ctx context.Context, userID string) ([]Loan, error)
	GetPendingForManager(ctx context.Context, managerID string) ([]Loan, error)
	// GetPendingForCompanies lists loans at the given stage whose
	// requester belongs to one of the given companies.
	GetPendingForCompanies(ctx context.Context, companyIDs []string, status RequestStatus) ([]Loan, error)
	Update(ctx context.Context, l Loan) (Loan, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
	// RecordRepayment applies a settled repayment: amount_paid += amount,
	// amount_remaining -= amount, payment_status as computed by the caller.
	RecordRepayment(ctx context.Context, id string, amount decimal.Decimal, status PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

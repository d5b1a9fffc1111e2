package loan

import (
	"context"

	"github.com/ess-hr/ess-backend-go/internal/domain/user"
)

// LoanService is the loan request workflow. Loans pass through an extra
// accountant stage that leave requests do not have.
type LoanService interface {
	Submit(ctx context.Context, principal user.Principal, req CreateLoanRequest) (Loan, error)
	// Update patches an undecided loan. Remarks are applied only when
	// the principal is an accountant; for everyone else the field is
	// ignored.
	Update(ctx context.Context, principal user.Principal, id string, req UpdateLoanRequest) (Loan, error)
	Transition(ctx context.Context, principal user.Principal, id string, target RequestStatus) (Loan, error)
	Cancel(ctx context.Context, principal user.Principal, id string) (Loan, error)
	Remove(ctx context.Context, principal user.Principal, id string) (Loan, error)
	GetByID(ctx context.Context, principal user.Principal, id string) (Loan, error)
	ListAll(ctx context.Context, principal user.Principal) ([]Loan, error)
	ListForRequester(ctx context.Context, principal user.Principal) ([]Loan, error)
	ListForApprover(ctx context.Context, principal user.Principal) ([]Loan, error)
}

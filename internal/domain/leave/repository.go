package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RequestRepository - interface for the leave_requests table
type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	GetAll(ctx context.Context) ([]Request, error)
	GetByUserID(ctx context.Context, userID string) ([]Request, error)
	// GetPendingForManager lists requests awaiting a given manager.
	GetPendingForManager(ctx context.Context, managerID string) ([]Request, error)
	// GetPendingForCompanies lists requests at the HR stage whose
	// requester belongs to one of the given companies.
	GetPendingForCompanies(ctx context.Context, companyIDs []string) ([]Request, error)
	// CountOverlapping counts active requests for the user whose date
	// range intersects [startDate, endDate].
	CountOverlapping(ctx context.Context, userID string, startDate, endDate time.Time) (int, error)
	Update(ctx context.Context, request Request) (Request, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
	Delete(ctx context.Context, id string) error
}

// BalanceRepository - interface for the leave_balances table. All writes
// are relative to the stored value so a bulk accrual and a concurrent
// per-user debit cannot lose updates.
type BalanceRepository interface {
	GetByUserID(ctx context.Context, userID string) (Balance, error)
	// AccrueAll adds amount to every employee's balance in one statement.
	AccrueAll(ctx context.Context, amount decimal.Decimal) error
	// Debit subtracts days from one user's balance. ErrBalanceNotFound
	// when no row exists; the balance is allowed to go negative.
	Debit(ctx context.Context, userID string, days decimal.Decimal) error
}

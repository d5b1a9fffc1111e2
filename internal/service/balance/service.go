package balance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ess-hr/ess-backend-go/internal/domain/leave"
)

// DailyIncrement is the leave accrued per scheduler tick, derived from a
// 15-day annual entitlement spread over the calendar year. The division
// rounds half-up to two places, so every tick adds exactly 0.04.
func DailyIncrement() decimal.Decimal {
	return decimal.NewFromInt(15).Div(decimal.NewFromInt(365)).Round(2)
}

// Ledger owns all leave-balance arithmetic. Reads are advisory; only
// Accrue and Debit write, and both delegate to relative SQL updates.
type Ledger struct {
	balanceRepository leave.BalanceRepository
	logger            *slog.Logger
}

func NewLedger(balanceRepository leave.BalanceRepository, logger *slog.Logger) *Ledger {
	return &Ledger{
		balanceRepository: balanceRepository,
		logger:            logger,
	}
}

// GetBalance returns the balance row for a user.
func (l *Ledger) GetBalance(ctx context.Context, userID string) (leave.Balance, error) {
	balance, err := l.balanceRepository.GetByUserID(ctx, userID)
	if err != nil {
		return leave.Balance{}, err
	}
	return balance, nil
}

// Accrue adds the daily increment to every employee's balance in a
// single statement.
func (l *Ledger) Accrue(ctx context.Context) error {
	increment := DailyIncrement()

	if err := l.balanceRepository.AccrueAll(ctx, increment); err != nil {
		return fmt.Errorf("failed to accrue leave balances: %w", err)
	}

	l.logger.Info("accrued daily leave increment", "increment", increment.String())
	return nil
}

// Debit subtracts the given number of days from one user's balance. The
// balance may go negative; an employee whose approval outruns accrual
// carries the deficit forward.
func (l *Ledger) Debit(ctx context.Context, userID string, days int64) error {
	if err := l.balanceRepository.Debit(ctx, userID, decimal.NewFromInt(days)); err != nil {
		return err
	}

	l.logger.Info("debited leave balance", "user_id", userID, "days", days)
	return nil
}

package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ess-hr/ess-backend-go/internal/domain/leave"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func (r *leaveBalanceRepositoryImpl) GetByUserID(ctx context.Context, userID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT user_id, balance, updated_at FROM leave_balances WHERE user_id = $1`

	var b leave.Balance
	err := q.QueryRow(ctx, query, userID).Scan(&b.UserID, &b.Balance, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}

	return b, nil
}

func (r *leaveBalanceRepositoryImpl) AccrueAll(ctx context.Context, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	// Single bulk statement, relative to the stored value, so a
	// concurrent per-user debit cannot be lost.
	query := `UPDATE leave_balances SET balance = balance + $1, updated_at = NOW()`

	_, err := q.Exec(ctx, query, amount)
	return err
}

func (r *leaveBalanceRepositoryImpl) Debit(ctx context.Context, userID string, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	// No floor: the balance may go negative.
	query := `
		UPDATE leave_balances
		SET balance = balance - $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING user_id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, days, userID).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrBalanceNotFound
		}
		return err
	}

	return nil
}

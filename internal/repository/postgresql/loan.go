package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ess-hr/ess-backend-go/internal/domain/loan"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepositoryImpl{db: db}
}

const loanColumns = `
	id, user_id, manager_id, loan_type, status,
	amount_to_borrow, amount_paid, amount_remaining, payment_status,
	expected_payment_date, reason_for_loan, next_of_kin,
	bank_name, bank_branch, bank_account_number, remarks,
	created_at, updated_at
`

func scanLoan(row pgx.Row) (loan.Loan, error) {
	var l loan.Loan
	var loanType, status, paymentStatus string
	err := row.Scan(
		&l.ID, &l.UserID, &l.ManagerID, &loanType, &status,
		&l.AmountToBorrow, &l.AmountPaid, &l.AmountRemaining, &paymentStatus,
		&l.ExpectedPaymentDate, &l.ReasonForLoan, &l.NextOfKin,
		&l.BankName, &l.BankBranch, &l.BankAccountNumber, &l.Remarks,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return loan.Loan{}, err
	}
	l.LoanType = loan.Type(loanType)
	l.Status = loan.RequestStatus(status)
	l.PaymentStatus = loan.PaymentStatus(paymentStatus)
	return l, nil
}

func (r *loanRepositoryImpl) Create(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (
			id, user_id, manager_id, loan_type, status,
			amount_to_borrow, amount_paid, amount_remaining, payment_status,
			expected_payment_date, reason_for_loan, next_of_kin,
			bank_name, bank_branch, bank_account_number, remarks,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15, $16,
			NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.ID, l.UserID, l.ManagerID, string(l.LoanType), string(l.Status),
		l.AmountToBorrow, l.AmountPaid, l.AmountRemaining, string(l.PaymentStatus),
		l.ExpectedPaymentDate, l.ReasonForLoan, l.NextOfKin,
		l.BankName, l.BankBranch, l.BankAccountNumber, l.Remarks,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to insert loan: %w", err)
	}

	return l, nil
}

func (r *loanRepositoryImpl) GetByID(ctx context.Context, id string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	l, err := scanLoan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, err
	}

	return l, nil
}

func (r *loanRepositoryImpl) GetAll(ctx context.Context) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *loanRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *loanRepositoryImpl) GetPendingForManager(ctx context.Context, managerID string) ([]loan.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE manager_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, managerID, string(loan.StatusPendingManagerApproval))
}

func (r *loanRepositoryImpl) GetPendingForCompanies(ctx context.Context, companyIDs []string, status loan.RequestStatus) ([]loan.Loan, error) {
	query := `
		SELECT l.id, l.user_id, l.manager_id, l.loan_type, l.status,
		       l.amount_to_borrow, l.amount_paid, l.amount_remaining, l.payment_status,
		       l.expected_payment_date, l.reason_for_loan, l.next_of_kin,
		       l.bank_name, l.bank_branch, l.bank_account_number, l.remarks,
		       l.created_at, l.updated_at
		FROM loans l
		INNER JOIN user_companies uc ON uc.user_id = l.user_id
		WHERE uc.company_id = ANY($1) AND l.status = $2
		ORDER BY l.created_at DESC
	`
	return r.list(ctx, query, companyIDs, string(status))
}

func (r *loanRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}

	return loans, rows.Err()
}

func (r *loanRepositoryImpl) Update(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans
		SET loan_type = $1, amount_to_borrow = $2, amount_remaining = $3,
		    reason_for_loan = $4, next_of_kin = $5,
		    bank_name = $6, bank_branch = $7, bank_account_number = $8,
		    remarks = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		string(l.LoanType), l.AmountToBorrow, l.AmountRemaining,
		l.ReasonForLoan, l.NextOfKin,
		l.BankName, l.BankBranch, l.BankAccountNumber,
		l.Remarks, l.ID,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to update loan with id %s: %w", l.ID, err)
	}

	return l, nil
}

func (r *loanRepositoryImpl) UpdateStatus(ctx context.Context, id string, status loan.RequestStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, string(status), id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.ErrLoanNotFound
		}
		return fmt.Errorf("failed to update status for loan with id %s: %w", id, err)
	}

	return nil
}

func (r *loanRepositoryImpl) RecordRepayment(ctx context.Context, id string, amount decimal.Decimal, status loan.PaymentStatus) error {
	q := GetQuerier(ctx, r.db)

	// Relative update: repayment webhooks may race with reads elsewhere.
	query := `
		UPDATE loans
		SET amount_paid = amount_paid + $1,
		    amount_remaining = amount_remaining - $1,
		    payment_status = $2,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, amount, string(status), id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.ErrLoanNotFound
		}
		return err
	}

	return nil
}

func (r *loanRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return loan.ErrLoanNotFound
	}

	return nil
}

package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/payment"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
)

type paymentRepositoryImpl struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payment.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

const paymentColumns = `
	id, loan_id, amount, payment_type, source, status,
	reference, access_code, authorization_url,
	transaction_id, currency, channel, paid_at, created_at, updated_at
`

func scanPayment(row pgx.Row) (payment.Payment, error) {
	var p payment.Payment
	var status string
	err := row.Scan(
		&p.ID, &p.LoanID, &p.Amount, &p.PaymentType, &p.Source, &status,
		&p.Reference, &p.AccessCode, &p.AuthorizationURL,
		&p.TransactionID, &p.Currency, &p.Channel, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payment.Payment{}, err
	}
	p.Status = payment.Status(status)
	return p, nil
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payments (
			id, loan_id, amount, payment_type, source, status,
			reference, access_code, authorization_url,
			transaction_id, currency, channel, paid_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.LoanID, p.Amount, p.PaymentType, p.Source, string(p.Status),
		p.Reference, p.AccessCode, p.AuthorizationURL,
		p.TransactionID, p.Currency, p.Channel, p.PaidAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payment.Payment{}, err
	}

	return p, nil
}

func (r *paymentRepositoryImpl) GetByID(ctx context.Context, id string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.Payment{}, payment.ErrPaymentNotFound
		}
		return payment.Payment{}, err
	}

	return p, nil
}

func (r *paymentRepositoryImpl) GetByReference(ctx context.Context, reference string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`

	p, err := scanPayment(q.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.Payment{}, payment.ErrPaymentNotFound
		}
		return payment.Payment{}, err
	}

	return p, nil
}

func (r *paymentRepositoryImpl) GetAll(ctx context.Context) ([]payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *paymentRepositoryImpl) Update(ctx context.Context, p payment.Payment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payments
		SET status = $1, transaction_id = $2, currency = $3, channel = $4,
		    paid_at = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		string(p.Status), p.TransactionID, p.Currency, p.Channel, p.PaidAt, p.ID,
	).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.ErrPaymentNotFound
		}
		return err
	}

	return nil
}

func (r *paymentRepositoryImpl) MarkPaid(ctx context.Context, p payment.Payment) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// The status guard lives in the WHERE clause so two concurrent
	// deliveries of the same reference cannot both settle the row.
	query := `
		UPDATE payments
		SET status = $1, transaction_id = $2, currency = $3, channel = $4,
		    paid_at = $5, updated_at = NOW()
		WHERE reference = $6 AND status <> $1
	`

	commandTag, err := q.Exec(ctx, query,
		string(payment.StatusPaid), p.TransactionID, p.Currency, p.Channel, p.PaidAt, p.Reference,
	)
	if err != nil {
		return false, err
	}

	return commandTag.RowsAffected() == 1, nil
}

func (r *paymentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return payment.ErrPaymentNotFound
	}

	return nil
}

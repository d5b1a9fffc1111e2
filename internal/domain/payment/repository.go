package payment

import "context"

// PaymentRepository - interface for the payments table
type PaymentRepository interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	GetByReference(ctx context.Context, reference string) (Payment, error)
	GetAll(ctx context.Context) ([]Payment, error)
	Update(ctx context.Context, p Payment) error
	// MarkPaid settles the row for p.Reference unless it is already
	// PAID, so concurrent redeliveries cannot both win. Returns whether
	// this call performed the settlement.
	MarkPaid(ctx context.Context, p Payment) (bool, error)
	Delete(ctx context.Context, id string) error
}

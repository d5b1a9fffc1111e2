package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

// Payment is one gateway transaction: a repayment initiated by an
// employee against a loan. Reference is the gateway's handle and the key
// webhooks settle against.
type Payment struct {
	ID               string
	LoanID           string
	Amount           decimal.Decimal
	PaymentType      string
	Source           string
	Status           Status
	Reference        string
	AccessCode       string
	AuthorizationURL string
	TransactionID    *int64
	Currency         *string
	Channel          *string
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

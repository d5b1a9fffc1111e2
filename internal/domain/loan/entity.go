package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	StatusPendingManagerApproval    RequestStatus = "PENDING_MANAGER_APPROVAL"
	StatusPendingHRApproval         RequestStatus = "PENDING_HR_APPROVAL"
	StatusPendingAccountantApproval RequestStatus = "PENDING_ACCOUNTANT_APPROVAL"
	StatusApproved                  RequestStatus = "APPROVED"
	StatusRejected                  RequestStatus = "REJECTED"
	StatusCancelled                 RequestStatus = "CANCELLED"
	// StatusDisbursed is set by the payment bridge after a successful
	// transfer, never by the approval workflow itself.
	StatusDisbursed RequestStatus = "DISBURSED"
)

// PaymentStatus tracks repayment progress, independent of approval status.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentHalfPaid      PaymentStatus = "HALF_PAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
)

type Type string

const (
	TypePersonal Type = "PERSONAL_LOAN"
	TypeSalary   Type = "SALARY_ADVANCE"
)

// Loan is a loan application. AmountRemaining starts equal to
// AmountToBorrow; repayment webhooks are the only writers of the amount
// and payment-status fields.
type Loan struct {
	ID                  string
	UserID              string
	ManagerID           string
	LoanType            Type
	Status              RequestStatus
	AmountToBorrow      decimal.Decimal
	AmountPaid          decimal.Decimal
	AmountRemaining     decimal.Decimal
	PaymentStatus       PaymentStatus
	ExpectedPaymentDate time.Time
	ReasonForLoan       string
	NextOfKin           string
	BankName            string
	BankBranch          string
	BankAccountNumber   string
	Remarks             *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

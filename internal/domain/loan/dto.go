package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ess-hr/ess-backend-go/internal/pkg/validator"
)

type CreateLoanRequest struct {
	AmountToBorrow    decimal.Decimal `json:"amount_to_borrow"`
	ReasonForLoan     string          `json:"reason_for_loan"`
	NextOfKin         string          `json:"next_of_kin"`
	BankName          string          `json:"bank_name"`
	BankBranch        string          `json:"bank_branch"`
	BankAccountNumber string          `json:"bank_account_number"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AmountToBorrow.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount_to_borrow",
			Message: "amount_to_borrow must be greater than zero",
		})
	}

	if validator.IsEmpty(r.ReasonForLoan) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason_for_loan",
			Message: "reason_for_loan is required",
		})
	}

	if validator.IsEmpty(r.NextOfKin) {
		errs = append(errs, validator.ValidationError{
			Field:   "next_of_kin",
			Message: "next_of_kin is required",
		})
	}

	if validator.IsEmpty(r.BankName) {
		errs = append(errs, validator.ValidationError{
			Field:   "bank_name",
			Message: "bank_name is required",
		})
	}

	if validator.IsEmpty(r.BankAccountNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "bank_account_number",
			Message: "bank_account_number is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateLoanRequest carries a partial patch: only non-nil fields
// overwrite. Remarks apply only when the caller is an accountant.
type UpdateLoanRequest struct {
	LoanType          *string          `json:"loan_type,omitempty"`
	AmountToBorrow    *decimal.Decimal `json:"amount_to_borrow,omitempty"`
	ReasonForLoan     *string          `json:"reason_for_loan,omitempty"`
	NextOfKin         *string          `json:"next_of_kin,omitempty"`
	BankName          *string          `json:"bank_name,omitempty"`
	BankBranch        *string          `json:"bank_branch,omitempty"`
	BankAccountNumber *string          `json:"bank_account_number,omitempty"`
	Remarks           *string          `json:"remarks,omitempty"`
}

func (r *UpdateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AmountToBorrow != nil && r.AmountToBorrow.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount_to_borrow",
			Message: "amount_to_borrow must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LoanResponse is the wire shape of a loan.
type LoanResponse struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	ManagerID           string    `json:"manager_id"`
	LoanType            string    `json:"loan_type"`
	Status              string    `json:"status"`
	AmountToBorrow      string    `json:"amount_to_borrow"`
	AmountPaid          string    `json:"amount_paid"`
	AmountRemaining     string    `json:"amount_remaining"`
	PaymentStatus       string    `json:"payment_status"`
	ExpectedPaymentDate string    `json:"expected_payment_date"`
	ReasonForLoan       string    `json:"reason_for_loan"`
	NextOfKin           string    `json:"next_of_kin"`
	BankName            string    `json:"bank_name"`
	BankBranch          string    `json:"bank_branch"`
	BankAccountNumber   string    `json:"bank_account_number"`
	Remarks             *string   `json:"remarks,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func ToLoanResponse(l Loan) LoanResponse {
	return LoanResponse{
		ID:                  l.ID,
		UserID:              l.UserID,
		ManagerID:           l.ManagerID,
		LoanType:            string(l.LoanType),
		Status:              string(l.Status),
		AmountToBorrow:      l.AmountToBorrow.StringFixed(2),
		AmountPaid:          l.AmountPaid.StringFixed(2),
		AmountRemaining:     l.AmountRemaining.StringFixed(2),
		PaymentStatus:       string(l.PaymentStatus),
		ExpectedPaymentDate: l.ExpectedPaymentDate.Format("2006-01-02"),
		ReasonForLoan:       l.ReasonForLoan,
		NextOfKin:           l.NextOfKin,
		BankName:            l.BankName,
		BankBranch:          l.BankBranch,
		BankAccountNumber:   l.BankAccountNumber,
		Remarks:             l.Remarks,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

func ToLoanResponses(loans []Loan) []LoanResponse {
	responses := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		responses = append(responses, ToLoanResponse(l))
	}
	return responses
}

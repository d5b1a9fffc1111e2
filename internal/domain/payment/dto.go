package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ess-hr/ess-backend-go/internal/pkg/validator"
)

type AcceptPaymentRequest struct {
	LoanID      string          `json:"loan_id"`
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
}

func (r *AcceptPaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LoanID) {
		errs = append(errs, validator.ValidationError{
			Field:   "loan_id",
			Message: "loan_id is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid address",
		})
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateRecipientRequest registers a mobile-money destination for
// disbursements. BankCode defaults to MTN when omitted.
type CreateRecipientRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code,omitempty"`
}

func (r *CreateRecipientRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.AccountNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "account_number",
			Message: "account_number is required",
		})
	} else if !validator.IsValidPhoneNumber(r.AccountNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "account_number",
			Message: "account_number must be a valid mobile number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// WebhookPayload is the gateway callback body. Amounts arrive in the
// gateway's minor unit (pesewas); the service converts before applying.
type WebhookPayload struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

type WebhookData struct {
	ID        int64   `json:"id"`
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Channel   string  `json:"channel"`
	PaidAt    *string `json:"paid_at"`
}

// PaymentResponse is the wire shape of a payment.
type PaymentResponse struct {
	ID               string     `json:"id"`
	LoanID           string     `json:"loan_id"`
	Amount           string     `json:"amount"`
	PaymentType      string     `json:"payment_type,omitempty"`
	Source           string     `json:"source"`
	Status           string     `json:"status"`
	Reference        string     `json:"reference"`
	AccessCode       string     `json:"access_code,omitempty"`
	AuthorizationURL string     `json:"authorization_url,omitempty"`
	TransactionID    *int64     `json:"transaction_id,omitempty"`
	Currency         *string    `json:"currency,omitempty"`
	Channel          *string    `json:"channel,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func ToPaymentResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID,
		LoanID:           p.LoanID,
		Amount:           p.Amount.StringFixed(2),
		PaymentType:      p.PaymentType,
		Source:           p.Source,
		Status:           string(p.Status),
		Reference:        p.Reference,
		AccessCode:       p.AccessCode,
		AuthorizationURL: p.AuthorizationURL,
		TransactionID:    p.TransactionID,
		Currency:         p.Currency,
		Channel:          p.Channel,
		PaidAt:           p.PaidAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToPaymentResponses(payments []Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, ToPaymentResponse(p))
	}
	return responses
}

package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ess-hr/ess-backend-go/internal/domain/loan"
	"github.com/ess-hr/ess-backend-go/internal/domain/payment"
	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
	"github.com/ess-hr/ess-backend-go/internal/pkg/paystack"
)

// Gateway is the subset of the Paystack client the workflow calls.
type Gateway interface {
	CreateRecipient(ctx context.Context, name, accountNumber, bankCode string) (paystack.RecipientResponse, error)
	Transfer(ctx context.Context, recipientCode string, amount decimal.Decimal, reference, reason string) (paystack.TransferResponse, error)
	InitializeTransaction(ctx context.Context, email string, amount decimal.Decimal) (paystack.InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (paystack.VerifyResponse, error)
}

// Verifier checks webhook signatures.
type Verifier interface {
	VerifySignature(body []byte, signature string) bool
}

type PaymentServiceImpl struct {
	tx database.Transactor
	payment.PaymentRepository
	loan.LoanRepository
	user.UserRepository
	gateway  Gateway
	verifier Verifier
	logger   *slog.Logger
}

func NewPaymentService(
	tx database.Transactor,
	paymentRepository payment.PaymentRepository,
	loanRepository loan.LoanRepository,
	userRepository user.UserRepository,
	gateway Gateway,
	verifier Verifier,
	logger *slog.Logger,
) payment.PaymentService {
	return &PaymentServiceImpl{
		tx:                tx,
		PaymentRepository: paymentRepository,
		LoanRepository:    loanRepository,
		UserRepository:    userRepository,
		gateway:           gateway,
		verifier:          verifier,
		logger:            logger,
	}
}

// CreateRecipient implements payment.PaymentService.
func (s *PaymentServiceImpl) CreateRecipient(ctx context.Context, principal user.Principal, req payment.CreateRecipientRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	u, err := s.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		return "", err
	}

	name := req.Name
	if name == "" {
		name = u.FullName()
	}

	resp, err := s.gateway.CreateRecipient(ctx, name, req.AccountNumber, req.BankCode)
	if err != nil {
		s.logger.Error("failed to create transfer recipient", "user_id", u.ID, "error", err)
		return "", payment.ErrGatewayRejected
	}

	if err := s.UserRepository.UpdateRecipientCode(ctx, u.ID, resp.RecipientCode); err != nil {
		return "", fmt.Errorf("failed to store recipient code: %w", err)
	}

	return resp.RecipientCode, nil
}

// DisburseLoan implements payment.PaymentService. Only an approved loan
// can be disbursed, and only to a requester with a stored recipient.
func (s *PaymentServiceImpl) DisburseLoan(ctx context.Context, principal user.Principal, loanID string) error {
	if principal.Role != user.RoleAccountant && principal.Role != user.RoleAdmin {
		return user.ErrNotAuthorized
	}

	l, err := s.LoanRepository.GetByID(ctx, loanID)
	if err != nil {
		return err
	}

	if l.Status != loan.StatusApproved {
		return loan.ErrNotApproved
	}

	requester, err := s.UserRepository.GetByID(ctx, l.UserID)
	if err != nil {
		return err
	}
	if requester.RecipientCode == nil || *requester.RecipientCode == "" {
		return loan.ErrNoRecipientCode
	}

	// The loan id doubles as the transfer reference so the gateway's
	// transfer events can be traced back without a join table.
	_, err = s.gateway.Transfer(ctx, *requester.RecipientCode, l.AmountToBorrow, l.ID, "Loan disbursement")
	if err != nil {
		s.logger.Error("failed to disburse loan", "loan_id", l.ID, "error", err)
		return payment.ErrGatewayRejected
	}

	if err := s.LoanRepository.UpdateStatus(ctx, l.ID, loan.StatusDisbursed); err != nil {
		return err
	}

	s.logger.Info("disbursed loan", "loan_id", l.ID, "amount", l.AmountToBorrow.String())
	return nil
}

// AcceptPayment implements payment.PaymentService.
func (s *PaymentServiceImpl) AcceptPayment(ctx context.Context, principal user.Principal, req payment.AcceptPaymentRequest) (payment.Payment, error) {
	if err := req.Validate(); err != nil {
		return payment.Payment{}, err
	}

	l, err := s.LoanRepository.GetByID(ctx, req.LoanID)
	if err != nil {
		return payment.Payment{}, err
	}

	resp, err := s.gateway.InitializeTransaction(ctx, req.Email, req.Amount)
	if err != nil {
		s.logger.Error("failed to initialize transaction", "loan_id", l.ID, "error", err)
		return payment.Payment{}, payment.ErrGatewayRejected
	}

	p := payment.Payment{
		ID:               uuid.NewString(),
		LoanID:           l.ID,
		Amount:           req.Amount,
		PaymentType:      req.PaymentType,
		Source:           "paystack",
		Status:           payment.StatusPending,
		Reference:        resp.Reference,
		AccessCode:       resp.AccessCode,
		AuthorizationURL: resp.AuthorizationURL,
	}

	created, err := s.PaymentRepository.Create(ctx, p)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to record payment: %w", err)
	}

	return created, nil
}

// HandleWebhook implements payment.PaymentService. Repayment settlement
// updates the payment row and the loan's running totals in one
// transaction; the loan's approval status is never touched here.
func (s *PaymentServiceImpl) HandleWebhook(ctx context.Context, signature string, body []byte) error {
	if !s.verifier.VerifySignature(body, signature) {
		return payment.ErrInvalidSignature
	}

	var payload payment.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if payload.Event != paystack.EventChargeSuccess {
		s.logger.Info("ignoring webhook event", "event", payload.Event)
		return nil
	}

	p, err := s.PaymentRepository.GetByReference(ctx, payload.Data.Reference)
	if err != nil {
		return err
	}

	return s.settle(ctx, p, settlement{
		TransactionID: payload.Data.ID,
		AmountMinor:   payload.Data.Amount,
		Currency:      payload.Data.Currency,
		Channel:       payload.Data.Channel,
		PaidAt:        payload.Data.PaidAt,
	})
}

// Reconcile implements payment.PaymentService. Webhooks get dropped;
// this re-checks a pending payment against the gateway and settles it
// through the same path the webhook would have taken.
func (s *PaymentServiceImpl) Reconcile(ctx context.Context, principal user.Principal, id string) (payment.Payment, error) {
	if principal.Role != user.RoleAccountant && principal.Role != user.RoleAdmin {
		return payment.Payment{}, user.ErrNotAuthorized
	}

	p, err := s.PaymentRepository.GetByID(ctx, id)
	if err != nil {
		return payment.Payment{}, err
	}
	if p.Status == payment.StatusPaid {
		return p, nil
	}

	resp, err := s.gateway.VerifyTransaction(ctx, p.Reference)
	if err != nil {
		s.logger.Error("failed to verify transaction", "payment_id", p.ID, "error", err)
		return payment.Payment{}, payment.ErrGatewayRejected
	}

	if resp.Status != "success" {
		s.logger.Info("payment not settled at gateway", "payment_id", p.ID, "gateway_status", resp.Status)
		return p, nil
	}

	st := settlement{
		TransactionID: resp.ID,
		AmountMinor:   resp.Amount,
		Currency:      resp.Currency,
		Channel:       resp.Channel,
	}
	if resp.PaidAt != "" {
		st.PaidAt = &resp.PaidAt
	}
	if err := s.settle(ctx, p, st); err != nil {
		return payment.Payment{}, err
	}

	return s.PaymentRepository.GetByID(ctx, id)
}

// settlement carries the gateway's view of a completed charge, amounts
// still in the gateway's minor unit.
type settlement struct {
	TransactionID int64
	AmountMinor   int64
	Currency      string
	Channel       string
	PaidAt        *string
}

func (s *PaymentServiceImpl) settle(ctx context.Context, p payment.Payment, st settlement) error {
	l, err := s.LoanRepository.GetByID(ctx, p.LoanID)
	if err != nil {
		return err
	}

	amount := paystack.FromMinorUnits(st.AmountMinor)
	repaymentStatus := RepaymentStatus(l.AmountPaid.Add(amount), l.AmountToBorrow)

	p.Status = payment.StatusPaid
	p.TransactionID = &st.TransactionID
	p.Currency = &st.Currency
	p.Channel = &st.Channel
	if st.PaidAt != nil {
		if paidAt, err := time.Parse(time.RFC3339, *st.PaidAt); err == nil {
			p.PaidAt = &paidAt
		}
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// Gateways redeliver. The row-level status guard decides the
		// winner, so the repayment is applied at most once even for
		// concurrent deliveries of the same reference.
		settled, err := s.PaymentRepository.MarkPaid(txCtx, p)
		if err != nil {
			return err
		}
		if !settled {
			s.logger.Info("ignoring duplicate settlement", "reference", p.Reference)
			return nil
		}
		return s.LoanRepository.RecordRepayment(txCtx, l.ID, amount, repaymentStatus)
	})
}

// GetByID implements payment.PaymentService.
func (s *PaymentServiceImpl) GetByID(ctx context.Context, principal user.Principal, id string) (payment.Payment, error) {
	p, err := s.PaymentRepository.GetByID(ctx, id)
	if err != nil {
		return payment.Payment{}, err
	}

	if principal.Role == user.RoleEmployee {
		l, err := s.LoanRepository.GetByID(ctx, p.LoanID)
		if err != nil {
			return payment.Payment{}, err
		}
		if l.UserID != principal.UserID {
			return payment.Payment{}, user.ErrNotAuthorized
		}
	}

	return p, nil
}

// ListAll implements payment.PaymentService.
func (s *PaymentServiceImpl) ListAll(ctx context.Context, principal user.Principal) ([]payment.Payment, error) {
	if principal.Role != user.RoleAccountant && principal.Role != user.RoleAdmin {
		return nil, user.ErrNotAuthorized
	}

	payments, err := s.PaymentRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, payment.ErrNoPaymentsFound
	}

	return payments, nil
}

// RepaymentStatus classifies a loan's repayment progress after a
// settlement: fully paid, exactly half paid, or partially paid.
func RepaymentStatus(totalPaid, amountToBorrow decimal.Decimal) loan.PaymentStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(amountToBorrow):
		return loan.PaymentPaid
	case totalPaid.GreaterThanOrEqual(amountToBorrow.Div(decimal.NewFromInt(2))):
		return loan.PaymentHalfPaid
	default:
		return loan.PaymentPartiallyPaid
	}
}

package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ess-hr/ess-backend-go/internal/domain/loan"
	"github.com/ess-hr/ess-backend-go/internal/domain/payment"
	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/pkg/paystack"
)

const testSecret = "sk_test_secret"

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePaymentRepo struct {
	payments map[string]payment.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]payment.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p payment.Payment) (payment.Payment, error) {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.payments[p.ID] = p
	return p, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (payment.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return payment.Payment{}, payment.ErrPaymentNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) GetByReference(_ context.Context, reference string) (payment.Payment, error) {
	for _, p := range r.payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return payment.Payment{}, payment.ErrPaymentNotFound
}

func (r *fakePaymentRepo) GetAll(_ context.Context) ([]payment.Payment, error) {
	var out []payment.Payment
	for _, p := range r.payments {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p payment.Payment) error {
	if _, ok := r.payments[p.ID]; !ok {
		return payment.ErrPaymentNotFound
	}
	r.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) MarkPaid(_ context.Context, p payment.Payment) (bool, error) {
	for id, stored := range r.payments {
		if stored.Reference != p.Reference {
			continue
		}
		if stored.Status == payment.StatusPaid {
			return false, nil
		}
		stored.Status = payment.StatusPaid
		stored.TransactionID = p.TransactionID
		stored.Currency = p.Currency
		stored.Channel = p.Channel
		stored.PaidAt = p.PaidAt
		r.payments[id] = stored
		return true, nil
	}
	return false, nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id string) error {
	delete(r.payments, id)
	return nil
}

type fakeLoanRepo struct {
	loans map[string]loan.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[string]loan.Loan)}
}

func (r *fakeLoanRepo) Create(_ context.Context, l loan.Loan) (loan.Loan, error) {
	r.loans[l.ID] = l
	return l, nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id string) (loan.Loan, error) {
	l, ok := r.loans[id]
	if !ok {
		return loan.Loan{}, loan.ErrLoanNotFound
	}
	return l, nil
}

func (r *fakeLoanRepo) GetAll(_ context.Context) ([]loan.Loan, error) { return nil, nil }

func (r *fakeLoanRepo) GetByUserID(_ context.Context, userID string) ([]loan.Loan, error) {
	return nil, nil
}

func (r *fakeLoanRepo) GetPendingForManager(_ context.Context, managerID string) ([]loan.Loan, error) {
	return nil, nil
}

func (r *fakeLoanRepo) GetPendingForCompanies(_ context.Context, companyIDs []string, status loan.RequestStatus) ([]loan.Loan, error) {
	return nil, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, l loan.Loan) (loan.Loan, error) {
	r.loans[l.ID] = l
	return l, nil
}

func (r *fakeLoanRepo) UpdateStatus(_ context.Context, id string, status loan.RequestStatus) error {
	l, ok := r.loans[id]
	if !ok {
		return loan.ErrLoanNotFound
	}
	l.Status = status
	r.loans[id] = l
	return nil
}

func (r *fakeLoanRepo) RecordRepayment(_ context.Context, id string, amount decimal.Decimal, status loan.PaymentStatus) error {
	l, ok := r.loans[id]
	if !ok {
		return loan.ErrLoanNotFound
	}
	l.AmountPaid = l.AmountPaid.Add(amount)
	l.AmountRemaining = l.AmountRemaining.Sub(amount)
	l.PaymentStatus = status
	r.loans[id] = l
	return nil
}

func (r *fakeLoanRepo) Delete(_ context.Context, id string) error {
	delete(r.loans, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetManagerID(_ context.Context, userID string) (string, error) {
	return "", user.ErrManagerNotFound
}

func (r *fakeUserRepo) GetHRCompanyIDs(_ context.Context, hrID string) ([]string, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetAccountantCompanyIDs(_ context.Context, accountantID string) ([]string, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetCompanyID(_ context.Context, userID string) (string, error) {
	return "company-1", nil
}

func (r *fakeUserRepo) GetHRByCompanyID(_ context.Context, companyID string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateRecipientCode(_ context.Context, userID, recipientCode string) error {
	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.RecipientCode = &recipientCode
	r.users[userID] = u
	return nil
}

type fakeGateway struct {
	transfers    []string
	transferErr  error
	initializeFn func(email string, amount decimal.Decimal) paystack.InitializeResponse
	verifyResp   paystack.VerifyResponse
	verifyErr    error
}

func (g *fakeGateway) CreateRecipient(_ context.Context, name, accountNumber, bankCode string) (paystack.RecipientResponse, error) {
	return paystack.RecipientResponse{RecipientCode: "RCP_test", Active: true}, nil
}

func (g *fakeGateway) Transfer(_ context.Context, recipientCode string, amount decimal.Decimal, reference, reason string) (paystack.TransferResponse, error) {
	if g.transferErr != nil {
		return paystack.TransferResponse{}, g.transferErr
	}
	g.transfers = append(g.transfers, reference)
	return paystack.TransferResponse{TransferCode: "TRF_test", Status: "success", Reference: reference}, nil
}

func (g *fakeGateway) InitializeTransaction(_ context.Context, email string, amount decimal.Decimal) (paystack.InitializeResponse, error) {
	if g.initializeFn != nil {
		return g.initializeFn(email, amount), nil
	}
	return paystack.InitializeResponse{
		AuthorizationURL: "https://checkout.paystack.com/abc123",
		AccessCode:       "abc123",
		Reference:        "ref-1",
	}, nil
}

func (g *fakeGateway) VerifyTransaction(_ context.Context, reference string) (paystack.VerifyResponse, error) {
	if g.verifyErr != nil {
		return paystack.VerifyResponse{}, g.verifyErr
	}
	resp := g.verifyResp
	resp.Reference = reference
	return resp, nil
}

type paymentFixture struct {
	svc         payment.PaymentService
	paymentRepo *fakePaymentRepo
	loanRepo    *fakeLoanRepo
	userRepo    *fakeUserRepo
	gateway     *fakeGateway
}

func newPaymentFixture() *paymentFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	paymentRepo := newFakePaymentRepo()
	loanRepo := newFakeLoanRepo()
	userRepo := &fakeUserRepo{users: map[string]user.User{
		"employee-1": {ID: "employee-1", FirstName: "Kofi", LastName: "Owusu", Role: user.RoleEmployee},
	}}
	gateway := &fakeGateway{}
	verifier := paystack.NewWebhookVerifier(testSecret)

	return &paymentFixture{
		svc:         NewPaymentService(fakeTransactor{}, paymentRepo, loanRepo, userRepo, gateway, verifier, logger),
		paymentRepo: paymentRepo,
		loanRepo:    loanRepo,
		userRepo:    userRepo,
		gateway:     gateway,
	}
}

var (
	employee   = user.Principal{UserID: "employee-1", Role: user.RoleEmployee}
	accountant = user.Principal{UserID: "accountant-1", Role: user.RoleAccountant}
)

func seedLoan(f *paymentFixture, status loan.RequestStatus, amount int64) loan.Loan {
	l := loan.Loan{
		ID:              "loan-1",
		UserID:          "employee-1",
		Status:          status,
		AmountToBorrow:  decimal.NewFromInt(amount),
		AmountPaid:      decimal.Zero,
		AmountRemaining: decimal.NewFromInt(amount),
		PaymentStatus:   loan.PaymentPending,
	}
	f.loanRepo.loans[l.ID] = l
	return l
}

func sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRepaymentStatus(t *testing.T) {
	tests := []struct {
		paid   int64
		total  int64
		expect loan.PaymentStatus
	}{
		{1000, 1000, loan.PaymentPaid},
		{1200, 1000, loan.PaymentPaid},
		{500, 1000, loan.PaymentHalfPaid},
		{999, 1000, loan.PaymentHalfPaid},
		{300, 1000, loan.PaymentPartiallyPaid},
		{499, 1000, loan.PaymentPartiallyPaid},
	}

	for _, tt := range tests {
		got := RepaymentStatus(decimal.NewFromInt(tt.paid), decimal.NewFromInt(tt.total))
		assert.Equal(t, tt.expect, got, "paid %d of %d", tt.paid, tt.total)
	}
}

func TestPaymentService_CreateRecipient_StoresCode(t *testing.T) {
	f := newPaymentFixture()

	code, err := f.svc.CreateRecipient(context.Background(), employee, payment.CreateRecipientRequest{
		Name:          "Kofi Owusu",
		AccountNumber: "0241234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP_test", code)

	u, err := f.userRepo.GetByID(context.Background(), "employee-1")
	require.NoError(t, err)
	require.NotNil(t, u.RecipientCode)
	assert.Equal(t, "RCP_test", *u.RecipientCode)
}

func TestPaymentService_DisburseLoan_Success(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusApproved, 1000)

	code := "RCP_test"
	u := f.userRepo.users["employee-1"]
	u.RecipientCode = &code
	f.userRepo.users["employee-1"] = u

	err := f.svc.DisburseLoan(context.Background(), accountant, "loan-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"loan-1"}, f.gateway.transfers)
	l, _ := f.loanRepo.GetByID(context.Background(), "loan-1")
	assert.Equal(t, loan.StatusDisbursed, l.Status)
}

func TestPaymentService_DisburseLoan_RequiresRecipientCode(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusApproved, 1000)

	err := f.svc.DisburseLoan(context.Background(), accountant, "loan-1")
	assert.ErrorIs(t, err, loan.ErrNoRecipientCode)
}

func TestPaymentService_DisburseLoan_RequiresApprovedStatus(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusPendingHRApproval, 1000)

	err := f.svc.DisburseLoan(context.Background(), accountant, "loan-1")
	assert.ErrorIs(t, err, loan.ErrNotApproved)
}

func TestPaymentService_DisburseLoan_EmployeeRejected(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusApproved, 1000)

	err := f.svc.DisburseLoan(context.Background(), employee, "loan-1")
	assert.ErrorIs(t, err, user.ErrNotAuthorized)
}

func TestPaymentService_AcceptPayment_RecordsPending(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusDisbursed, 1000)

	p, err := f.svc.AcceptPayment(context.Background(), employee, payment.AcceptPaymentRequest{
		LoanID: "loan-1",
		Email:  "kofi@example.com",
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, payment.StatusPending, p.Status)
	assert.Equal(t, "ref-1", p.Reference)
	assert.NotEmpty(t, p.AuthorizationURL)
}

func webhookBody(reference string, amountMinor int64) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"charge.success","data":{"id":42,"reference":"%s","status":"success","amount":%d,"currency":"GHS","channel":"mobile_money","paid_at":"2026-08-31T10:00:00Z"}}`,
		reference, amountMinor,
	))
}

func TestPaymentService_HandleWebhook_RejectsBadSignature(t *testing.T) {
	f := newPaymentFixture()
	body := webhookBody("ref-1", 50000)

	err := f.svc.HandleWebhook(context.Background(), "not-a-signature", body)
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestPaymentService_HandleWebhook_SettlesRepayment(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusDisbursed, 1000)

	_, err := f.svc.AcceptPayment(context.Background(), employee, payment.AcceptPaymentRequest{
		LoanID: "loan-1",
		Email:  "kofi@example.com",
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	// 500 GHS = 50000 pesewas, exactly half of the 1000 borrowed.
	body := webhookBody("ref-1", 50000)
	err = f.svc.HandleWebhook(context.Background(), sign(body), body)
	require.NoError(t, err)

	l, _ := f.loanRepo.GetByID(context.Background(), "loan-1")
	assert.True(t, l.AmountPaid.Equal(decimal.NewFromInt(500)))
	assert.True(t, l.AmountRemaining.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, loan.PaymentHalfPaid, l.PaymentStatus)
	// Approval status untouched by repayment.
	assert.Equal(t, loan.StatusDisbursed, l.Status)

	p, err := f.paymentRepo.GetByReference(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, p.Status)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, int64(42), *p.TransactionID)
}

func TestPaymentService_HandleWebhook_IgnoresDuplicateDelivery(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusDisbursed, 1000)

	_, err := f.svc.AcceptPayment(context.Background(), employee, payment.AcceptPaymentRequest{
		LoanID: "loan-1",
		Email:  "kofi@example.com",
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	body := webhookBody("ref-1", 50000)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), sign(body), body))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), sign(body), body))

	l, _ := f.loanRepo.GetByID(context.Background(), "loan-1")
	assert.True(t, l.AmountPaid.Equal(decimal.NewFromInt(500)), "second delivery must not double-apply")
}

func TestPaymentService_Reconcile_SettlesMissedWebhook(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusDisbursed, 1000)

	created, err := f.svc.AcceptPayment(context.Background(), employee, payment.AcceptPaymentRequest{
		LoanID: "loan-1",
		Email:  "kofi@example.com",
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	f.gateway.verifyResp = paystack.VerifyResponse{
		ID:       42,
		Status:   "success",
		Amount:   50000,
		Currency: "GHS",
		Channel:  "mobile_money",
		PaidAt:   "2026-08-31T10:00:00Z",
	}

	p, err := f.svc.Reconcile(context.Background(), accountant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, p.Status)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, int64(42), *p.TransactionID)

	l, _ := f.loanRepo.GetByID(context.Background(), "loan-1")
	assert.True(t, l.AmountPaid.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, loan.PaymentHalfPaid, l.PaymentStatus)
}

func TestPaymentService_Reconcile_PendingAtGatewayLeftUntouched(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusDisbursed, 1000)

	created, err := f.svc.AcceptPayment(context.Background(), employee, payment.AcceptPaymentRequest{
		LoanID: "loan-1",
		Email:  "kofi@example.com",
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	f.gateway.verifyResp = paystack.VerifyResponse{Status: "abandoned"}

	p, err := f.svc.Reconcile(context.Background(), accountant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, p.Status)

	l, _ := f.loanRepo.GetByID(context.Background(), "loan-1")
	assert.True(t, l.AmountPaid.Equal(decimal.Zero))
}

func TestPaymentService_Reconcile_AlreadyPaidSkipsGateway(t *testing.T) {
	f := newPaymentFixture()
	seedLoan(f, loan.StatusDisbursed, 1000)

	created, err := f.svc.AcceptPayment(context.Background(), employee, payment.AcceptPaymentRequest{
		LoanID: "loan-1",
		Email:  "kofi@example.com",
		Amount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	body := webhookBody("ref-1", 50000)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), sign(body), body))

	// A gateway error here would surface if reconcile still called out.
	f.gateway.verifyErr = errors.New("gateway down")

	p, err := f.svc.Reconcile(context.Background(), accountant, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, p.Status)

	l, _ := f.loanRepo.GetByID(context.Background(), "loan-1")
	assert.True(t, l.AmountPaid.Equal(decimal.NewFromInt(500)))
}

func TestPaymentService_Reconcile_EmployeeRejected(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.Reconcile(context.Background(), employee, "payment-1")
	assert.ErrorIs(t, err, user.ErrNotAuthorized)
}

func TestPaymentService_HandleWebhook_IgnoresOtherEvents(t *testing.T) {
	f := newPaymentFixture()
	body := []byte(`{"event":"transfer.success","data":{"reference":"loan-1"}}`)

	err := f.svc.HandleWebhook(context.Background(), sign(body), body)
	assert.NoError(t, err)
}

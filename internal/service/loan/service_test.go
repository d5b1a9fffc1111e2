package loan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ess-hr/ess-backend-go/internal/domain/loan"
	"github.com/ess-hr/ess-backend-go/internal/domain/notification"
	"github.com/ess-hr/ess-backend-go/internal/domain/user"
)

type fakeLoanRepo struct {
	loans map[string]loan.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[string]loan.Loan)}
}

func (r *fakeLoanRepo) Create(_ context.Context, l loan.Loan) (loan.Loan, error) {
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
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

func (r *fakeLoanRepo) GetAll(_ context.Context) ([]loan.Loan, error) {
	var out []loan.Loan
	for _, l := range r.loans {
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLoanRepo) GetByUserID(_ context.Context, userID string) ([]loan.Loan, error) {
	var out []loan.Loan
	for _, l := range r.loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) GetPendingForManager(_ context.Context, managerID string) ([]loan.Loan, error) {
	var out []loan.Loan
	for _, l := range r.loans {
		if l.ManagerID == managerID && l.Status == loan.StatusPendingManagerApproval {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) GetPendingForCompanies(_ context.Context, companyIDs []string, status loan.RequestStatus) ([]loan.Loan, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	var out []loan.Loan
	for _, l := range r.loans {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, l loan.Loan) (loan.Loan, error) {
	if _, ok := r.loans[l.ID]; !ok {
		return loan.Loan{}, loan.ErrLoanNotFound
	}
	l.UpdatedAt = time.Now()
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
	if _, ok := r.loans[id]; !ok {
		return loan.ErrLoanNotFound
	}
	delete(r.loans, id)
	return nil
}

type fakeUserRepo struct {
	users        map[string]user.User
	hrCompanies  map[string][]string
	accCompanies map[string][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:        make(map[string]user.User),
		hrCompanies:  make(map[string][]string),
		accCompanies: make(map[string][]string),
	}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetManagerID(_ context.Context, userID string) (string, error) {
	u, ok := r.users[userID]
	if !ok {
		return "", user.ErrUserNotFound
	}
	if u.ManagerID == nil {
		return "", user.ErrManagerNotFound
	}
	return *u.ManagerID, nil
}

func (r *fakeUserRepo) GetHRCompanyIDs(_ context.Context, hrID string) ([]string, error) {
	return r.hrCompanies[hrID], nil
}

func (r *fakeUserRepo) GetAccountantCompanyIDs(_ context.Context, accountantID string) ([]string, error) {
	return r.accCompanies[accountantID], nil
}

func (r *fakeUserRepo) GetCompanyID(_ context.Context, userID string) (string, error) {
	return "company-1", nil
}

func (r *fakeUserRepo) GetHRByCompanyID(_ context.Context, companyID string) (user.User, error) {
	for _, u := range r.users {
		if u.Role == user.RoleHR {
			return u, nil
		}
	}
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

type fakeNotifier struct {
	requesterAlerts []notification.Event
	managerAlerts   []notification.Event
	hrAlerts        []notification.Event
}

func (n *fakeNotifier) AlertRequester(_ context.Context, ev notification.Event) error {
	n.requesterAlerts = append(n.requesterAlerts, ev)
	return nil
}

func (n *fakeNotifier) AlertManager(_ context.Context, ev notification.Event) error {
	n.managerAlerts = append(n.managerAlerts, ev)
	return nil
}

func (n *fakeNotifier) AlertHR(_ context.Context, ev notification.Event) error {
	n.hrAlerts = append(n.hrAlerts, ev)
	return nil
}

type fakeDisburser struct {
	disbursed []string
	err       error
}

func (d *fakeDisburser) DisburseLoan(_ context.Context, _ user.Principal, loanID string) error {
	if d.err != nil {
		return d.err
	}
	d.disbursed = append(d.disbursed, loanID)
	return nil
}

type loanFixture struct {
	svc       loan.LoanService
	loanRepo  *fakeLoanRepo
	userRepo  *fakeUserRepo
	notifier  *fakeNotifier
	disburser *fakeDisburser
}

func newLoanFixture() *loanFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loanRepo := newFakeLoanRepo()
	userRepo := newFakeUserRepo()
	notifier := &fakeNotifier{}
	disburser := &fakeDisburser{}

	managerID := "manager-1"
	userRepo.users["employee-1"] = user.User{ID: "employee-1", Role: user.RoleEmployee, ManagerID: &managerID}
	userRepo.users["manager-1"] = user.User{ID: "manager-1", Role: user.RoleManager}
	userRepo.users["hr-1"] = user.User{ID: "hr-1", Role: user.RoleHR}
	userRepo.hrCompanies["hr-1"] = []string{"company-1"}
	userRepo.accCompanies["accountant-1"] = []string{"company-1"}

	return &loanFixture{
		svc:       NewLoanService(disburser, loanRepo, userRepo, notifier, logger),
		loanRepo:  loanRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		disburser: disburser,
	}
}

var (
	employee   = user.Principal{UserID: "employee-1", Role: user.RoleEmployee}
	manager    = user.Principal{UserID: "manager-1", Role: user.RoleManager}
	hr         = user.Principal{UserID: "hr-1", Role: user.RoleHR}
	accountant = user.Principal{UserID: "accountant-1", Role: user.RoleAccountant}
)

func submitLoan(t *testing.T, f *loanFixture) loan.Loan {
	t.Helper()
	created, err := f.svc.Submit(context.Background(), employee, loan.CreateLoanRequest{
		AmountToBorrow:    decimal.NewFromInt(1000),
		ReasonForLoan:     "School fees",
		NextOfKin:         "Ama Mensah",
		BankName:          "GCB Bank",
		BankBranch:        "Accra Main",
		BankAccountNumber: "1234567890",
	})
	require.NoError(t, err)
	return created
}

func TestLoanService_Submit_Defaults(t *testing.T) {
	f := newLoanFixture()
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	created := submitLoan(t, f)

	assert.Equal(t, loan.TypePersonal, created.LoanType)
	assert.Equal(t, loan.StatusPendingManagerApproval, created.Status)
	assert.Equal(t, loan.PaymentPending, created.PaymentStatus)
	assert.True(t, created.AmountRemaining.Equal(created.AmountToBorrow))
	assert.True(t, created.AmountPaid.IsZero())
	assert.Equal(t, fixed.AddDate(0, 1, 0), created.ExpectedPaymentDate)
	assert.Equal(t, "manager-1", created.ManagerID)
}

func TestLoanService_Submit_ValidationFails(t *testing.T) {
	f := newLoanFixture()

	_, err := f.svc.Submit(context.Background(), employee, loan.CreateLoanRequest{
		AmountToBorrow: decimal.Zero,
	})
	assert.Error(t, err)
}

func TestLoanService_Transition_ThroughAccountantStage(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	_, err := f.svc.Transition(context.Background(), manager, created.ID, loan.StatusPendingHRApproval)
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), hr, created.ID, loan.StatusPendingAccountantApproval)
	require.NoError(t, err)

	final, err := f.svc.Transition(context.Background(), accountant, created.ID, loan.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusApproved, final.Status)
	assert.Equal(t, []string{created.ID}, f.disburser.disbursed)
}

func TestLoanService_Transition_DisburseFailureKeepsApproval(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)
	f.disburser.err = errors.New("gateway unavailable")

	final, err := f.svc.Transition(context.Background(), accountant, created.ID, loan.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusApproved, final.Status)

	stored, err := f.loanRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusApproved, stored.Status)
}

func TestLoanService_Transition_UnrecognizedTargetIsNoOp(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	result, err := f.svc.Transition(context.Background(), manager, created.ID, loan.RequestStatus("PROCESSING"))
	require.NoError(t, err)
	assert.Equal(t, loan.StatusPendingManagerApproval, result.Status)
}

func TestLoanService_Update_RemarksAccountantOnly(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	remarks := "Verified bank details"
	updated, err := f.svc.Update(context.Background(), employee, created.ID, loan.UpdateLoanRequest{Remarks: &remarks})
	require.NoError(t, err)
	assert.Nil(t, updated.Remarks, "employee-supplied remarks must be ignored")

	updated, err = f.svc.Update(context.Background(), accountant, created.ID, loan.UpdateLoanRequest{Remarks: &remarks})
	require.NoError(t, err)
	require.NotNil(t, updated.Remarks)
	assert.Equal(t, remarks, *updated.Remarks)
}

func TestLoanService_Update_AmountResetsRemaining(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	newAmount := decimal.NewFromInt(1500)
	updated, err := f.svc.Update(context.Background(), employee, created.ID, loan.UpdateLoanRequest{AmountToBorrow: &newAmount})
	require.NoError(t, err)
	assert.True(t, updated.AmountRemaining.Equal(newAmount))
}

func TestLoanService_Update_BlockedAfterManagerApproval(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	_, err := f.svc.Transition(context.Background(), manager, created.ID, loan.StatusPendingHRApproval)
	require.NoError(t, err)

	reason := "Changed my mind"
	_, err = f.svc.Update(context.Background(), employee, created.ID, loan.UpdateLoanRequest{ReasonForLoan: &reason})
	assert.ErrorIs(t, err, loan.ErrAlreadyInApproval)
}

func TestLoanService_Remove_ReturnsDeletedSnapshot(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	deleted, err := f.svc.Remove(context.Background(), employee, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = f.loanRepo.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, loan.ErrLoanNotFound)
}

func TestLoanService_Remove_BlockedAfterManagerApproval(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	_, err := f.svc.Transition(context.Background(), manager, created.ID, loan.StatusPendingHRApproval)
	require.NoError(t, err)

	_, err = f.svc.Remove(context.Background(), employee, created.ID)
	assert.ErrorIs(t, err, loan.ErrAlreadyInApproval)
}

func TestLoanService_Cancel_OnlyBeforeManagerApproval(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	_, err := f.svc.Transition(context.Background(), manager, created.ID, loan.StatusPendingHRApproval)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), employee, created.ID)
	assert.ErrorIs(t, err, loan.ErrManagerHasApproved)
}

func TestLoanService_ListForApprover_StageScoping(t *testing.T) {
	f := newLoanFixture()
	created := submitLoan(t, f)

	loans, err := f.svc.ListForApprover(context.Background(), manager)
	require.NoError(t, err)
	assert.Len(t, loans, 1)

	// Accountant sees nothing until the loan reaches their stage.
	_, err = f.svc.ListForApprover(context.Background(), accountant)
	assert.ErrorIs(t, err, loan.ErrNoLoansFound)

	_, err = f.svc.Transition(context.Background(), manager, created.ID, loan.StatusPendingHRApproval)
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), hr, created.ID, loan.StatusPendingAccountantApproval)
	require.NoError(t, err)

	loans, err = f.svc.ListForApprover(context.Background(), accountant)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
}

func TestLoanService_ListForApprover_GeneralManagerRejected(t *testing.T) {
	f := newLoanFixture()
	submitLoan(t, f)

	gm := user.Principal{UserID: "gm-1", Role: user.RoleGeneralManager}
	_, err := f.svc.ListForApprover(context.Background(), gm)
	assert.ErrorIs(t, err, user.ErrNotAuthorized)
}

func TestLoanService_ListAll_AdminOnly(t *testing.T) {
	f := newLoanFixture()
	submitLoan(t, f)

	admin := user.Principal{UserID: "admin-1", Role: user.RoleAdmin}
	loans, err := f.svc.ListAll(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, loans, 1)

	gm := user.Principal{UserID: "gm-1", Role: user.RoleGeneralManager}
	_, err = f.svc.ListAll(context.Background(), gm)
	assert.ErrorIs(t, err, user.ErrNotAuthorized)
}

func TestLoanService_ListForApprover_EmployeeRejected(t *testing.T) {
	f := newLoanFixture()

	_, err := f.svc.ListForApprover(context.Background(), employee)
	assert.ErrorIs(t, err, user.ErrNotAuthorized)
}

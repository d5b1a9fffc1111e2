package loan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ess-hr/ess-backend-go/internal/domain/loan"
	"github.com/ess-hr/ess-backend-go/internal/domain/notification"
	"github.com/ess-hr/ess-backend-go/internal/domain/user"
)

// now is swapped out in tests to pin the expected payment date.
var now = time.Now

// Disburser pays out an approved loan. Satisfied by the payment service.
type Disburser interface {
	DisburseLoan(ctx context.Context, principal user.Principal, loanID string) error
}

type LoanServiceImpl struct {
	disburser Disburser
	loan.LoanRepository
	user.UserRepository
	notifier notification.Notifier
	logger   *slog.Logger
}

func NewLoanService(
	disburser Disburser,
	loanRepository loan.LoanRepository,
	userRepository user.UserRepository,
	notifier notification.Notifier,
	logger *slog.Logger,
) loan.LoanService {
	return &LoanServiceImpl{
		disburser:      disburser,
		LoanRepository: loanRepository,
		UserRepository: userRepository,
		notifier:       notifier,
		logger:         logger,
	}
}

// Submit implements loan.LoanService. New loans default to the personal
// loan type with repayment expected one month out, and start owing the
// full borrowed amount.
func (s *LoanServiceImpl) Submit(ctx context.Context, principal user.Principal, req loan.CreateLoanRequest) (loan.Loan, error) {
	if err := req.Validate(); err != nil {
		return loan.Loan{}, err
	}

	managerID, err := s.UserRepository.GetManagerID(ctx, principal.UserID)
	if err != nil {
		return loan.Loan{}, err
	}

	l := loan.Loan{
		ID:                  uuid.NewString(),
		UserID:              principal.UserID,
		ManagerID:           managerID,
		LoanType:            loan.TypePersonal,
		Status:              loan.StatusPendingManagerApproval,
		AmountToBorrow:      req.AmountToBorrow,
		AmountPaid:          decimal.Zero,
		AmountRemaining:     req.AmountToBorrow,
		PaymentStatus:       loan.PaymentPending,
		ExpectedPaymentDate: now().AddDate(0, 1, 0),
		ReasonForLoan:       req.ReasonForLoan,
		NextOfKin:           req.NextOfKin,
		BankName:            req.BankName,
		BankBranch:          req.BankBranch,
		BankAccountNumber:   req.BankAccountNumber,
	}

	created, err := s.LoanRepository.Create(ctx, l)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}

	s.notify(ctx, created, func(ev notification.Event) {
		if err := s.notifier.AlertRequester(ctx, ev); err != nil {
			s.logger.Warn("failed to alert requester", "loan_id", created.ID, "error", err)
		}
		if err := s.notifier.AlertManager(ctx, ev); err != nil {
			s.logger.Warn("failed to alert manager", "loan_id", created.ID, "error", err)
		}
	})

	return created, nil
}

// Update implements loan.LoanService.
func (s *LoanServiceImpl) Update(ctx context.Context, principal user.Principal, id string, req loan.UpdateLoanRequest) (loan.Loan, error) {
	if err := req.Validate(); err != nil {
		return loan.Loan{}, err
	}

	l, err := s.LoanRepository.GetByID(ctx, id)
	if err != nil {
		return loan.Loan{}, err
	}

	isOwner := l.UserID == principal.UserID
	isAccountant := principal.Role == user.RoleAccountant
	if !isOwner && !isAccountant && principal.Role != user.RoleAdmin {
		return loan.Loan{}, user.ErrNotAuthorized
	}

	if l.Status != loan.StatusPendingManagerApproval && !isAccountant {
		return loan.Loan{}, loan.ErrAlreadyInApproval
	}

	if req.LoanType != nil {
		l.LoanType = loan.Type(*req.LoanType)
	}
	if req.AmountToBorrow != nil {
		l.AmountToBorrow = *req.AmountToBorrow
		// Nothing is repaid before approval, so the amount still owed
		// follows the requested amount.
		l.AmountRemaining = *req.AmountToBorrow
	}
	if req.ReasonForLoan != nil {
		l.ReasonForLoan = *req.ReasonForLoan
	}
	if req.NextOfKin != nil {
		l.NextOfKin = *req.NextOfKin
	}
	if req.BankName != nil {
		l.BankName = *req.BankName
	}
	if req.BankBranch != nil {
		l.BankBranch = *req.BankBranch
	}
	if req.BankAccountNumber != nil {
		l.BankAccountNumber = *req.BankAccountNumber
	}
	if req.Remarks != nil && isAccountant {
		l.Remarks = req.Remarks
	}

	updated, err := s.LoanRepository.Update(ctx, l)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to update loan: %w", err)
	}

	return updated, nil
}

// Transition implements loan.LoanService.
func (s *LoanServiceImpl) Transition(ctx context.Context, principal user.Principal, id string, target loan.RequestStatus) (loan.Loan, error) {
	l, err := s.LoanRepository.GetByID(ctx, id)
	if err != nil {
		return loan.Loan{}, err
	}

	switch target {
	case loan.StatusPendingHRApproval, loan.StatusPendingAccountantApproval,
		loan.StatusApproved, loan.StatusRejected:
	default:
		s.logger.Warn("ignoring unrecognized transition target",
			"loan_id", l.ID, "target", string(target))
		return l, nil
	}

	if err := s.LoanRepository.UpdateStatus(ctx, id, target); err != nil {
		return loan.Loan{}, err
	}
	l.Status = target

	// Payout is a best-effort side effect of final approval. A gateway
	// failure leaves the loan APPROVED for a manual disburse call later.
	if target == loan.StatusApproved {
		if err := s.disburser.DisburseLoan(ctx, principal, l.ID); err != nil {
			s.logger.Warn("failed to disburse approved loan", "loan_id", l.ID, "error", err)
		}
	}

	s.notify(ctx, l, func(ev notification.Event) {
		if err := s.notifier.AlertRequester(ctx, ev); err != nil {
			s.logger.Warn("failed to alert requester", "loan_id", l.ID, "error", err)
		}
		if target == loan.StatusPendingHRApproval {
			if err := s.notifier.AlertHR(ctx, ev); err != nil {
				s.logger.Warn("failed to alert hr", "loan_id", l.ID, "error", err)
			}
		}
	})

	return l, nil
}

// Cancel implements loan.LoanService.
func (s *LoanServiceImpl) Cancel(ctx context.Context, principal user.Principal, id string) (loan.Loan, error) {
	l, err := s.LoanRepository.GetByID(ctx, id)
	if err != nil {
		return loan.Loan{}, err
	}

	if l.UserID != principal.UserID && principal.Role != user.RoleAdmin {
		return loan.Loan{}, user.ErrNotAuthorized
	}

	if l.Status != loan.StatusPendingManagerApproval {
		return loan.Loan{}, loan.ErrManagerHasApproved
	}

	if err := s.LoanRepository.UpdateStatus(ctx, id, loan.StatusCancelled); err != nil {
		return loan.Loan{}, err
	}
	l.Status = loan.StatusCancelled

	s.notify(ctx, l, func(ev notification.Event) {
		if err := s.notifier.AlertRequester(ctx, ev); err != nil {
			s.logger.Warn("failed to alert requester", "loan_id", l.ID, "error", err)
		}
	})

	return l, nil
}

// Remove implements loan.LoanService.
func (s *LoanServiceImpl) Remove(ctx context.Context, principal user.Principal, id string) (loan.Loan, error) {
	l, err := s.LoanRepository.GetByID(ctx, id)
	if err != nil {
		return loan.Loan{}, err
	}

	if l.UserID != principal.UserID && principal.Role != user.RoleAdmin {
		return loan.Loan{}, user.ErrNotAuthorized
	}

	if l.Status != loan.StatusPendingManagerApproval {
		return loan.Loan{}, loan.ErrAlreadyInApproval
	}

	if err := s.LoanRepository.Delete(ctx, id); err != nil {
		return loan.Loan{}, err
	}
	return l, nil
}

// GetByID implements loan.LoanService.
func (s *LoanServiceImpl) GetByID(ctx context.Context, principal user.Principal, id string) (loan.Loan, error) {
	l, err := s.LoanRepository.GetByID(ctx, id)
	if err != nil {
		return loan.Loan{}, err
	}

	if principal.Role == user.RoleEmployee && l.UserID != principal.UserID {
		return loan.Loan{}, user.ErrNotAuthorized
	}

	return l, nil
}

// ListAll implements loan.LoanService. Loan amounts are sensitive, so
// the unscoped view stays admin-only.
func (s *LoanServiceImpl) ListAll(ctx context.Context, principal user.Principal) ([]loan.Loan, error) {
	if principal.Role != user.RoleAdmin {
		return nil, user.ErrNotAuthorized
	}

	loans, err := s.LoanRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, loan.ErrNoLoansFound
	}

	return loans, nil
}

// ListForRequester implements loan.LoanService.
func (s *LoanServiceImpl) ListForRequester(ctx context.Context, principal user.Principal) ([]loan.Loan, error) {
	loans, err := s.LoanRepository.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, loan.ErrNoLoansFound
	}

	return loans, nil
}

// ListForApprover implements loan.LoanService. Accountants see the stage
// after HR; each role only ever sees loans parked at its own stage.
func (s *LoanServiceImpl) ListForApprover(ctx context.Context, principal user.Principal) ([]loan.Loan, error) {
	var loans []loan.Loan
	var err error

	switch principal.Role {
	case user.RoleManager:
		loans, err = s.LoanRepository.GetPendingForManager(ctx, principal.UserID)
	case user.RoleHR:
		var companyIDs []string
		companyIDs, err = s.UserRepository.GetHRCompanyIDs(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		loans, err = s.LoanRepository.GetPendingForCompanies(ctx, companyIDs, loan.StatusPendingHRApproval)
	case user.RoleAccountant:
		var companyIDs []string
		companyIDs, err = s.UserRepository.GetAccountantCompanyIDs(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		loans, err = s.LoanRepository.GetPendingForCompanies(ctx, companyIDs, loan.StatusPendingAccountantApproval)
	default:
		return nil, user.ErrNotAuthorized
	}

	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, loan.ErrNoLoansFound
	}

	return loans, nil
}

func (s *LoanServiceImpl) notify(ctx context.Context, l loan.Loan, send func(notification.Event)) {
	send(notification.Event{
		UserID:      l.UserID,
		Kind:        "loan",
		Reference:   l.ID,
		Status:      string(l.Status),
		AmountLabel: "GHS " + l.AmountToBorrow.StringFixed(2),
	})
}

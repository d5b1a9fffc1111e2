package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ess-hr/ess-backend-go/internal/domain/leave"
	"github.com/ess-hr/ess-backend-go/internal/domain/notification"
	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
	"github.com/ess-hr/ess-backend-go/internal/service/balance"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.RequestRepository
	user.UserRepository
	ledger   *balance.Ledger
	notifier notification.Notifier
	logger   *slog.Logger
}

func NewLeaveService(
	tx database.Transactor,
	requestRepository leave.RequestRepository,
	userRepository user.UserRepository,
	ledger *balance.Ledger,
	notifier notification.Notifier,
	logger *slog.Logger,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                tx,
		RequestRepository: requestRepository,
		UserRepository:    userRepository,
		ledger:            ledger,
		notifier:          notifier,
		logger:            logger,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, principal user.Principal, req leave.CreateRequestRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	if startDate.After(endDate) {
		return leave.Request{}, leave.ErrInvalidDateRange
	}

	overlapping, err := s.RequestRepository.CountOverlapping(ctx, principal.UserID, startDate, endDate)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	if overlapping > 0 {
		return leave.Request{}, leave.ErrOverlappingLeave
	}

	// Manager resolved once here; later org changes do not move a
	// pending request to a new approver.
	managerID, err := s.UserRepository.GetManagerID(ctx, principal.UserID)
	if err != nil {
		return leave.Request{}, err
	}

	request := leave.Request{
		ID:          uuid.NewString(),
		UserID:      principal.UserID,
		ManagerID:   managerID,
		StartDate:   startDate,
		EndDate:     endDate,
		LeaveDays:   leave.DaysBetween(startDate, endDate),
		LeaveType:   leave.Type(req.LeaveType),
		Status:      leave.StatusPendingManagerApproval,
		LeaveNumber: newLeaveNumber(),
	}

	created, err := s.RequestRepository.Create(ctx, request)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notify(ctx, created, func(ev notification.Event) {
		if err := s.notifier.AlertRequester(ctx, ev); err != nil {
			s.logger.Warn("failed to alert requester", "leave_number", created.LeaveNumber, "error", err)
		}
		if err := s.notifier.AlertManager(ctx, ev); err != nil {
			s.logger.Warn("failed to alert manager", "leave_number", created.LeaveNumber, "error", err)
		}
	})

	return created, nil
}

// Update implements leave.LeaveService.
func (s *LeaveServiceImpl) Update(ctx context.Context, principal user.Principal, id string, req leave.UpdateRequestRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.Request{}, err
	}

	if request.UserID != principal.UserID && principal.Role != user.RoleAdmin {
		return leave.Request{}, user.ErrNotAuthorized
	}

	// Once the manager has passed the request on, the dates are part of
	// someone else's decision.
	if request.Status == leave.StatusPendingHRApproval || request.Status == leave.StatusApproved {
		return leave.Request{}, leave.ErrAlreadyInApproval
	}

	if req.StartDate != nil {
		request.StartDate, _ = time.Parse("2006-01-02", *req.StartDate)
	}
	if req.EndDate != nil {
		request.EndDate, _ = time.Parse("2006-01-02", *req.EndDate)
	}
	if req.LeaveType != nil {
		request.LeaveType = leave.Type(*req.LeaveType)
	}

	if request.StartDate.After(request.EndDate) {
		return leave.Request{}, leave.ErrInvalidDateRange
	}
	request.LeaveDays = leave.DaysBetween(request.StartDate, request.EndDate)

	updated, err := s.RequestRepository.Update(ctx, request)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return updated, nil
}

// Transition implements leave.LeaveService. Approving an annual leave
// debits the requester's balance in the same transaction as the status
// write; a missing balance row aborts the whole transition.
func (s *LeaveServiceImpl) Transition(ctx context.Context, principal user.Principal, id string, target leave.RequestStatus) (leave.Request, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.Request{}, err
	}

	switch target {
	case leave.StatusPendingHRApproval, leave.StatusApproved, leave.StatusRejected:
	default:
		// Unrecognized targets are acknowledged and dropped rather than
		// rejected, so an approver UI sending a stale status does not
		// surface an error to the user.
		s.logger.Warn("ignoring unrecognized transition target",
			"leave_number", request.LeaveNumber, "target", string(target))
		return request, nil
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.RequestRepository.UpdateStatus(txCtx, id, target); err != nil {
			return err
		}

		if target == leave.StatusApproved && request.LeaveType == leave.TypeAnnual {
			if err := s.ledger.Debit(txCtx, request.UserID, request.LeaveDays); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}

	request.Status = target

	s.notify(ctx, request, func(ev notification.Event) {
		if err := s.notifier.AlertRequester(ctx, ev); err != nil {
			s.logger.Warn("failed to alert requester", "leave_number", request.LeaveNumber, "error", err)
		}
		if target == leave.StatusPendingHRApproval {
			if err := s.notifier.AlertHR(ctx, ev); err != nil {
				s.logger.Warn("failed to alert hr", "leave_number", request.LeaveNumber, "error", err)
			}
		}
	})

	return request, nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, principal user.Principal, id string) (leave.Request, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.Request{}, err
	}

	if request.UserID != principal.UserID && principal.Role != user.RoleAdmin {
		return leave.Request{}, user.ErrNotAuthorized
	}

	if request.Status != leave.StatusPendingManagerApproval {
		return leave.Request{}, leave.ErrManagerHasApproved
	}

	if err := s.RequestRepository.UpdateStatus(ctx, id, leave.StatusCancelled); err != nil {
		return leave.Request{}, err
	}
	request.Status = leave.StatusCancelled

	s.notify(ctx, request, func(ev notification.Event) {
		if err := s.notifier.AlertRequester(ctx, ev); err != nil {
			s.logger.Warn("failed to alert requester", "leave_number", request.LeaveNumber, "error", err)
		}
	})

	return request, nil
}

// Remove implements leave.LeaveService.
func (s *LeaveServiceImpl) Remove(ctx context.Context, principal user.Principal, id string) (leave.Request, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.Request{}, err
	}

	if request.UserID != principal.UserID && principal.Role != user.RoleAdmin {
		return leave.Request{}, user.ErrNotAuthorized
	}

	// Same guard as update: gone from the manager's desk, gone from reach.
	if request.Status == leave.StatusPendingHRApproval || request.Status == leave.StatusApproved {
		return leave.Request{}, leave.ErrAlreadyInApproval
	}

	if err := s.RequestRepository.Delete(ctx, id); err != nil {
		return leave.Request{}, err
	}
	return request, nil
}

// GetByID implements leave.LeaveService.
func (s *LeaveServiceImpl) GetByID(ctx context.Context, principal user.Principal, id string) (leave.Request, error) {
	request, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.Request{}, err
	}

	if principal.Role == user.RoleEmployee && request.UserID != principal.UserID {
		return leave.Request{}, user.ErrNotAuthorized
	}

	return request, nil
}

// ListAll implements leave.LeaveService. The general manager and HR get
// the unscoped view alongside admins.
func (s *LeaveServiceImpl) ListAll(ctx context.Context, principal user.Principal) ([]leave.Request, error) {
	switch principal.Role {
	case user.RoleAdmin, user.RoleGeneralManager, user.RoleHR:
	default:
		return nil, user.ErrNotAuthorized
	}

	requests, err := s.RequestRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, leave.ErrNoRequestsFound
	}

	return requests, nil
}

// ListForRequester implements leave.LeaveService.
func (s *LeaveServiceImpl) ListForRequester(ctx context.Context, principal user.Principal) ([]leave.Request, error) {
	requests, err := s.RequestRepository.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, leave.ErrNoRequestsFound
	}

	return requests, nil
}

// ListForApprover implements leave.LeaveService. Visibility is scoped by
// role: managers see their own queue, HR sees the HR stage across the
// companies they administer.
func (s *LeaveServiceImpl) ListForApprover(ctx context.Context, principal user.Principal) ([]leave.Request, error) {
	var requests []leave.Request
	var err error

	switch principal.Role {
	case user.RoleManager:
		requests, err = s.RequestRepository.GetPendingForManager(ctx, principal.UserID)
	case user.RoleHR:
		var companyIDs []string
		companyIDs, err = s.UserRepository.GetHRCompanyIDs(ctx, principal.UserID)
		if err != nil {
			return nil, err
		}
		requests, err = s.RequestRepository.GetPendingForCompanies(ctx, companyIDs)
	default:
		return nil, user.ErrNotAuthorized
	}

	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, leave.ErrNoRequestsFound
	}

	return requests, nil
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, principal user.Principal) (leave.Balance, error) {
	return s.ledger.GetBalance(ctx, principal.UserID)
}

// notify builds the event for a request and hands it to send. Delivery
// failures are logged by the callback and never propagate.
func (s *LeaveServiceImpl) notify(ctx context.Context, request leave.Request, send func(notification.Event)) {
	send(notification.Event{
		UserID:    request.UserID,
		Kind:      "leave",
		Reference: request.LeaveNumber,
		Status:    string(request.Status),
		LeaveType: string(request.LeaveType),
		LeaveDays: request.LeaveDays,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
	})
}

func newLeaveNumber() string {
	return "LV-" + strings.ToUpper(uuid.NewString()[:8])
}

package notification

import (
	"context"
	"log/slog"

	"github.com/ess-hr/ess-backend-go/internal/domain/notification"
	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/pkg/email"
)

// EmailNotifier delivers workflow events over SMTP. Every method is
// best-effort: callers log failures and move on, a lost email never
// blocks a transition.
type EmailNotifier struct {
	userRepository user.UserRepository
	emailService   email.EmailService
	logger         *slog.Logger
}

func NewEmailNotifier(userRepository user.UserRepository, emailService email.EmailService, logger *slog.Logger) notification.Notifier {
	return &EmailNotifier{
		userRepository: userRepository,
		emailService:   emailService,
		logger:         logger,
	}
}

// AlertRequester implements notification.Notifier.
func (n *EmailNotifier) AlertRequester(ctx context.Context, ev notification.Event) error {
	requester, err := n.userRepository.GetByID(ctx, ev.UserID)
	if err != nil {
		return err
	}

	data := n.emailData(ev, requester.FullName(), requester.FullName())

	if ev.Status == "PENDING_MANAGER_APPROVAL" {
		return n.emailService.SendRequestSubmitted(requester.Email, data)
	}
	return n.emailService.SendStatusChanged(requester.Email, data)
}

// AlertManager implements notification.Notifier.
func (n *EmailNotifier) AlertManager(ctx context.Context, ev notification.Event) error {
	requester, err := n.userRepository.GetByID(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if requester.ManagerID == nil {
		return user.ErrManagerNotFound
	}

	manager, err := n.userRepository.GetByID(ctx, *requester.ManagerID)
	if err != nil {
		return err
	}

	data := n.emailData(ev, manager.FullName(), requester.FullName())
	return n.emailService.SendApprovalNeeded(manager.Email, data)
}

// AlertHR implements notification.Notifier.
func (n *EmailNotifier) AlertHR(ctx context.Context, ev notification.Event) error {
	requester, err := n.userRepository.GetByID(ctx, ev.UserID)
	if err != nil {
		return err
	}

	companyID, err := n.userRepository.GetCompanyID(ctx, ev.UserID)
	if err != nil {
		return err
	}

	hr, err := n.userRepository.GetHRByCompanyID(ctx, companyID)
	if err != nil {
		return err
	}

	data := n.emailData(ev, hr.FullName(), requester.FullName())
	return n.emailService.SendApprovalNeeded(hr.Email, data)
}

func (n *EmailNotifier) emailData(ev notification.Event, recipientName, requesterName string) email.RequestEmailData {
	data := email.RequestEmailData{
		RecipientName: recipientName,
		RequesterName: requesterName,
		RequestKind:   ev.Kind,
		Reference:     ev.Reference,
		Status:        ev.Status,
		LeaveType:     ev.LeaveType,
		LeaveDays:     ev.LeaveDays,
		AmountLabel:   ev.AmountLabel,
	}
	if !ev.StartDate.IsZero() {
		data.StartDate = ev.StartDate.Format("2006-01-02")
		data.EndDate = ev.EndDate.Format("2006-01-02")
	}
	return data
}

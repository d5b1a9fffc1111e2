package notification

import (
	"context"
	"time"
)

// Event carries what the emails need about a request transition. The
// workflow services emit events only after their transaction commits;
// delivery is best-effort and never rolls a transition back.
type Event struct {
	UserID      string
	Kind        string // "leave" or "loan"
	Reference   string // leave number or loan id
	Status      string
	LeaveType   string
	LeaveDays   int64
	StartDate   time.Time
	EndDate     time.Time
	AmountLabel string // formatted loan amount, empty for leave
}

// Notifier alerts the parties to a request transition.
type Notifier interface {
	// AlertRequester mails the employee who filed the request.
	AlertRequester(ctx context.Context, ev Event) error
	// AlertManager mails the requester's manager about a new submission.
	AlertManager(ctx context.Context, ev Event) error
	// AlertHR mails the HR administrator of the requester's company.
	AlertHR(ctx context.Context, ev Event) error
}

package leave

import (
	"context"

	"github.com/ess-hr/ess-backend-go/internal/domain/user"
)

// LeaveService is the leave request workflow.
type LeaveService interface {
	// Submit files a new request on behalf of the principal. The
	// principal's manager is resolved and snapshotted here.
	Submit(ctx context.Context, principal user.Principal, req CreateRequestRequest) (Request, error)
	// Update patches an undecided request owned by the principal.
	Update(ctx context.Context, principal user.Principal, id string, req UpdateRequestRequest) (Request, error)
	// Transition moves a request to the target status on behalf of an
	// approver. An unrecognized target leaves the record untouched.
	Transition(ctx context.Context, principal user.Principal, id string, target RequestStatus) (Request, error)
	// Cancel withdraws a request still awaiting its manager.
	Cancel(ctx context.Context, principal user.Principal, id string) (Request, error)
	// Remove hard-deletes a request still at the manager stage and
	// returns the deleted snapshot.
	Remove(ctx context.Context, principal user.Principal, id string) (Request, error)
	GetByID(ctx context.Context, principal user.Principal, id string) (Request, error)
	ListAll(ctx context.Context, principal user.Principal) ([]Request, error)
	// ListForRequester returns the principal's own requests.
	ListForRequester(ctx context.Context, principal user.Principal) ([]Request, error)
	// ListForApprover returns the requests visible at the principal's
	// stage of the workflow, scoped by role.
	ListForApprover(ctx context.Context, principal user.Principal) ([]Request, error)
	GetBalance(ctx context.Context, principal user.Principal) (Balance, error)
}

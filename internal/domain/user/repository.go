package user

import "context"

// UserRepository - interface for users and company membership tables
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	// GetManagerID resolves the manager of a user from the current org
	// position. The result is snapshotted onto requests at submission.
	GetManagerID(ctx context.Context, userID string) (string, error)
	// GetHRCompanyIDs returns the companies an HR principal administers.
	GetHRCompanyIDs(ctx context.Context, hrID string) ([]string, error)
	// GetAccountantCompanyIDs returns the companies an accountant covers.
	GetAccountantCompanyIDs(ctx context.Context, accountantID string) ([]string, error)
	// GetCompanyID returns the company a user belongs to.
	GetCompanyID(ctx context.Context, userID string) (string, error)
	// GetHRByCompanyID returns the HR user administering a company.
	GetHRByCompanyID(ctx context.Context, companyID string) (User, error)
	UpdateRecipientCode(ctx context.Context, userID, recipientCode string) error
}

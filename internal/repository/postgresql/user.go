package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, first_name, last_name, email, phone, role, manager_id, recipient_code, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	var role string
	err := q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&role, &u.ManagerID, &u.RecipientCode, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	u.Role = user.ParseRole(role)

	return u, nil
}

func (r *userRepositoryImpl) GetManagerID(ctx context.Context, userID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT manager_id FROM users WHERE id = $1`

	var managerID *string
	if err := q.QueryRow(ctx, query, userID).Scan(&managerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", user.ErrUserNotFound
		}
		return "", err
	}
	if managerID == nil {
		return "", user.ErrManagerNotFound
	}

	return *managerID, nil
}

func (r *userRepositoryImpl) GetHRCompanyIDs(ctx context.Context, hrID string) ([]string, error) {
	return r.companyIDsForRole(ctx, hrID, string(user.RoleHR))
}

func (r *userRepositoryImpl) GetAccountantCompanyIDs(ctx context.Context, accountantID string) ([]string, error) {
	return r.companyIDsForRole(ctx, accountantID, string(user.RoleAccountant))
}

// companyIDsForRole reads the many-to-many membership that scopes an
// administrator to the companies they cover.
func (r *userRepositoryImpl) companyIDsForRole(ctx context.Context, userID, role string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT uc.company_id
		FROM user_companies uc
		INNER JOIN users u ON uc.user_id = u.id
		WHERE uc.user_id = $1 AND u.role = $2
	`

	rows, err := q.Query(ctx, query, userID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		companyIDs = append(companyIDs, id)
	}

	return companyIDs, rows.Err()
}

func (r *userRepositoryImpl) GetCompanyID(ctx context.Context, userID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT company_id FROM user_companies WHERE user_id = $1 LIMIT 1`

	var companyID string
	if err := q.QueryRow(ctx, query, userID).Scan(&companyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", user.ErrUserNotFound
		}
		return "", err
	}

	return companyID, nil
}

func (r *userRepositoryImpl) GetHRByCompanyID(ctx context.Context, companyID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.phone, u.role, u.manager_id, u.recipient_code, u.created_at, u.updated_at
		FROM users u
		INNER JOIN user_companies uc ON uc.user_id = u.id
		WHERE uc.company_id = $1 AND u.role = $2
		LIMIT 1
	`

	var u user.User
	var role string
	err := q.QueryRow(ctx, query, companyID, string(user.RoleHR)).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&role, &u.ManagerID, &u.RecipientCode, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	u.Role = user.ParseRole(role)

	return u, nil
}

func (r *userRepositoryImpl) UpdateRecipientCode(ctx context.Context, userID, recipientCode string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET recipient_code = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, recipientCode, userID).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return err
	}

	return nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/leave"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, user_id, manager_id, start_date, end_date, leave_days,
	leave_type, status, leave_number, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	var leaveType, status string
	err := row.Scan(
		&req.ID, &req.UserID, &req.ManagerID, &req.StartDate, &req.EndDate,
		&req.LeaveDays, &leaveType, &status, &req.LeaveNumber,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return leave.Request{}, err
	}
	req.LeaveType = leave.Type(leaveType)
	req.Status = leave.RequestStatus(status)
	return req, nil
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, user_id, manager_id, start_date, end_date, leave_days,
			leave_type, status, leave_number, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.UserID, request.ManagerID,
		request.StartDate, request.EndDate, request.LeaveDays,
		string(request.LeaveType), string(request.Status), request.LeaveNumber,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to insert leave request: %w", err)
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, err
	}

	return req, nil
}

func (r *leaveRequestRepositoryImpl) GetAll(ctx context.Context) ([]leave.Request, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *leaveRequestRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]leave.Request, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *leaveRequestRepositoryImpl) GetPendingForManager(ctx context.Context, managerID string) ([]leave.Request, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE manager_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, managerID, string(leave.StatusPendingManagerApproval))
}

func (r *leaveRequestRepositoryImpl) GetPendingForCompanies(ctx context.Context, companyIDs []string) ([]leave.Request, error) {
	query := `
		SELECT lr.id, lr.user_id, lr.manager_id, lr.start_date, lr.end_date, lr.leave_days,
		       lr.leave_type, lr.status, lr.leave_number, lr.created_at, lr.updated_at
		FROM leave_requests lr
		INNER JOIN user_companies uc ON uc.user_id = lr.user_id
		WHERE uc.company_id = ANY($1) AND lr.status = $2
		ORDER BY lr.created_at DESC
	`
	return r.list(ctx, query, companyIDs, string(leave.StatusPendingHRApproval))
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

func (r *leaveRequestRepositoryImpl) CountOverlapping(ctx context.Context, userID string, startDate, endDate time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	// Active statuses only: cancelled and finally-decided requests free
	// the date range for a new submission.
	query := `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE user_id = $1
		AND status NOT IN ($2, $3, $4)
		AND start_date <= $6 AND end_date >= $5
	`

	var count int
	err := q.QueryRow(ctx, query, userID,
		string(leave.StatusCancelled), string(leave.StatusApproved), string(leave.StatusRejected),
		startDate, endDate,
	).Scan(&count)

	return count, err
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET start_date = $1, end_date = $2, leave_days = $3, leave_type = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		request.StartDate, request.EndDate, request.LeaveDays,
		string(request.LeaveType), string(request.Status), request.ID,
	).Scan(&request.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to update leave request with id %s: %w", request.ID, err)
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, string(status), id).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrRequestNotFound
		}
		return fmt.Errorf("failed to update status for leave request with id %s: %w", id, err)
	}

	return nil
}

func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrRequestNotFound
	}

	return nil
}

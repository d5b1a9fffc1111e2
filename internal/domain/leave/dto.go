package leave

import (
	"time"

	"github.com/ess-hr/ess-backend-go/internal/pkg/validator"
)

type CreateRequestRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if !Type(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of ANNUAL_LEAVE, MATERNAL_LEAVE, SICK_LEAVE",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateRequestRequest carries a partial patch: only non-nil fields
// overwrite. Merge semantics are resolved here, not in the service.
type UpdateRequestRequest struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	LeaveType *string `json:"leave_type,omitempty"`
}

func (r *UpdateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.LeaveType != nil && !Type(*r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of ANNUAL_LEAVE, MATERNAL_LEAVE, SICK_LEAVE",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RequestResponse is the wire shape of a leave request.
type RequestResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ManagerID   string    `json:"manager_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	LeaveDays   int64     `json:"leave_days"`
	LeaveType   string    `json:"leave_type"`
	Status      string    `json:"status"`
	LeaveNumber string    `json:"leave_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToRequestResponse(r Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		ManagerID:   r.ManagerID,
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		LeaveDays:   r.LeaveDays,
		LeaveType:   string(r.LeaveType),
		Status:      string(r.Status),
		LeaveNumber: r.LeaveNumber,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToRequestResponses(requests []Request) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, ToRequestResponse(r))
	}
	return responses
}

// BalanceResponse is the wire shape of a leave balance.
type BalanceResponse struct {
	UserID    string    `json:"user_id"`
	Balance   string    `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:    b.UserID,
		Balance:   b.Balance.StringFixed(2),
		UpdatedAt: b.UpdatedAt,
	}
}

package leave

import "errors"

var (
	ErrRequestNotFound    = errors.New("leave record not found")
	ErrNoRequestsFound    = errors.New("no leave record found for user")
	ErrOverlappingLeave   = errors.New("leave already exists for the given dates")
	ErrInvalidDateRange   = errors.New("start date cannot be after end date")
	ErrAlreadyInApproval  = errors.New("leave applications cannot be updated at the moment")
	ErrManagerHasApproved = errors.New("manager has approved already and cancellation cannot be done at the moment")
	ErrBalanceNotFound    = errors.New("user leave balance record not found")
)

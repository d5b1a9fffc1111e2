package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus values are persisted as plain strings for compatibility
// with existing rows.
type RequestStatus string

const (
	StatusPendingManagerApproval RequestStatus = "PENDING_MANAGER_APPROVAL"
	StatusPendingHRApproval      RequestStatus = "PENDING_HR_APPROVAL"
	StatusApproved               RequestStatus = "APPROVED"
	StatusRejected               RequestStatus = "REJECTED"
	StatusCancelled              RequestStatus = "CANCELLED"
)

// IsActive reports whether a request still occupies its date range for
// overlap purposes. Cancelled and finally-decided requests free the range.
func (s RequestStatus) IsActive() bool {
	switch s {
	case StatusCancelled, StatusApproved, StatusRejected:
		return false
	}
	return true
}

// IsFinal reports whether no further approval transition applies.
func (s RequestStatus) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

type Type string

const (
	TypeAnnual   Type = "ANNUAL_LEAVE"
	TypeMaternal Type = "MATERNAL_LEAVE"
	TypeSick     Type = "SICK_LEAVE"
)

func (t Type) IsValid() bool {
	return t == TypeAnnual || t == TypeMaternal || t == TypeSick
}

// Request is a leave application. ManagerID is resolved once at submission
// and does not follow later org-chart changes.
type Request struct {
	ID          string
	UserID      string
	ManagerID   string
	StartDate   time.Time
	EndDate     time.Time
	LeaveDays   int64
	LeaveType   Type
	Status      RequestStatus
	LeaveNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DaysBetween computes the calendar-day difference between start and end.
// A same-day request yields zero days, which is valid.
func DaysBetween(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours() / 24)
}

// Balance is an employee's accrued leave balance, one row per user.
// Only the ledger mutates it, always relative to the stored value.
type Balance struct {
	UserID    string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

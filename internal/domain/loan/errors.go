package loan

import "errors"

var (
	ErrLoanNotFound       = errors.New("loan record not found")
	ErrNoLoansFound       = errors.New("no loan record found for user")
	ErrAlreadyInApproval  = errors.New("loan cannot be updated at the moment")
	ErrManagerHasApproved = errors.New("manager has approved already and cancellation cannot be done at the moment")
	ErrNoRecipientCode    = errors.New("recipient code not found")
	ErrNotApproved        = errors.New("loan is not approved for disbursement")
)

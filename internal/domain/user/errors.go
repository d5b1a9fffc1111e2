package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user record not found")
	ErrManagerNotFound = errors.New("manager record not found")
	ErrNotAuthorized   = errors.New("user not authorized to this feature")
)

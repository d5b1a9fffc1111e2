package user

import "time"

type Role string

const (
	RoleEmployee       Role = "EMPLOYEE"
	RoleManager        Role = "MANAGER"
	RoleHR             Role = "HR"
	RoleGeneralManager Role = "GENERAL_MANAGER"
	RoleAccountant     Role = "ACCOUNTANT"
	RoleAdmin          Role = "ADMIN"
)

// ParseRole maps a token claim to a known role. Unknown strings come back
// as-is but never satisfy IsValid, so scope resolution rejects them.
func ParseRole(s string) Role {
	return Role(s)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleGeneralManager, RoleAccountant, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated caller, resolved once from the bearer
// token at the HTTP boundary and passed explicitly through every service
// call. Nothing below the handlers reads token claims.
type Principal struct {
	UserID string
	Role   Role
}

type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Role          Role
	ManagerID     *string
	RecipientCode *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

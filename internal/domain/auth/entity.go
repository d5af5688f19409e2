package auth

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Account is a login identity: either an admin user or an employee's user account.
type Account struct {
	ID                    string
	EmployeeID            *string
	Email                 string
	PasswordHash          string
	Name                  string
	Department            string
	Position              string
	Designation           *string
	Role                  Role
	RequestPasswordChange bool
}

type Session struct {
	ID         string
	EmployeeID *string
	AdminID    *string
	TokenID    string
	IPAddress  *string
	UserAgent  *string
	DeviceType *string
	LoginAt    time.Time
	LogoutAt   *time.Time
	IsActive   bool
}

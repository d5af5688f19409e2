package auth

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceType string `json:"device_type,omitempty"`
	UserAgent  string `json:"-"`
	IPAddress  string `json:"-"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	// Email
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if len(r.Email) > 254 {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must not exceed 254 characters",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if r.DeviceType != "" && !validator.IsInSlice(r.DeviceType, DeviceTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_type",
			Message: "device_type must be one of PC, Mobile, Tablet, Other",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

var DeviceTypes = []string{"PC", "Mobile", "Tablet", "Other"}

type LoginResponse struct {
	UserID                string  `json:"user_id"`
	EmployeeID            *string `json:"employee_id,omitempty"`
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	Role                  Role    `json:"role"`
	Department            string  `json:"department"`
	Position              string  `json:"position"`
	AccessToken           string  `json:"access_token"`
	AccessTokenExpiresAt  int64   `json:"access_token_expires_at"`
	RequestPasswordChange bool    `json:"request_password_change"`
}

type SessionResponse struct {
	UserID      string  `json:"user_id"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
	Department  string  `json:"department"`
	Position    string  `json:"position"`
	Designation *string `json:"designation,omitempty"`
	ExpiresAt   int64   `json:"expires_at"`
}

package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AllowanceInput struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type ResourceInput struct {
	Name   string  `json:"name"`
	Serial *string `json:"serial,omitempty"`
}

type CreateEmployeeRequest struct {
	EmployeeCode     string           `json:"employee_code"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Password         string           `json:"password"`
	Phone            string           `json:"phone"`
	CNIC             *string          `json:"cnic,omitempty"`
	Department       string           `json:"department"`
	Position         string           `json:"position"`
	Designation      *string          `json:"designation,omitempty"`
	JoinDate         string           `json:"join_date"`
	BaseSalary       decimal.Decimal  `json:"base_salary"`
	Allowances       []AllowanceInput `json:"allowances,omitempty"`
	Resources        []ResourceInput  `json:"resources,omitempty"`
	Address          *string          `json:"address,omitempty"`
	EmergencyContact *string          `json:"emergency_contact,omitempty"`
	BankAccount      *string          `json:"bank_account,omitempty"`
	TaxID            *string          `json:"tax_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code must be 2-32 letters, digits, '-' or '_'"})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}

	if validator.IsEmpty(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone is required"})
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "invalid phone number"})
	}

	if r.CNIC != nil && *r.CNIC != "" && !validator.IsValidCNIC(*r.CNIC) {
		errs = append(errs, validator.ValidationError{Field: "cnic", Message: "cnic must be 13 digits (XXXXX-XXXXXXX-X)"})
	}

	if validator.IsEmpty(r.Department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "department is required"})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "position is required"})
	}

	if validator.IsEmpty(r.JoinDate) {
		errs = append(errs, validator.ValidationError{Field: "join_date", Message: "join_date is required"})
	} else if _, ok := validator.IsValidDate(r.JoinDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "join_date", Message: "join_date must be in YYYY-MM-DD format"})
	}

	if !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be greater than 0"})
	}

	for _, a := range r.Allowances {
		if validator.IsEmpty(a.Name) || a.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "allowances", Message: "each allowance needs a name and a non-negative amount"})
			break
		}
	}
	for _, res := range r.Resources {
		if validator.IsEmpty(res.Name) {
			errs = append(errs, validator.ValidationError{Field: "resources", Message: "each resource needs a name"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedJoinDate assumes Validate has passed.
func (r *CreateEmployeeRequest) ParsedJoinDate() time.Time {
	d, _ := validator.IsValidDate(r.JoinDate)
	return d
}

// UpdateEmployeeRequest carries only the fields onboarding staff may edit
// after creation.
type UpdateEmployeeRequest struct {
	ID               string  `json:"-"`
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	CNIC             *string `json:"cnic,omitempty"`
	Department       *string `json:"department,omitempty"`
	Position         *string `json:"position,omitempty"`
	Address          *string `json:"address,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	BankAccount      *string `json:"bank_account,omitempty"`
	TaxID            *string `json:"tax_id,omitempty"`
	Status           *string `json:"status,omitempty"`
}

func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.CNIC == nil &&
		r.Department == nil && r.Position == nil && r.Address == nil &&
		r.EmergencyContact == nil && r.BankAccount == nil && r.TaxID == nil && r.Status == nil
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "invalid phone number"})
	}
	if r.CNIC != nil && *r.CNIC != "" && !validator.IsValidCNIC(*r.CNIC) {
		errs = append(errs, validator.ValidationError{Field: "cnic", Message: "cnic must be 13 digits (XXXXX-XXXXXXX-X)"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{StatusActive, StatusInactive}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be Active or Inactive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string           `json:"id"`
	EmployeeCode     string           `json:"employee_code"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	CNIC             *string          `json:"cnic"`
	Department       string           `json:"department"`
	Position         string           `json:"position"`
	Designation      *string          `json:"designation"`
	Address          *string          `json:"address"`
	EmergencyContact *string          `json:"emergency_contact"`
	BankAccount      *string          `json:"bank_account"`
	TaxID            *string          `json:"tax_id"`
	JoinDate         string           `json:"join_date"`
	Status           string           `json:"status"`
	BaseSalary       *decimal.Decimal `json:"base_salary"`
	TotalSalary      *decimal.Decimal `json:"total_salary"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		EmployeeCode:     e.EmployeeCode,
		Name:             e.Name,
		Email:            e.Email,
		Phone:            e.Phone,
		CNIC:             e.CNIC,
		Department:       e.Department,
		Position:         e.Position,
		Designation:      e.Designation,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		BankAccount:      e.BankAccount,
		TaxID:            e.TaxID,
		JoinDate:         e.JoinDate.Format("2006-01-02"),
		Status:           e.Status,
		BaseSalary:       e.BaseSalary,
		TotalSalary:      e.TotalSalary,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type AllowanceResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type ResourceResponse struct {
	Name   string  `json:"name"`
	Serial *string `json:"serial"`
}

type ProgressResponse struct {
	BasicInfo            bool `json:"basic_info"`
	SecuritySetup        bool `json:"security_setup"`
	JobDetails           bool `json:"job_details"`
	Allowances           bool `json:"allowances"`
	AdditionalInfo       bool `json:"additional_info"`
	ReviewConfirm        bool `json:"review_confirm"`
	IsCompleted          bool `json:"is_completed"`
	CompletionPercentage int  `json:"completion_percentage"`
}

func NewProgressResponse(p Progress) ProgressResponse {
	return ProgressResponse{
		BasicInfo:            p.BasicInfo,
		SecuritySetup:        p.SecuritySetup,
		JobDetails:           p.JobDetails,
		Allowances:           p.Allowances,
		AdditionalInfo:       p.AdditionalInfo,
		ReviewConfirm:        p.ReviewConfirm,
		IsCompleted:          p.IsCompleted,
		CompletionPercentage: p.CompletionPercentage,
	}
}

type EmployeeDetailResponse struct {
	EmployeeResponse
	Allowances []AllowanceResponse `json:"allowances"`
	Resources  []ResourceResponse  `json:"resources"`
	Progress   *ProgressResponse   `json:"progress"`
}

type CreateEmployeeResponse struct {
	ID           string          `json:"id"`
	EmployeeCode string          `json:"employee_code"`
	AccountID    string          `json:"account_id"`
	TotalSalary  decimal.Decimal `json:"total_salary"`
}

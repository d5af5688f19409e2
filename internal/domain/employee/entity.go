package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	Name             string
	Email            string
	Phone            string
	CNIC             *string
	Department       string
	Position         string
	Designation      *string
	Address          *string
	EmergencyContact *string
	BankAccount      *string
	TaxID            *string
	JoinDate         time.Time
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Loaded by list and detail reads.
	BaseSalary  *decimal.Decimal
	TotalSalary *decimal.Decimal
}

type Salary struct {
	EmployeeID  string
	BaseSalary  decimal.Decimal
	TotalSalary decimal.Decimal
}

type Allowance struct {
	ID         string
	EmployeeID string
	Name       string
	Amount     decimal.Decimal
}

// Resource is company equipment issued at onboarding, such as a laptop.
type Resource struct {
	ID         string
	EmployeeID string
	Name       string
	Serial     *string
}

type Progress struct {
	EmployeeID           string
	BasicInfo            bool
	SecuritySetup        bool
	JobDetails           bool
	Allowances           bool
	AdditionalInfo       bool
	ReviewConfirm        bool
	IsCompleted          bool
	CompletionPercentage int
	UpdatedAt            time.Time
}

// CompletedProgress is recorded when an employee is onboarded in one step.
func CompletedProgress(employeeID string) Progress {
	return Progress{
		EmployeeID:           employeeID,
		BasicInfo:            true,
		SecuritySetup:        true,
		JobDetails:           true,
		Allowances:           true,
		AdditionalInfo:       true,
		ReviewConfirm:        true,
		IsCompleted:          true,
		CompletionPercentage: 100,
	}
}

// Account is the login identity created alongside the employee.
type Account struct {
	ID                    string
	EmployeeID            string
	Email                 string
	PasswordHash          string
	RequestPasswordChange bool
	Status                string
}

// TotalSalary is the base plus every allowance.
func TotalSalary(base decimal.Decimal, allowances []Allowance) decimal.Decimal {
	total := base
	for _, a := range allowances {
		total = total.Add(a.Amount)
	}
	return total
}

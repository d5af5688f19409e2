// Package identity maps the ids a caller presents (token claims, request
// bodies, path parameters) onto the canonical employees.id.
package identity

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// Lookup is the storage the resolver consults.
type Lookup interface {
	EmployeeExists(ctx context.Context, id string) (bool, error)
	// EmployeeIDForAccount returns "" when accountID is not a user account.
	EmployeeIDForAccount(ctx context.Context, accountID string) (string, error)
}

type Resolver struct {
	lookup Lookup
}

func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// FromClaims picks the acting employee: the token's employee_id claim, then
// the employee_id sent in the body, then the token's user account mapped to
// its employee.
func (r *Resolver) FromClaims(ctx context.Context, bodyEmployeeID string) (string, error) {
	claims, claimsErr := jwt.FromContext(ctx)
	if claimsErr == nil && claims.EmployeeID != nil && *claims.EmployeeID != "" {
		return *claims.EmployeeID, nil
	}

	if !validator.IsEmpty(bodyEmployeeID) {
		return r.Canonical(ctx, bodyEmployeeID)
	}

	if claimsErr == nil && claims.UserID != "" {
		employeeID, err := r.lookup.EmployeeIDForAccount(ctx, claims.UserID)
		if err != nil {
			return "", err
		}
		if employeeID != "" {
			return employeeID, nil
		}
	}

	return "", validator.Required("employee_id")
}

// Canonical returns id unchanged when it is an employee id or unknown, and
// the owning employee when it is a user account id.
func (r *Resolver) Canonical(ctx context.Context, id string) (string, error) {
	if !validator.IsValidUUID(id) {
		return id, nil
	}

	exists, err := r.lookup.EmployeeExists(ctx, id)
	if err != nil {
		return "", err
	}
	if exists {
		return id, nil
	}

	employeeID, err := r.lookup.EmployeeIDForAccount(ctx, id)
	if err != nil {
		return "", err
	}
	if employeeID != "" {
		return employeeID, nil
	}
	return id, nil
}

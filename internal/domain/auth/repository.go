package auth

import "context"

type AccountRepository interface {
	// FindAdminByEmail returns only Active admins.
	FindAdminByEmail(ctx context.Context, email string) (Account, error)
	// FindEmployeeAccountByEmail returns only Active user accounts.
	FindEmployeeAccountByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	FindByTokenID(ctx context.Context, tokenID string) (Session, error)
	Deactivate(ctx context.Context, tokenID string) error
}

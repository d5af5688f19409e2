package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrMissingClaims = errors.New("token claims not found in context")

// Claims is the identity carried by an access token.
type Claims struct {
	UserID     string
	EmployeeID *string
	Email      string
	Name       string
	Role       auth.Role
	TokenID    string
	Type       string
	ExpiresAt  int64
}

func (c Claims) IsAdmin() bool {
	return c.Role == auth.RoleAdmin
}

type Service interface {
	GenerateAccessToken(userID string, email string, name string, employeeID *string, role auth.Role) (token string, tokenID string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, name string, employeeID *string, role auth.Role) (token string, tokenID string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	jti, err := uuid.NewV7()
	if err != nil {
		return "", "", 0, fmt.Errorf("generate token id: %w", err)
	}

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"name":    name,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"jti":     jti.String(),
		"exp":     expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, jti.String(), expiresAt, err
}

// FromContext reads the verified token placed on ctx by jwtauth.Verifier.
func FromContext(ctx context.Context) (Claims, error) {
	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if token == nil || raw == nil {
		return Claims{}, ErrMissingClaims
	}
	return claimsFromMap(raw, token.JwtID(), token.Expiration()), nil
}

func claimsFromMap(raw map[string]interface{}, jti string, exp time.Time) Claims {
	c := Claims{
		UserID:  stringClaim(raw, "user_id"),
		Email:   stringClaim(raw, "email"),
		Name:    stringClaim(raw, "name"),
		Role:    auth.Role(stringClaim(raw, "role")),
		Type:    stringClaim(raw, "type"),
		TokenID: jti,
	}
	if c.TokenID == "" {
		c.TokenID = stringClaim(raw, "jti")
	}
	if !exp.IsZero() {
		c.ExpiresAt = exp.Unix()
	}
	if employeeID := stringClaim(raw, "employee_id"); employeeID != "" {
		c.EmployeeID = &employeeID
	}
	return c
}

func stringClaim(raw map[string]interface{}, key string) string {
	v, _ := raw[key].(string)
	return v
}

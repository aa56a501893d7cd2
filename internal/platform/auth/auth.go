// Package auth verifies the caller identity shared by the HTTP and gRPC
// surfaces. Sessions are issued elsewhere; this service only checks them.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleEmployee = "employee"
	RoleOwner    = "owner"
)

var (
	ErrMissingIdentity = errors.New("missing identity")
	ErrInvalidToken    = errors.New("invalid token")
)

// Identity is the authenticated caller.
type Identity struct {
	EmployeeID string
	Role       string
}

func (i Identity) IsOwner() bool { return i.Role == RoleOwner }

// Claims is the bearer token payload: sub is the employee ID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// FromHeaders builds an identity from gateway-supplied values.
func FromHeaders(employeeID, role string) (Identity, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return Identity{}, ErrMissingIdentity
	}
	return Identity{EmployeeID: employeeID, Role: NormalizeRole(role)}, nil
}

// FromBearer verifies an "Authorization: Bearer <jwt>" value signed with
// HS256 and secret.
func FromBearer(header, secret string) (Identity, error) {
	tok, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok || tok == "" {
		return Identity{}, ErrMissingIdentity
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return Identity{}, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return Identity{EmployeeID: sub, Role: NormalizeRole(claims.Role)}, nil
}

// Sign issues an HS256 token for id. Used by dev tooling and tests.
func Sign(id Identity, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.EmployeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NormalizeRole maps admin and owner roles to RoleOwner; anything else is an
// employee.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "owner", "admin":
		return RoleOwner
	default:
		return RoleEmployee
	}
}

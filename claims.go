package portal

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the decoded, verified contents of a session
// token: who the request acts as and with which role, until when.
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() Role
	IsAdmin() bool
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole Role   `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the account role the token was issued for
func (c *JWTClaims) Role() Role {
	return c.UserRole
}

// IsAdmin reports whether the claim carries portal-wide visibility
func (c *JWTClaims) IsAdmin() bool {
	return c.UserRole.IsAdmin()
}

// HasRole checks if the claim holds the exact role. Unknown role
// strings never match.
func (c *JWTClaims) HasRole(role string) bool {
	parsed, ok := ParseRole(role)
	if !ok {
		return false
	}
	return c.UserRole == parsed
}

// IsAtLeast checks if the claim's role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	parsed, ok := ParseRole(minRole)
	if !ok {
		return false
	}
	return c.UserRole.IsAtLeast(parsed)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

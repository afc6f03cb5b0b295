package portal

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeEmailTaken         = "email_taken"
	TextCodeTokenExpired       = "token_expired"
	TextCodeTokenMalformed     = "token_malformed"
	TextCodeAdminOnly          = "admin_only"
	TextCodeRecordNotFound     = "record_not_found"
	TextCodeNotifNotFound      = "notification_not_found"
)

// ErrInvalidCredentials covers unknown email, wrong password, and role
// mismatch alike: callers must not be able to tell the three apart.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailTaken is returned when an account with the email already exists.
var ErrEmailTaken = errors.New("email already in use", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrTokenExpired is returned when a presented token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail to decode or whose
// signature does not verify.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrAdminOnly is returned when an authenticated non-admin hits an
// admin-gated operation.
var ErrAdminOnly = errors.New("access denied, admins only", errors.CategoryAuthz).
	WithTextCode(TextCodeAdminOnly).
	WithCode(errors.CodeForbidden)

// ErrRecordNotFound is returned when a referenced record does not exist.
var ErrRecordNotFound = errors.New("no such record", errors.CategoryNotFound).
	WithTextCode(TextCodeRecordNotFound).
	WithCode(errors.CodeNotFound)

// ErrNotificationNotFound is returned when a referenced notification
// does not exist.
var ErrNotificationNotFound = errors.New("notification not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotifNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is the internal verification failure;
// the authenticator collapses it into ErrInvalidCredentials before it
// reaches a caller.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty required values in crypto helpers.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUniqueViolation reports whether err is a storage-level unique
// constraint failure. Covers the sqlite and postgres dialects the
// portal runs on.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

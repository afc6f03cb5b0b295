package portal

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
)

type Auther struct {
	provider       IdentityProvider
	tokenService   TokenService
	tokenValidator TokenValidator
	logger         Logger
}

// Verify interface compliance
var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenValidator sets a custom token validator, e.g. a
// MultiTokenValidator carrying previous verification keys.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and the requested role, then mints a
// session token. Unknown email, wrong password, and role mismatch all
// surface as the same ErrInvalidCredentials so callers cannot probe
// which accounts exist.
func (s *Auther) Login(ctx context.Context, email, password string, role Role) (string, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryInternal {
			return "", nil, richErr
		}
		return "", nil, ErrInvalidCredentials
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return "", nil, ErrInvalidCredentials
	}

	if identity.Role() != role {
		s.logger.Warn("Login role mismatch", "subject", identity.ID())
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue session token")
	}

	return token, identity, nil
}

// SessionFromToken verifies a raw bearer token and returns its claims.
func (s *Auther) SessionFromToken(raw string) (AuthClaims, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	return claims, nil
}

// IdentityFromClaims re-reads the account behind a verified claim.
// Protected routes do not call this per request; claims are trusted
// until expiry.
func (s *Auther) IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error) {
	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.UserID())
	if err != nil {
		s.logger.Error("IdentityFromClaims find identity", "error", err)
		return nil, err
	}

	return identity, nil
}

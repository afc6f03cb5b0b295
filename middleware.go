package portal

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/placementhub/portal/middleware/jwtware"
)

// ProtectedRoute builds the JWT middleware for routes that require an
// authenticated session. Tokens are verified on every request with no
// storage round trip.
func ProtectedRoute(cfg Config, validator TokenValidator) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
		SigningKey: jwtware.SigningKey{
			JWTAlg: cfg.GetSigningMethod(),
			Key:    []byte(cfg.GetSigningKey()),
		},
		TokenValidator: jwtware.TokenValidatorFunc(func(tokenString string) (jwtware.AuthClaims, error) {
			claims, err := validator.Validate(tokenString)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(AuthClaims); ok {
				return WithClaimsContext(ctx, ac)
			}
			return ctx
		},
		ErrorHandler: AuthErrorHandler,
	})
}

// AuthErrorHandler normalizes middleware failures into the shared
// error vocabulary before rendering them.
func AuthErrorHandler(c *fiber.Ctx, err error) error {
	switch {
	case IsTokenExpiredError(err):
		return respondError(c, ErrTokenExpired)
	case IsMalformedError(err):
		return respondError(c, ErrTokenMalformed)
	case errors.Is(err, jwtware.ErrInsufficientRole):
		return respondError(c, ErrAdminOnly)
	default:
		return respondError(c, errors.Wrap(err, errors.CategoryAuth, "authentication failed").
			WithCode(errors.CodeUnauthorized))
	}
}

// RequireRole gates a route on an exact role after the JWT middleware
// has stored the claims. Admin-only surfaces use this on top of
// ProtectedRoute.
func RequireRole(contextKey string, role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromFiber(c, contextKey)
		if !ok {
			return respondError(c, ErrTokenMalformed)
		}

		if !claims.HasRole(string(role)) {
			return respondError(c, ErrAdminOnly)
		}

		return c.Next()
	}
}

package portal_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	portal "github.com/placementhub/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockIdentityProvider implements portal.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (portal.Identity, error) {
	args := m.Called(ctx, email, password)
	if identity := args.Get(0); identity != nil {
		return identity.(portal.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (portal.Identity, error) {
	args := m.Called(ctx, identifier)
	if identity := args.Get(0); identity != nil {
		return identity.(portal.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig() *portal.AppConfig {
	return &portal.AppConfig{
		SigningKey:    "test-signing-key",
		SigningMethod: "HS256",
		TokenTTLHours: 12,
		TokenIssuer:   "portal",
		ContextKey:    "user",
		TokenLookup:   "header:Authorization",
		AuthScheme:    "Bearer",
		BcryptCost:    bcrypt.MinCost,
	}
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns token and identity on success", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		identity := newIdentity("5acb1e10-57a9-4ae5-a396-9c636b5f2aa0", portal.RoleUser)
		provider.On("VerifyIdentity", ctx, "student@example.edu", "Sup3r$ecret").
			Return(identity, nil).Once()

		auther := portal.NewAuthenticator(provider, testConfig())

		token, loggedIn, err := auther.Login(ctx, "student@example.edu", "Sup3r$ecret", portal.RoleUser)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "5acb1e10-57a9-4ae5-a396-9c636b5f2aa0", loggedIn.ID())

		claims, err := auther.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, portal.RoleUser, claims.Role())

		provider.AssertExpectations(t)
	})

	t.Run("unknown account collapses to invalid credentials", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "nobody@example.edu", "Sup3r$ecret").
			Return(nil, portal.ErrMismatchedHashAndPassword).Once()

		auther := portal.NewAuthenticator(provider, testConfig())

		_, _, err := auther.Login(ctx, "nobody@example.edu", "Sup3r$ecret", portal.RoleUser)
		require.Error(t, err)
		assert.ErrorIs(t, err, portal.ErrInvalidCredentials)
	})

	t.Run("wrong password collapses to invalid credentials", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		provider.On("VerifyIdentity", ctx, "student@example.edu", "wrong").
			Return(nil, portal.ErrMismatchedHashAndPassword).Once()

		auther := portal.NewAuthenticator(provider, testConfig())

		_, _, err := auther.Login(ctx, "student@example.edu", "wrong", portal.RoleUser)
		require.Error(t, err)
		assert.ErrorIs(t, err, portal.ErrInvalidCredentials)
	})

	t.Run("role mismatch collapses to invalid credentials", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		identity := newIdentity("5acb1e10-57a9-4ae5-a396-9c636b5f2aa0", portal.RoleUser)
		provider.On("VerifyIdentity", ctx, "student@example.edu", "Sup3r$ecret").
			Return(identity, nil).Once()

		auther := portal.NewAuthenticator(provider, testConfig())

		_, _, err := auther.Login(ctx, "student@example.edu", "Sup3r$ecret", portal.RoleAdmin)
		require.Error(t, err)
		assert.ErrorIs(t, err, portal.ErrInvalidCredentials)
	})

	t.Run("internal provider errors pass through", func(t *testing.T) {
		provider := &MockIdentityProvider{}
		dbErr := goerrors.New("storage offline", goerrors.CategoryInternal)
		provider.On("VerifyIdentity", ctx, "student@example.edu", "Sup3r$ecret").
			Return(nil, dbErr).Once()

		auther := portal.NewAuthenticator(provider, testConfig())

		_, _, err := auther.Login(ctx, "student@example.edu", "Sup3r$ecret", portal.RoleUser)
		require.Error(t, err)
		assert.NotErrorIs(t, err, portal.ErrInvalidCredentials)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)
	})
}

func TestAuther_SessionFromToken(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := portal.NewAuthenticator(provider, testConfig())

	t.Run("rejects garbage tokens", func(t *testing.T) {
		_, err := auther.SessionFromToken("garbage")
		assert.Error(t, err)
	})

	t.Run("uses custom validator when set", func(t *testing.T) {
		otherKey := portal.NewTokenService([]byte("rollover-key"), 12, "portal", nil, nil)
		token, err := otherKey.Generate(newIdentity("5acb1e10-57a9-4ae5-a396-9c636b5f2aa0", portal.RoleUser))
		require.NoError(t, err)

		_, err = auther.SessionFromToken(token)
		require.Error(t, err)

		withRollover := portal.NewAuthenticator(provider, testConfig()).
			WithTokenValidator(portal.NewMultiTokenValidator(auther.TokenService(), otherKey))

		claims, err := withRollover.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, portal.RoleUser, claims.Role())
	})
}

package portal_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	portal "github.com/placementhub/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdentity implements portal.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() portal.Role {
	args := m.Called()
	return args.Get(0).(portal.Role)
}

// MockLogger implements portal.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func newIdentity(id string, role portal.Role) *MockIdentity {
	identity := &MockIdentity{}
	identity.On("ID").Return(id)
	identity.On("Email").Return("student@example.edu")
	identity.On("Role").Return(role)
	return identity
}

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")

	t.Run("creates token service with logger", func(t *testing.T) {
		logger := &MockLogger{}
		service := portal.NewTokenService(signingKey, 12, "portal", jwt.ClaimStrings{"portal-api"}, logger)
		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := portal.NewTokenService(signingKey, 12, "portal", nil, nil)
		assert.NotNil(t, service)
	})
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := portal.NewTokenService(signingKey, 12, "portal", jwt.ClaimStrings{"portal-api"}, nil)

	t.Run("round trips identity into claims", func(t *testing.T) {
		identity := newIdentity("5acb1e10-57a9-4ae5-a396-9c636b5f2aa0", portal.RoleAdmin)

		token, err := service.Generate(identity)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, "5acb1e10-57a9-4ae5-a396-9c636b5f2aa0", claims.Subject())
		assert.Equal(t, "5acb1e10-57a9-4ae5-a396-9c636b5f2aa0", claims.UserID())
		assert.Equal(t, portal.RoleAdmin, claims.Role())
		assert.True(t, claims.IsAdmin())
		assert.WithinDuration(t, time.Now().Add(12*time.Hour), claims.Expires(), time.Minute)
	})

	t.Run("user role carries through", func(t *testing.T) {
		identity := newIdentity("b9676cfe-6ab1-4d45-9e95-74b15ffc6eae", portal.RoleUser)

		token, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, portal.RoleUser, claims.Role())
		assert.False(t, claims.IsAdmin())
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		expired := portal.NewTokenService(signingKey, -1, "portal", nil, nil)
		identity := newIdentity("b9676cfe-6ab1-4d45-9e95-74b15ffc6eae", portal.RoleUser)

		token, err := expired.Generate(identity)
		require.NoError(t, err)

		validator := portal.NewTokenService(signingKey, 12, "portal", nil, nil)
		_, err = validator.Validate(token)
		require.Error(t, err)
		assert.True(t, portal.IsTokenExpiredError(err))
	})

	t.Run("rejects tokens signed with a different key", func(t *testing.T) {
		other := portal.NewTokenService([]byte("another-key"), 12, "portal", nil, nil)
		identity := newIdentity("b9676cfe-6ab1-4d45-9e95-74b15ffc6eae", portal.RoleUser)

		token, err := other.Generate(identity)
		require.NoError(t, err)

		sameIssuer := portal.NewTokenService(signingKey, 12, "portal", nil, nil)
		_, err = sameIssuer.Validate(token)
		require.Error(t, err)
		assert.True(t, portal.IsMalformedError(err))
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		_, err := service.Validate("not.a.token")
		require.Error(t, err)
		assert.True(t, portal.IsMalformedError(err))
	})

	t.Run("rejects tampered tokens", func(t *testing.T) {
		identity := newIdentity("b9676cfe-6ab1-4d45-9e95-74b15ffc6eae", portal.RoleUser)

		token, err := service.Generate(identity)
		require.NoError(t, err)

		tampered := token[:len(token)-3] + "xyz"
		_, err = service.Validate(tampered)
		require.Error(t, err)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		otherIssuer := portal.NewTokenService(signingKey, 12, "someone-else", nil, nil)
		identity := newIdentity("b9676cfe-6ab1-4d45-9e95-74b15ffc6eae", portal.RoleUser)

		token, err := otherIssuer.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(token)
		require.Error(t, err)
	})
}

func TestTokenService_SignClaims(t *testing.T) {
	service := portal.NewTokenService([]byte("test-signing-key"), 12, "portal", nil, nil)

	t.Run("rejects nil claims", func(t *testing.T) {
		_, err := service.SignClaims(nil)
		assert.Error(t, err)
	})

	t.Run("signs custom claims", func(t *testing.T) {
		now := time.Now()
		claims := &portal.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "portal",
				Subject:   "custom-subject",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			UID:      "custom-subject",
			UserRole: portal.RoleUser,
		}

		token, err := service.SignClaims(claims)
		require.NoError(t, err)

		parsed, err := service.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "custom-subject", parsed.Subject())
	})
}

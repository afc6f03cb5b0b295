package portal_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	portal "github.com/placementhub/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore implements portal.UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*portal.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*portal.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*portal.User, error) {
	args := m.Called(ctx, identifier)
	if user := args.Get(0); user != nil {
		return user.(*portal.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func storedUser(t *testing.T, email, password string, role portal.Role) *portal.User {
	t.Helper()
	hash, err := portal.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(t, err)
	return &portal.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
}

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("returns identity for valid credentials", func(t *testing.T) {
		user := storedUser(t, "student@example.edu", "Sup3r$ecret", portal.RoleUser)

		store := &MockUserStore{}
		store.On("GetByEmail", ctx, "student@example.edu").Return(user, nil).Once()

		provider := portal.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "student@example.edu", "Sup3r$ecret")
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "student@example.edu", identity.Email())
		assert.Equal(t, portal.RoleUser, identity.Role())

		store.AssertExpectations(t)
	})

	t.Run("missing account and wrong password look the same", func(t *testing.T) {
		user := storedUser(t, "student@example.edu", "Sup3r$ecret", portal.RoleUser)

		store := &MockUserStore{}
		store.On("GetByEmail", ctx, "nobody@example.edu").
			Return(nil, repository.NewRecordNotFound()).Once()
		store.On("GetByEmail", ctx, "student@example.edu").Return(user, nil).Once()

		provider := portal.NewUserProvider(store)

		_, errMissing := provider.VerifyIdentity(ctx, "nobody@example.edu", "Sup3r$ecret")
		_, errWrongPwd := provider.VerifyIdentity(ctx, "student@example.edu", "wrong-password")

		require.Error(t, errMissing)
		require.Error(t, errWrongPwd)
		assert.Equal(t, errMissing, errWrongPwd)
	})

	t.Run("storage failures surface as internal", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByEmail", ctx, "student@example.edu").
			Return(nil, goerrors.New("connection refused", goerrors.CategoryInternal)).Once()

		provider := portal.NewUserProvider(store)

		_, err := provider.VerifyIdentity(ctx, "student@example.edu", "Sup3r$ecret")
		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)
	})

	t.Run("email matching is byte exact", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByEmail", ctx, "Student@Example.edu").
			Return(nil, repository.NewRecordNotFound()).Once()

		provider := portal.NewUserProvider(store)

		_, err := provider.VerifyIdentity(ctx, "Student@Example.edu", "Sup3r$ecret")
		assert.Error(t, err)
	})
}

func TestUserProvider_FindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("finds by identifier", func(t *testing.T) {
		user := storedUser(t, "student@example.edu", "Sup3r$ecret", portal.RoleAdmin)

		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, user.ID.String()).Return(user, nil).Once()

		provider := portal.NewUserProvider(store)

		identity, err := provider.FindIdentityByIdentifier(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, portal.RoleAdmin, identity.Role())
	})

	t.Run("propagates not found", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByIdentifier", ctx, "missing@example.edu").
			Return(nil, repository.NewRecordNotFound()).Once()

		provider := portal.NewUserProvider(store)

		_, err := provider.FindIdentityByIdentifier(ctx, "missing@example.edu")
		assert.Error(t, err)
	})
}

package blog_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	blog "github.com/pressbird/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserStore implements blog.UserStore for testing
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*blog.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.User), args.Error(1)
}

func (m *MockUserStore) GetByUserID(ctx context.Context, id uuid.UUID) (*blog.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.User), args.Error(1)
}

func newStoredUser(t *testing.T, password string) *blog.User {
	t.Helper()
	hash, err := blog.HashPassword(password)
	require.NoError(t, err)
	return &blog.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         blog.RoleUser,
	}
}

func TestUserProvider_VerifyIdentity(t *testing.T) {
	t.Run("returns the identity for valid credentials", func(t *testing.T) {
		user := newStoredUser(t, "p4ssword-123")
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		identity, err := provider.VerifyIdentity(context.Background(), "alice", "p4ssword-123")
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "alice", identity.Username())
		assert.Equal(t, "alice@example.com", identity.Email())
		assert.Equal(t, blog.RoleUser, identity.Role())

		store.AssertExpectations(t)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		user := newStoredUser(t, "p4ssword-123")
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		identity, err := provider.VerifyIdentity(context.Background(), "alice", "wrong-password")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})

	t.Run("maps an unknown username to invalid credentials", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "nobody").
			Return(nil, repository.NewRecordNotFound())

		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		identity, err := provider.VerifyIdentity(context.Background(), "nobody", "whatever")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, blog.ErrInvalidCredentials)
	})

	t.Run("rejects a malformed stored digest as invalid credentials", func(t *testing.T) {
		user := newStoredUser(t, "p4ssword-123")
		user.PasswordHash = "not-a-bcrypt-digest"

		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		_, err := provider.VerifyIdentity(context.Background(), "alice", "p4ssword-123")
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})

	t.Run("wraps unexpected store failures as internal", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", mock.Anything, "alice").
			Return(nil, goerrors.New("connection refused", goerrors.CategoryOperation))

		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		_, err := provider.VerifyIdentity(context.Background(), "alice", "p4ssword-123")
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)
	})
}

func TestUserProvider_FindIdentityByID(t *testing.T) {
	t.Run("resolves the stored identity", func(t *testing.T) {
		user := newStoredUser(t, "p4ssword-123")
		store := &MockUserStore{}
		store.On("GetByUserID", mock.Anything, user.ID).Return(user, nil)

		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		identity, err := provider.FindIdentityByID(context.Background(), user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "alice", identity.Username())
	})

	t.Run("rejects a non UUID id", func(t *testing.T) {
		store := &MockUserStore{}
		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		_, err := provider.FindIdentityByID(context.Background(), "42")
		require.Error(t, err)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryBadInput, richErr.Category)

		store.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})

	t.Run("maps a missing row to identity not found", func(t *testing.T) {
		id := uuid.New()
		store := &MockUserStore{}
		store.On("GetByUserID", mock.Anything, id).Return(nil, repository.NewRecordNotFound())

		provider := blog.NewUserProvider(store).WithLogger(testLogger{})

		_, err := provider.FindIdentityByID(context.Background(), id.String())
		assert.ErrorIs(t, err, blog.ErrIdentityNotFound)
	})
}

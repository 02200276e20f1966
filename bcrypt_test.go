package blog_test

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	blog "github.com/pressbird/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes with the configured cost", func(t *testing.T) {
		hash, err := blog.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, blog.PasswordHashCost, cost)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		hash, err := blog.HashPassword("")
		assert.Empty(t, hash)
		assert.ErrorIs(t, err, blog.ErrNoEmptyString)
	})

	t.Run("produces distinct digests for the same input", func(t *testing.T) {
		a, err := blog.HashPassword("same password")
		require.NoError(t, err)
		b, err := blog.HashPassword("same password")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := blog.HashPassword("s3cret-password")
	require.NoError(t, err)

	t.Run("accepts the matching password", func(t *testing.T) {
		assert.NoError(t, blog.ComparePasswordAndHash("s3cret-password", hash))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		err := blog.ComparePasswordAndHash("not-the-password", hash)
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects an empty stored digest", func(t *testing.T) {
		err := blog.ComparePasswordAndHash("s3cret-password", "")
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects a malformed stored digest", func(t *testing.T) {
		err := blog.ComparePasswordAndHash("s3cret-password", "plaintext-not-a-bcrypt-digest")
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})

	t.Run("failure maps to the auth category", func(t *testing.T) {
		err := blog.ComparePasswordAndHash("wrong", hash)

		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryAuth, richErr.Category)
		assert.Equal(t, blog.TextCodeInvalidCreds, richErr.TextCode)
	})
}

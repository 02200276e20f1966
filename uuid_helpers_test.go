package blog_test

import (
	"testing"

	"github.com/google/uuid"
	blog "github.com/pressbird/go-blog"
	"github.com/stretchr/testify/assert"
)

func TestHasUserUUID(t *testing.T) {
	assert.False(t, blog.HasUserUUID(nil))

	assert.False(t, blog.HasUserUUID(&blog.SessionObject{UserID: "not-a-uuid"}))
	assert.False(t, blog.HasUserUUID(&blog.SessionObject{}))

	assert.True(t, blog.HasUserUUID(&blog.SessionObject{UserID: uuid.NewString()}))
}

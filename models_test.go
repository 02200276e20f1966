package blog_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	blog "github.com/pressbird/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONNeverExposesPasswordHash(t *testing.T) {
	user := blog.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuv",
		Role:         blog.RoleUser,
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$12$")
	assert.Contains(t, string(raw), "alice")
}

func TestPostWithAuthorJSONShape(t *testing.T) {
	row := blog.PostWithAuthor{
		ID:       uuid.New(),
		Title:    "A title",
		Category: blog.CategoryNews,
		Excerpt:  "teaser",
		Content:  "body",
		Author:   "alice",
	}

	raw, err := json.Marshal(row)
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"id", "title", "category", "excerpt", "content", "author", "date"} {
		assert.Contains(t, decoded, key)
	}
}

func TestCommentWithAuthorJSONShape(t *testing.T) {
	row := blog.CommentWithAuthor{
		ID:      uuid.New(),
		Content: "hello",
		UserID:  uuid.New(),
		User:    "alice",
	}

	raw, err := json.Marshal(row)
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{"id", "content", "date", "user_id", "user"} {
		assert.Contains(t, decoded, key)
	}
}

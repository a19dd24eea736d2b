package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostLike(t *testing.T) {
	first, second := NewID(), NewID()
	post := &Post{ID: NewID()}

	require.NoError(t, post.Like(first))
	require.NoError(t, post.Like(second))
	assert.ErrorIs(t, post.Like(first), ErrAlreadyLiked)

	require.Len(t, post.Likes, 2)
	assert.Equal(t, second, post.Likes[0].User, "latest like goes first")
	assert.Equal(t, first, post.Likes[1].User)
	assert.NotEqual(t, post.Likes[0].ID, post.Likes[1].ID)
}

func TestPostUnlike(t *testing.T) {
	userID := NewID()
	post := &Post{ID: NewID()}

	assert.ErrorIs(t, post.Unlike(userID), ErrNotLiked)

	require.NoError(t, post.Like(userID))
	require.NoError(t, post.Unlike(userID))
	assert.Empty(t, post.Likes)
	assert.False(t, post.IsLikedBy(userID))
}

func TestPostUnlikeDoesNotMutateSharedSlice(t *testing.T) {
	a, b := NewID(), NewID()
	post := &Post{}
	require.NoError(t, post.Like(a))
	require.NoError(t, post.Like(b))

	before := post.Likes
	require.NoError(t, post.Unlike(b))

	assert.Equal(t, b, before[0].User)
	require.Len(t, post.Likes, 1)
	assert.Equal(t, a, post.Likes[0].User)
}

func TestPostComments(t *testing.T) {
	author, stranger := NewID(), NewID()
	post := &Post{}

	post.AddComment(Comment{User: author, Text: "first"})
	post.AddComment(Comment{User: author, Text: "second"})
	require.Len(t, post.Comments, 2)
	assert.Equal(t, "second", post.Comments[0].Text)

	target := post.Comments[1].ID
	assert.ErrorIs(t, post.RemoveComment(target, stranger), ErrNotAuthorized)
	assert.Len(t, post.Comments, 2)

	assert.ErrorIs(t, post.RemoveComment(NewID(), author), ErrCommentNotFound)

	require.NoError(t, post.RemoveComment(target, author))
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "second", post.Comments[0].Text)
}

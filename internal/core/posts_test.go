package core

import (
	"context"
	"testing"

	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "Jane", "jane@example.com")

	first, err := f.core.CreatePost(ctx, userID, "first")
	require.NoError(t, err)
	assert.Equal(t, "Jane", first.Name)
	assert.NotEmpty(t, first.Avatar)
	assert.NotNil(t, first.Likes)

	second, err := f.core.CreatePost(ctx, userID, "second")
	require.NoError(t, err)

	posts, err := f.core.ListPosts(ctx, filter.All())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	_, err = f.core.GetPost(ctx, models.NewID())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Jane", "jane@example.com")
	stranger := f.register(t, "Bob", "bob@example.com")

	post, err := f.core.CreatePost(ctx, owner, "hello")
	require.NoError(t, err)

	assert.ErrorIs(t, f.core.DeletePost(ctx, stranger, post.ID), models.ErrNotAuthorized)
	require.NoError(t, f.core.DeletePost(ctx, owner, post.ID))
	assert.ErrorIs(t, f.core.DeletePost(ctx, owner, post.ID), ErrPostNotFound)
	assert.Equal(t, []string{events.UserRegistered, events.UserRegistered, events.PostCreated, events.PostDeleted}, f.events.Subjects())
}

func TestLikeAndUnlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "Jane", "jane@example.com")
	post, err := f.core.CreatePost(ctx, userID, "hello")
	require.NoError(t, err)

	_, err = f.core.UnlikePost(ctx, userID, post.ID)
	assert.ErrorIs(t, err, models.ErrNotLiked)

	likes, err := f.core.LikePost(ctx, userID, post.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, userID, likes[0].User)

	_, err = f.core.LikePost(ctx, userID, post.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyLiked)

	likes, err = f.core.UnlikePost(ctx, userID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = f.core.LikePost(ctx, userID, models.NewID())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Jane", "jane@example.com")
	other := f.register(t, "Bob", "bob@example.com")
	post, err := f.core.CreatePost(ctx, author, "hello")
	require.NoError(t, err)

	comments, err := f.core.AddComment(ctx, other, post.ID, "nice")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Bob", comments[0].Name)

	_, err = f.core.RemoveComment(ctx, author, post.ID, comments[0].ID)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	_, err = f.core.RemoveComment(ctx, other, post.ID, models.NewID())
	assert.ErrorIs(t, err, models.ErrCommentNotFound)

	comments, err = f.core.RemoveComment(ctx, other, post.ID, comments[0].ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

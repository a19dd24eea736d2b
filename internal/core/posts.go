package core

import (
	"context"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPostNotFound = xerrors.Message("Post not found")

type postEvent struct {
	Post string `json:"post"`
	User string `json:"user"`
}

// CreatePost stores a post stamped with the author's current name and avatar.
func (c *Core) CreatePost(ctx context.Context, userID primitive.ObjectID, text string) (*models.Post, error) {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       models.NewID(),
		User:     user.ID,
		Text:     text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     c.now().UTC(),
	}
	if err := c.store.InsertPost(ctx, post); err != nil {
		return nil, xerrors.New(err)
	}

	c.publish(ctx, events.PostCreated, postEvent{Post: post.ID.Hex(), User: userID.Hex()})
	return post, nil
}

func (c *Core) ListPosts(ctx context.Context, f filter.Filter) ([]*models.Post, error) {
	posts, err := c.store.ListPosts(ctx, f)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (c *Core) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	post, err := c.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, xerrors.New(ErrPostNotFound)
		}
		return nil, xerrors.New(err)
	}
	return post, nil
}

// DeletePost removes the post when userID is its author.
func (c *Core) DeletePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	post, err := c.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.User != userID {
		return xerrors.New(models.ErrNotAuthorized)
	}

	if err := c.store.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return xerrors.New(ErrPostNotFound)
		}
		return xerrors.New(err)
	}

	c.publish(ctx, events.PostDeleted, postEvent{Post: postID.Hex(), User: userID.Hex()})
	return nil
}

func (c *Core) LikePost(ctx context.Context, userID, postID primitive.ObjectID) ([]models.Like, error) {
	post, err := c.updatePost(ctx, postID, func(p *models.Post) error {
		return p.Like(userID)
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.PostLiked, postEvent{Post: postID.Hex(), User: userID.Hex()})
	return post.Likes, nil
}

func (c *Core) UnlikePost(ctx context.Context, userID, postID primitive.ObjectID) ([]models.Like, error) {
	post, err := c.updatePost(ctx, postID, func(p *models.Post) error {
		return p.Unlike(userID)
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.PostUnliked, postEvent{Post: postID.Hex(), User: userID.Hex()})
	return post.Likes, nil
}

func (c *Core) AddComment(ctx context.Context, userID, postID primitive.ObjectID, text string) ([]models.Comment, error) {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := c.updatePost(ctx, postID, func(p *models.Post) error {
		p.AddComment(models.Comment{
			ID:     models.NewID(),
			User:   user.ID,
			Text:   text,
			Name:   user.Name,
			Avatar: user.Avatar,
			Date:   c.now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.PostCommented, postEvent{Post: postID.Hex(), User: userID.Hex()})
	return post.Comments, nil
}

// RemoveComment deletes a comment written by userID.
func (c *Core) RemoveComment(ctx context.Context, userID, postID, commentID primitive.ObjectID) ([]models.Comment, error) {
	post, err := c.updatePost(ctx, postID, func(p *models.Post) error {
		return p.RemoveComment(commentID, userID)
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (c *Core) updatePost(ctx context.Context, postID primitive.ObjectID, mutate func(*models.Post) error) (*models.Post, error) {
	post, err := c.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := mutate(post); err != nil {
		return nil, xerrors.New(err)
	}
	if err := c.store.SavePost(ctx, post); err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, xerrors.New(ErrPostNotFound)
		}
		return nil, xerrors.New(err)
	}
	return post, nil
}

// Package store defines the persistence contract shared by the storage drivers.
package store

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoRecord     = xerrors.Message("No record found")
	ErrDuplicateKey = xerrors.Message("Duplicate key")
)

type UserStore interface {
	InsertUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDList(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
}

type ProfileStore interface {
	GetProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	ListProfiles(ctx context.Context, f filter.Filter) ([]*models.Profile, error)
	// SaveProfile inserts or replaces the profile owned by profile.User.
	SaveProfile(ctx context.Context, profile *models.Profile) error
}

type PostStore interface {
	InsertPost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// ListPosts returns posts newest first.
	ListPosts(ctx context.Context, f filter.Filter) ([]*models.Post, error)
	SavePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
}

type Store interface {
	UserStore
	ProfileStore
	PostStore

	// DeleteAccount removes the user's posts, profile and identity.
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
	Close(ctx context.Context) error
}

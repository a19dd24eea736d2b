package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/gravatar"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrDuplicateEmail     = xerrors.Message("User already exists")
	ErrInvalidCredentials = xerrors.Message("Invalid Credentials")
	ErrUserNotFound       = xerrors.Message("User not found")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterUser creates the identity and returns a freshly signed token.
func (c *Core) RegisterUser(ctx context.Context, input RegisterInput) (string, error) {
	email := normalizeEmail(input.Email)

	_, err := c.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return "", xerrors.New(ErrDuplicateEmail)
	case !errors.Is(err, store.ErrNoRecord):
		return "", xerrors.New(err)
	}

	user := &models.User{
		ID:     models.NewID(),
		Name:   strings.TrimSpace(input.Name),
		Email:  email,
		Avatar: gravatar.URL(email),
		Date:   c.now().UTC(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		return "", err
	}

	if err := c.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return "", xerrors.New(ErrDuplicateEmail)
		}
		return "", xerrors.New(err)
	}

	token, err := c.auth.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}

	c.log.Info("User registered", slog.String("user_id", user.ID.Hex()))
	c.publish(ctx, events.UserRegistered, user.Summary())
	return token, nil
}

func (c *Core) Login(ctx context.Context, email, password string) (string, error) {
	user, err := c.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return "", xerrors.New(ErrInvalidCredentials)
		}
		return "", xerrors.New(err)
	}

	match, err := user.IsPasswordMatch(password)
	if err != nil {
		return "", err
	}
	if !match {
		return "", xerrors.New(ErrInvalidCredentials)
	}

	return c.auth.GenerateToken(user.ID)
}

func (c *Core) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := c.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, xerrors.New(ErrUserNotFound)
		}
		return nil, xerrors.New(err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

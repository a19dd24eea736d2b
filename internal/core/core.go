package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/siahsang/devconnector/internal/auth"
	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/store"
)

// RepoFetcher lists the public repositories of a GitHub user.
type RepoFetcher interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

type Core struct {
	log    *slog.Logger
	store  store.Store
	auth   *auth.Auth
	events events.Publisher
	repos  RepoFetcher
	now    func() time.Time
}

func NewCore(st store.Store, authenticator *auth.Auth, publisher events.Publisher, repos RepoFetcher, log *slog.Logger) *Core {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Core{
		log:    log,
		store:  st,
		auth:   authenticator,
		events: publisher,
		repos:  repos,
		now:    time.Now,
	}
}

// publish never fails the caller; the write it describes already happened.
func (c *Core) publish(ctx context.Context, subject string, payload any) {
	if err := c.events.Publish(ctx, subject, payload); err != nil {
		c.log.Warn("failed to publish event", slog.String("subject", subject), slog.String("error", err.Error()))
	}
}

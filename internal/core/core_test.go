package core

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/auth"
	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/store/memstore"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errGitHubDown = xerrors.Message("github down")

type stubRepos struct {
	body json.RawMessage
	err  error
	got  string
}

func (s *stubRepos) Repos(_ context.Context, username string) (json.RawMessage, error) {
	s.got = username
	return s.body, s.err
}

type fixture struct {
	core   *Core
	auth   *auth.Auth
	store  *memstore.Store
	events *events.Recorder
	repos  *stubRepos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		auth:   auth.New("test-secret", time.Hour),
		store:  memstore.New(),
		events: &events.Recorder{},
		repos:  &stubRepos{body: json.RawMessage(`[]`)},
	}
	f.core = NewCore(f.store, f.auth, f.events, f.repos, slog.New(slog.NewTextHandler(io.Discard, nil)))

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f.core.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return f
}

// register creates a user and returns its id.
func (f *fixture) register(t *testing.T, name, email string) primitive.ObjectID {
	t.Helper()

	token, err := f.core.RegisterUser(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)

	identity, err := f.auth.Authenticate(token)
	require.NoError(t, err)
	return identity.ID
}

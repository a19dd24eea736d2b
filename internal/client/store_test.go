package client

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStoreSubscribe(t *testing.T) {
	store := NewStore(InitialState(""), nil)

	var types []string
	unsubscribe := store.Subscribe(func(prev, next State, a Action) {
		types = append(types, a.Type())
	})

	store.Dispatch(LoginSuccess{Token: "abc"})
	assert.Equal(t, "abc", store.Auth().Token)

	unsubscribe()
	unsubscribe()
	store.Dispatch(Logout{})

	assert.Equal(t, []string{"LOGIN_SUCCESS"}, types)
	assert.Empty(t, store.Auth().Token)
}

func TestPersistToken(t *testing.T) {
	storage := &MemoryTokenStorage{}
	store := NewStore(InitialState(""), nil)
	store.Subscribe(PersistToken(storage, discardLogger()))

	store.Dispatch(RegisterSuccess{Token: "abc"})
	token, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	store.Dispatch(Logout{})
	token, err = storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestBindToken(t *testing.T) {
	api := NewAPI("http://localhost")
	store := NewStore(InitialState(""), nil)
	store.Subscribe(BindToken(api))

	store.Dispatch(LoginSuccess{Token: "abc"})
	assert.Equal(t, "abc", api.Token())

	store.Dispatch(AuthError{})
	assert.Empty(t, api.Token())
}

func TestFileTokenStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	storage := NewFileTokenStorage(path)

	token, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, storage.Save("abc"))
	token, err = storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, storage.Clear())
	require.NoError(t, storage.Clear())
	token, err = storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

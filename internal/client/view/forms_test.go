package view

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/siahsang/devconnector/internal/client"
	"github.com/siahsang/devconnector/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T, handler http.Handler) *client.Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := client.NewStore(client.InitialState(""), nil)
	api := client.NewAPI(srv.URL)
	store.Subscribe(client.BindToken(api))
	return client.NewDispatcher(api, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func authServer(t *testing.T) (http.Handler, *atomic.Int32) {
	calls := &atomic.Int32{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "password2")
		json.NewEncoder(w).Encode(map[string]string{"token": "t"})
	})
	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"token": "t"})
	})
	mux.HandleFunc("GET /api/auth", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.User{ID: models.NewID(), Name: "Jane"})
	})
	return mux, calls
}

func TestRegisterFormPasswordMismatch(t *testing.T) {
	handler, calls := authServer(t)
	d := newDispatcher(t, handler)

	form := RegisterForm{Name: "Jane", Email: "jane@example.com", Password: "secret1", Password2: "secret2"}
	redirect, err := form.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, redirect)
	assert.Zero(t, calls.Load())

	alerts := d.Store().Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Passwords do not match", alerts[0].Msg)
	assert.Equal(t, client.AlertDanger, alerts[0].Type)
}

func TestRegisterFormRedirectsAfterSignup(t *testing.T) {
	handler, calls := authServer(t)
	d := newDispatcher(t, handler)

	form := RegisterForm{Name: "Jane", Email: "jane@example.com", Password: "secret1", Password2: "secret1"}
	redirect, err := form.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, DashboardPath, redirect)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Jane", d.Store().Auth().User.Name)
}

func TestFormsRedirectWhenAuthenticated(t *testing.T) {
	handler, calls := authServer(t)
	d := newDispatcher(t, handler)
	d.Store().Dispatch(client.LoginSuccess{Token: "t"})

	redirect, err := LoginForm{Email: "jane@example.com", Password: "secret1"}.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, DashboardPath, redirect)

	redirect, err = RegisterForm{Password: "a", Password2: "b"}.Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, DashboardPath, redirect)

	assert.Zero(t, calls.Load())
	assert.Empty(t, d.Store().Alerts())
}

func TestLoginFormStaysOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"errors": []map[string]string{{"msg": "Invalid Credentials"}}})
	})
	d := newDispatcher(t, mux)

	redirect, err := LoginForm{Email: "jane@example.com", Password: "wrong"}.Submit(context.Background(), d)
	require.Error(t, err)
	assert.Empty(t, redirect)

	alerts := d.Store().Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Invalid Credentials", alerts[0].Msg)
}

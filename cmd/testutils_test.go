package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siahsang/devconnector/internal/auth"
	"github.com/siahsang/devconnector/internal/config"
	"github.com/siahsang/devconnector/internal/core"
	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/github"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/internal/store/memstore"
	"github.com/stretchr/testify/require"
)

type stubRepos struct{}

func (stubRepos) Repos(_ context.Context, username string) (json.RawMessage, error) {
	if username == "octocat" {
		return json.RawMessage(`[{"name":"hello-world"}]`), nil
	}
	return nil, github.ErrNotFound
}

type testServer struct {
	handler http.Handler
	events  *events.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithStore(t, memstore.New())
}

func newTestServerWithStore(t *testing.T, st store.Store) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Env: "test"}
	recorder := &events.Recorder{}
	authenticator := auth.New("test-secret", time.Hour)

	app := &application{
		config: cfg,
		logger: logger,
		core:   core.NewCore(st, authenticator, recorder, stubRepos{}, logger),
		auth:   authenticator,
	}
	return &testServer{handler: app.routes(), events: recorder}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), string(r.body))
}

func (r response) msg(t *testing.T) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	r.decode(t, &body)
	return body.Msg
}

func (r response) errorMessages(t *testing.T) []string {
	t.Helper()
	var body struct {
		Errors []struct {
			Msg   string `json:"msg"`
			Param string `json:"param"`
		} `json:"errors"`
	}
	r.decode(t, &body)

	messages := make([]string, len(body.Errors))
	for i, e := range body.Errors {
		messages[i] = e.Msg
	}
	return messages
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return response{status: rec.Code, header: rec.Header(), body: rec.Body.Bytes()}
}

// register signs up a user and returns its token.
func (ts *testServer) register(t *testing.T, name, email string) string {
	t.Helper()

	res := ts.do(t, http.MethodPost, "/api/users", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, res.status, string(res.body))

	var body struct {
		Token string `json:"token"`
	}
	res.decode(t, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siahsang/devconnector/internal/config"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareApplication() *application {
	return &application{
		config: &config.Config{Env: "test"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newBareApplication()
	handler := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"msg":"Server Error"}`, rec.Body.String())
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestLogRequestsSetsRequestID(t *testing.T) {
	app := newBareApplication()
	var seen string
	handler := app.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRateLimit(t *testing.T) {
	app := newBareApplication()
	app.limiter = newClientLimiter(1, 2)
	handler := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other clients have their own bucket")

	require.Equal(t, 2, app.limiter.evictIdle(-time.Second))
	require.Zero(t, app.limiter.clients.Len())
}

func TestRateLimitDisabledByDefault(t *testing.T) {
	app := newBareApplication()
	app.limiter = newClientLimiter(0, 20)
	require.Nil(t, app.limiter)

	handler := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestHealthcheckAndUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	res := ts.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, res.status)
	assert.JSONEq(t, `{"status":"ok","env":"test"}`, string(res.body))

	res = ts.do(t, http.MethodGet, "/api/nothing", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)

	res = ts.do(t, http.MethodPatch, "/api/posts", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.status)
}

// unreachableStore panics on any call, which the server reports as a 500.
type unreachableStore struct {
	store.Store
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	ts := newTestServerWithStore(t, unreachableStore{})
	id := "5f1d7f3e8c1b2a0011223344"

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth"},
		{http.MethodGet, "/api/profile/me"},
		{http.MethodPost, "/api/profile"},
		{http.MethodDelete, "/api/profile"},
		{http.MethodPut, "/api/profile/experience"},
		{http.MethodDelete, "/api/profile/experience/" + id},
		{http.MethodPut, "/api/profile/education"},
		{http.MethodDelete, "/api/profile/education/" + id},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/posts"},
		{http.MethodGet, "/api/posts/" + id},
		{http.MethodDelete, "/api/posts/" + id},
		{http.MethodPut, "/api/posts/like/" + id},
		{http.MethodPut, "/api/posts/unlike/" + id},
		{http.MethodPost, "/api/posts/comment/" + id},
		{http.MethodDelete, "/api/posts/comment/" + id + "/" + id},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			res := ts.do(t, route.method, route.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, res.status)
			assert.Equal(t, "No token, authorization denied", res.msg(t))

			res = ts.do(t, route.method, route.path, nil, "garbage")
			assert.Equal(t, http.StatusUnauthorized, res.status)
			assert.Equal(t, "Token is not valid", res.msg(t))
		})
	}
}

package main

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/auth"
	"github.com/siahsang/devconnector/internal/utils/collectionutils"
	"github.com/siahsang/devconnector/internal/web"
	"golang.org/x/time/rate"
)

var requestIDKey = web.NewKey[string]("request_id")

// requireAuthenticatedUser verifies the token only; handlers load whatever
// documents they need.
func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", auth.TokenHeader)

		token := r.Header.Get(auth.TokenHeader)
		if token == "" {
			app.unauthorizedResponse(w, r, "No token, authorization denied", nil)
			return
		}

		identity, err := app.auth.Authenticate(token)
		if err != nil {
			app.unauthorizedResponse(w, r, auth.ErrInvalidToken.Error(), err)
			return
		}

		next(w, app.auth.SetAuthenticatedUser(r, identity))
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, xerrors.Newf("panic: %v", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

func (app *application) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		r = requestIDKey.Set(r, requestID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)

		app.logger.LogAttrs(r.Context(), slog.LevelInfo, "Request handled",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func requestIDFromContext(r *http.Request) string {
	requestID, _ := requestIDKey.Get(r)
	return requestID
}

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// clientLimiter hands out one token bucket per remote IP.
type clientLimiter struct {
	clients *collectionutils.SafeMap[string, *client]
	rps     rate.Limit
	burst   int
}

// newClientLimiter returns nil, which disables limiting, unless rps is positive.
func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		return nil
	}
	return &clientLimiter{
		clients: collectionutils.New[string, *client](),
		rps:     rate.Limit(rps),
		burst:   max(burst, 1),
	}
}

func (cl *clientLimiter) allow(ip string) bool {
	c := cl.clients.GetOrCreate(ip, func() *client {
		return &client{limiter: rate.NewLimiter(cl.rps, cl.burst)}
	})
	c.lastSeen.Store(time.Now().UnixNano())
	return c.limiter.Allow()
}

// evictIdle forgets clients not seen within idle.
func (cl *clientLimiter) evictIdle(idle time.Duration) int {
	cutoff := time.Now().Add(-idle).UnixNano()
	return cl.clients.DeleteFunc(func(_ string, c *client) bool {
		return c.lastSeen.Load() < cutoff
	})
}

func (app *application) rateLimit(next http.Handler) http.Handler {
	if app.limiter == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !app.limiter.allow(ip) {
			app.rateLimitExceededResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

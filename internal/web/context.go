// Package web carries request scoped values between middleware and handlers.
package web

import (
	"context"
	"net/http"
)

// Key is a typed request context key. Two keys with the same name but
// different types never collide.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func (k Key[T]) String() string {
	return k.name
}

// Set returns a shallow copy of r carrying value under k.
func (k Key[T]) Set(r *http.Request, value T) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), k, value))
}

func (k Key[T]) Get(r *http.Request) (T, bool) {
	return k.Value(r.Context())
}

func (k Key[T]) Value(ctx context.Context) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	requestID := NewKey[string]("request_id")
	r := httptest.NewRequest("GET", "/", nil)

	_, ok := requestID.Get(r)
	assert.False(t, ok)

	r = requestID.Set(r, "abc")
	got, ok := requestID.Get(r)
	assert.True(t, ok)
	assert.Equal(t, "abc", got)

	_, ok = NewKey[int]("request_id").Get(r)
	assert.False(t, ok, "same name with another type is a different key")

	got, ok = requestID.Value(r.Context())
	assert.True(t, ok)
	assert.Equal(t, "abc", got)
}

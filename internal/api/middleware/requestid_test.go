package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadup/squadup/internal/api/middleware"
)

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/players", nil)
	w := httptest.NewRecorder()
	middleware.RequestID(next).ServeHTTP(w, req)

	require.NotEmpty(t, got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, got, w.Header().Get("X-Request-ID"))
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	t.Parallel()

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/players", nil)
	req.Header.Set("X-Request-ID", "client-id")
	w := httptest.NewRecorder()
	middleware.RequestID(next).ServeHTTP(w, req)

	assert.Equal(t, "client-id", got)
	assert.Equal(t, "client-id", w.Header().Get("X-Request-ID"))
}

func TestGetRequestID_MissingContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", middleware.GetRequestID(req.Context()))
}

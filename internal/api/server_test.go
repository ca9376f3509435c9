package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aftervisit/aftervisit/internal/answer"
	"github.com/aftervisit/aftervisit/internal/testutil"
)

func newTestServer(t *testing.T, fa *fakeAnswerer) *Server {
	t.Helper()

	srv, err := NewServer(ServerConfig{
		Logger:   testutil.DiscardLogger(),
		Answerer: fa,
		IsDev:    true,
		RateRPS:  1000, // effectively unlimited for routing tests
	})
	require.NoError(t, err)
	return srv
}

func TestNewServer_RequiresAnswerer(t *testing.T) {
	t.Parallel()

	_, err := NewServer(ServerConfig{Logger: testutil.DiscardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "answerer")
}

func TestServer_ChatRoute(t *testing.T) {
	t.Parallel()

	fa := &fakeAnswerer{result: &answer.Result{Answer: "ok", SessionID: uuid.New()}}
	srv := newTestServer(t, fa)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/chat?patient_id="+uuid.New().String()+"&question=hello", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS must be off in dev")
}

func TestServer_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnswerer{result: &answer.Result{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_UnknownRoute(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnswerer{result: &answer.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_HealthBypassesMiddleware(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnswerer{result: &answer.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	// Health probes skip the middleware stack entirely.
	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestServer_ReadyWithoutPool(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeAnswerer{result: &answer.Result{}})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestServer_RateLimiting(t *testing.T) {
	t.Parallel()

	fa := &fakeAnswerer{result: &answer.Result{Answer: "ok", SessionID: uuid.New()}}
	srv, err := NewServer(ServerConfig{
		Logger:    testutil.DiscardLogger(),
		Answerer:  fa,
		IsDev:     true,
		RateRPS:   0.001, // no refill within the test window
		RateBurst: 2,
	})
	require.NoError(t, err)

	target := "/api/v1/chat?patient_id=" + uuid.New().String() + "&question=hello"

	var lastCode int
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.RemoteAddr = "10.1.2.3:5555"
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		lastCode = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)

	// A different IP still has its own budget.
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "10.9.9.9:5555"
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

type panickingAnswerer struct{}

func (panickingAnswerer) Answer(context.Context, uuid.UUID, *uuid.UUID, string) (*answer.Result, error) {
	panic("boom")
}

func TestServer_PanicRecovery(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(ServerConfig{
		Logger:   testutil.DiscardLogger(),
		Answerer: panickingAnswerer{},
		IsDev:    true,
		RateRPS:  1000,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/chat?patient_id="+uuid.New().String()+"&question=hello", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

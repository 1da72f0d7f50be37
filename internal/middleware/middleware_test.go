package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatsync/internal/auth"
	"github.com/iyunix/go-chatsync/internal/metrics"
	"github.com/iyunix/go-chatsync/internal/ratelimit"
	"github.com/iyunix/go-chatsync/internal/testutil"
)

var secret = []byte("middleware-secret")

// echoOwner writes the owner attached to the request context.
var echoOwner = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerIDFromContext(r.Context())
	_, _ = w.Write([]byte(owner))
})

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestAuth_JWTMode(t *testing.T) {
	h := NewAuthMiddleware(AuthConfig{Mode: AuthModeJWT, SecretKey: secret}, testutil.NopLogger{})(echoOwner)

	rec := serve(h, httptest.NewRequest("GET", "/api/sync", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["error"])

	r := httptest.NewRequest("GET", "/api/sync", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, serve(h, r).Code)

	token, err := auth.GenerateJWT("user-1", secret, time.Hour)
	require.NoError(t, err)
	r = httptest.NewRequest("GET", "/api/sync", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec = serve(h, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuth_HeaderMode(t *testing.T) {
	h := NewAuthMiddleware(AuthConfig{Mode: AuthModeHeader}, testutil.NopLogger{})(echoOwner)

	r := httptest.NewRequest("GET", "/api/sync", nil)
	r.Header.Set(HeaderUserID, "user-9")
	assert.Equal(t, http.StatusUnauthorized, serve(h, r).Code, "bearer header is still required")

	r.Header.Set("Authorization", "Bearer proxied")
	rec := serve(h, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-9", rec.Body.String())

	r = httptest.NewRequest("GET", "/api/sync", nil)
	r.Header.Set("Authorization", "Bearer proxied")
	assert.Equal(t, http.StatusUnauthorized, serve(h, r).Code)
}

func TestLogging_RequestID(t *testing.T) {
	var seen string
	h := LoggingMiddleware(testutil.NopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := serve(h, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(HeaderRequestID, "given-id")
	rec = serve(h, r)
	assert.Equal(t, "given-id", rec.Header().Get(HeaderRequestID))
}

func TestRateLimit_PerOwner(t *testing.T) {
	pool := ratelimit.NewPool(&ratelimit.Config{RPS: 0.001, Burst: 1})
	defer pool.Close()
	m := metrics.NewMetrics()

	h := RateLimitMiddleware(pool, m, testutil.NopLogger{})(echoOwner)
	req := func(owner string) *http.Request {
		r := httptest.NewRequest("GET", "/api/sync", nil)
		return r.WithContext(WithOwnerID(r.Context(), owner))
	}

	assert.Equal(t, http.StatusOK, serve(h, req("a")).Code)
	rec := serve(h, req("a"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, serve(h, req("b")).Code)
}

func TestRecoverPanic(t *testing.T) {
	h := RecoverPanic(testutil.NopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	assert.Equal(t, http.StatusInternalServerError, serve(h, httptest.NewRequest("GET", "/", nil)).Code)
}

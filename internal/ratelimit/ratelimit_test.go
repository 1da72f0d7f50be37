package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPool_BurstThenThrottle(t *testing.T) {
	p := NewPool(&Config{RPS: 0.001, Burst: 3})
	defer p.Close()

	for i := 0; i < 3; i++ {
		allowed, info := p.Allow("u1")
		assert.True(t, allowed, "request %d", i)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, info := p.Allow("u1")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Positive(t, info.RetryAfter)

	allowed, _ = p.Allow("u2")
	assert.True(t, allowed, "keys have separate buckets")
}

func TestPool_CleanupDropsIdleKeys(t *testing.T) {
	p := NewPool(&Config{RPS: 1, Burst: 1, IdleTTL: time.Minute})
	defer p.Close()

	p.Allow("a")
	p.Allow("b")
	assert.Equal(t, 2, p.Len())

	p.cleanup(time.Now().Add(2 * time.Minute))
	assert.Zero(t, p.Len())
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	p := NewPool(nil)
	p.Close()
	p.Close()
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.3")
	assert.Equal(t, "203.0.113.7", GetClientIP(r))
}

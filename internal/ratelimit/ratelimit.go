// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiting configuration
type Config struct {
	RPS           float64       // Sustained requests per second per key
	Burst         int           // Bucket size
	IdleTTL       time.Duration // Limiters unused this long are dropped
	CleanupPeriod time.Duration // How often idle limiters are swept
}

// DefaultConfig returns limits sized for sync clients that push in bursts.
func DefaultConfig() *Config {
	return &Config{
		RPS:           5,
		Burst:         20,
		IdleTTL:       30 * time.Minute,
		CleanupPeriod: 10 * time.Minute,
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Pool keeps one token bucket per key.
type Pool struct {
	config  *Config
	mu      sync.Mutex
	entries map[string]*entry
	stopCh  chan struct{}
	once    sync.Once
}

// NewPool creates a limiter pool and starts its cleanup loop.
func NewPool(config *Config) *Pool {
	if config == nil {
		config = DefaultConfig()
	}
	if config.RPS <= 0 {
		config.RPS = 5
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.CleanupPeriod <= 0 {
		config.CleanupPeriod = 10 * time.Minute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 30 * time.Minute
	}

	p := &Pool{
		config:  config,
		entries: make(map[string]*entry),
		stopCh:  make(chan struct{}),
	}
	go p.cleanupLoop()
	return p
}

// Info describes the bucket state after an Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Allow takes one token from key's bucket.
func (p *Pool) Allow(key string) (bool, *Info) {
	now := time.Now()
	l := p.get(key, now)

	allowed := l.AllowN(now, 1)
	info := &Info{
		Allowed:   allowed,
		Limit:     p.config.Burst,
		Remaining: int(math.Max(0, math.Floor(l.TokensAt(now)))),
	}
	if !allowed {
		info.RetryAfter = time.Duration(float64(time.Second) / p.config.RPS)
	}
	return allowed, info
}

func (p *Pool) get(key string, now time.Time) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	e := &entry{
		limiter:  rate.NewLimiter(rate.Limit(p.config.RPS), p.config.Burst),
		lastSeen: now,
	}
	p.entries[key] = e
	return e.limiter
}

// Len reports how many keys currently hold a limiter.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

func (p *Pool) cleanupLoop() {
	ticker := time.NewTicker(p.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.cleanup(time.Now())
		case <-p.stopCh:
			return
		}
	}
}

func (p *Pool) cleanup(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, e := range p.entries {
		if now.Sub(e.lastSeen) > p.config.IdleTTL {
			delete(p.entries, key)
		}
	}
}

// Close stops the cleanup goroutine
func (p *Pool) Close() {
	p.once.Do(func() { close(p.stopCh) })
}

// GetClientIP extracts the real client IP from request
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := parseFirstIP(forwarded); ip != "" {
			return ip
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func parseFirstIP(forwarded string) string {
	ips := strings.Split(forwarded, ",")
	if len(ips) > 0 {
		return strings.TrimSpace(ips[0])
	}
	return ""
}

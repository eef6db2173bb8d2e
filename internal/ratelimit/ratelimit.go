package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Config limits how many API requests one client may send per window.
// Max 0 disables limiting.
type Config struct {
	Window time.Duration `mapstructure:"window"`
	Max    int           `mapstructure:"max" validate:"gte=0"`
}

// Limiter implements a simple in-memory fixed window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// GetRemaining returns the number of remaining requests for the given key
func (l *Limiter) GetRemaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, exists := l.counters[key]
	if !exists || l.now().After(c.expiresAt) {
		return l.max
	}
	return max(l.max-c.count, 0)
}

// Stop ends the cleanup goroutine.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, c := range l.counters {
				if now.After(c.expiresAt) {
					delete(l.counters, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Middleware rejects requests over the limit with 429. key extracts the client key.
func (l *Limiter) Middleware(key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if !l.Allow(k) {
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(l.GetRemaining(k)))
			next.ServeHTTP(w, r)
		})
	}
}

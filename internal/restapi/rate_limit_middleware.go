package restapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies a per-client token bucket. Clients are keyed
// by API key when present, otherwise by remote address.
type RateLimitMiddleware struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter

	limit rate.Limit
	burst int

	stopOnce sync.Once
	stop     chan struct{}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows requestsPerWindow requests per client per
// window, with bursting up to the same amount. A background goroutine evicts
// limiters for clients idle longer than three minutes.
func NewRateLimitMiddleware(requestsPerWindow int, window time.Duration) *RateLimitMiddleware {
	if requestsPerWindow <= 0 {
		requestsPerWindow = 1
	}

	m := &RateLimitMiddleware{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(window / time.Duration(requestsPerWindow)),
		burst:    requestsPerWindow,
		stop:     make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Handler returns the middleware function wrapping a downstream handler.
func (m *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.allow(clientKey(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Stop terminates the eviction goroutine. Safe to call more than once.
func (m *RateLimitMiddleware) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *RateLimitMiddleware) allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cl, ok := m.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter.Allow()
}

func (m *RateLimitMiddleware) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.evictIdle(3 * time.Minute)
		}
	}
}

func (m *RateLimitMiddleware) evictIdle(maxIdle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, cl := range m.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(m.limiters, key)
		}
	}
}

func clientKey(r *http.Request) string {
	if key := r.URL.Query().Get("key"); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

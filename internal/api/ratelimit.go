package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// rateLimiter caps requests per client within a fixed window. Event
// injection writes a stored reading per call, so it gets one of these.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	max     int
	span    time.Duration
}

type window struct {
	remaining int
	resetAt   time.Time
}

func newRateLimiter(max int, span time.Duration) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*window),
		max:     max,
		span:    span,
	}
}

// allow consumes one token for the client, reporting whether the request may
// proceed and, when it may not, how long until the window resets.
func (rl *rateLimiter) allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[client]
	if !ok || now.After(w.resetAt) {
		// Opportunistic cleanup keeps the map from accumulating idle clients.
		for c, cw := range rl.clients {
			if now.After(cw.resetAt) {
				delete(rl.clients, c)
			}
		}
		rl.clients[client] = &window{remaining: rl.max - 1, resetAt: now.Add(rl.span)}
		return true, 0
	}

	if w.remaining > 0 {
		w.remaining--
		return true, 0
	}
	return false, time.Until(w.resetAt)
}

// clientKey identifies the caller: first hop of X-Forwarded-For when behind a
// proxy, the remote address otherwise.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

// rateLimited wraps a handler, answering 429 with a Retry-After header once
// the client exhausts its window.
func rateLimited(rl *rateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(clientKey(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

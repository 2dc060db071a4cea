package api

import (
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/avashist/campusdesk/internal/auth"
)

// SecurityHeaders wraps a handler with standard security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// CORS allows any origin, matching what the portal's frontend expects.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole gates a handler on a valid bearer token with one of the given
// roles. Only the super-admin surface is gated; the admin and student routes
// were open in the legacy portal and stay that way.
func (a *API) requireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := a.auth.ExtractClaims(r)
		if claims == nil {
			jsonError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		if !slices.Contains(roles, claims.Role) {
			if len(roles) == 1 && roles[0] == auth.RoleSuperAdmin {
				jsonError(w, "Access denied — Super Admins only", http.StatusForbidden)
			} else {
				jsonError(w, "Access denied — Admin or Super Admin only", http.StatusForbidden)
			}
			return
		}
		next(w, r)
	}
}

// RateLimiter tracks request counts per IP within a rolling window. Expired
// buckets are swept at most once per window so the map stays bounded by the
// set of addresses seen recently, not ever.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rateBucket
	limit     int
	window    time.Duration
	nextSweep time.Time
}

type rateBucket struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a limiter with the given request limit per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateBucket),
		limit:   limit,
		window:  window,
	}
}

// Allow returns true if the request from ip is within the rate limit.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.After(rl.nextSweep) {
		for addr, bucket := range rl.clients {
			if now.After(bucket.resetAt) {
				delete(rl.clients, addr)
			}
		}
		rl.nextSweep = now.Add(rl.window)
	}

	bucket, ok := rl.clients[ip]
	if !ok || now.After(bucket.resetAt) {
		rl.clients[ip] = &rateBucket{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	bucket.count++
	return bucket.count <= rl.limit
}

// RateLimitMiddleware wraps a handler with rate limiting (429 Too Many Requests).
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			ip = fwd
		}
		// Strip port from RemoteAddr (e.g. "127.0.0.1:54321" -> "127.0.0.1")
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !rl.Allow(ip) {
			jsonError(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

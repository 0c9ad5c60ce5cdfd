package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const limiterKeyPrefix = "ratelimit:"

// KeyedRateLimiter holds one token bucket per key in a go-cache store. A
// bucket unused for idle expires and the key starts over with a full burst.
type KeyedRateLimiter struct {
	store *cache.Cache
	idle  time.Duration
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

func NewKeyedRateLimiter(r rate.Limit, b int, store *cache.Cache, idle time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		store: store,
		idle:  idle,
		r:     r,
		b:     b,
	}
}

// Limiter returns the bucket for key, creating it on first use. Every call
// pushes the bucket's expiry out by idle.
func (k *KeyedRateLimiter) Limiter(key string) *rate.Limiter {
	cacheKey := limiterKeyPrefix + key

	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, ok := k.lookup(cacheKey)
	if !ok {
		limiter = rate.NewLimiter(k.r, k.b)
	}
	k.store.Set(cacheKey, limiter, k.idle)
	return limiter
}

func (k *KeyedRateLimiter) lookup(cacheKey string) (*rate.Limiter, bool) {
	v, found := k.store.Get(cacheKey)
	if !found {
		return nil, false
	}
	limiter, ok := v.(*rate.Limiter)
	return limiter, ok
}

// RateLimitPerUser limits authenticated callers by user ID, falling back to
// the remote address. It must run after AuthRequired.
func RateLimitPerUser(limiter *KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if claims, ok := Claims(r.Context()); ok {
				key = claims.UserID
			}

			if !limiter.Limiter(key).Allow() {
				response.TooManyRequests(w, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

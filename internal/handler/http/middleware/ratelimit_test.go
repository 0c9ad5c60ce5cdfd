package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestKeyedRateLimiter_ReusesBucketWhileActive(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	limiter := NewKeyedRateLimiter(rate.Every(time.Hour), 1, store, time.Minute)

	first := limiter.Limiter("user-1")
	assert.Same(t, first, limiter.Limiter("user-1"))
	assert.NotSame(t, first, limiter.Limiter("user-2"))
	assert.Equal(t, 2, store.ItemCount())
}

func TestKeyedRateLimiter_IdleBucketExpires(t *testing.T) {
	store := cache.New(time.Minute, time.Minute)
	limiter := NewKeyedRateLimiter(rate.Every(time.Hour), 1, store, 20*time.Millisecond)

	first := limiter.Limiter("user-1")
	assert.True(t, first.Allow())
	assert.False(t, limiter.Limiter("user-1").Allow())

	time.Sleep(50 * time.Millisecond)

	fresh := limiter.Limiter("user-1")
	assert.NotSame(t, first, fresh)
	assert.True(t, fresh.Allow(), "an expired key starts with a full burst")

	store.DeleteExpired()
	assert.Equal(t, 1, store.ItemCount())
}

func TestRateLimitPerUser(t *testing.T) {
	limiter := NewKeyedRateLimiter(rate.Every(time.Hour), 1, cache.New(time.Minute, time.Minute), time.Minute)
	handler := RateLimitPerUser(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(userID string) int {
		req := httptest.NewRequest(http.MethodPost, "/punches", nil)
		req = req.WithContext(WithClaims(req.Context(), jwt.Claims{UserID: userID, OrgID: "org-1"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, call("user-1"))
	assert.Equal(t, http.StatusNoContent, call("user-2"))
}

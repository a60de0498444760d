package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newTestLimiter(t *testing.T, r rate.Limit, b int) *IPRateLimiter {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewIPRateLimiter(ctx, r, b)
}

func TestGetLimiterIsPerIP(t *testing.T) {
	l := newTestLimiter(t, rate.Limit(1), 2)

	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
	assert.Equal(t, 2, l.Len())
}

func TestMiddlewareRejectsBurstOverflow(t *testing.T) {
	l := newTestLimiter(t, rate.Limit(0.001), 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.RemoteAddr = "198.51.100.7:40000"
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestSweepDropsRefilledBuckets(t *testing.T) {
	l := newTestLimiter(t, rate.Limit(1), 1)

	l.GetLimiter("10.0.0.1").Allow()
	l.GetLimiter("10.0.0.2")

	removed := l.sweep(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, l.Len())

	removed = l.sweep(time.Now().Add(2 * time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, l.Len())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(r))

	r.RemoteAddr = "192.0.2.9"
	assert.Equal(t, "192.0.2.9", ClientIP(r))

	r.RemoteAddr = ""
	assert.Equal(t, "unknown_ip", ClientIP(r))
}

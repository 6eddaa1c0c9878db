// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	redis_rate "github.com/go-redis/redis_rate/v10"
)

type failingAllower struct{}

func (failingAllower) Allow(
	context.Context,
	string,
	redis_rate.Limit,
) (*redis_rate.Result, error) {
	return nil, errors.New("redis down")
}

func TestRateLimiterFallsBackToLocalBucket(t *testing.T) {
	rl := newRateLimiter(failingAllower{}, RateLimitConfig{
		Limit: PerMinute(2, 2),
	})

	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %v", codes)
	}
}

func TestKeyByUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:1234"

	if got := KeyByUser(req); got != "ratelimit:ip:192.168.1.9" {
		t.Errorf("anonymous key = %q", got)
	}

	req = req.WithContext(WithClaims(req.Context(), &AccessTokenClaims{UserID: "u-7"}))
	if got := KeyByUser(req); got != "ratelimit:user:u-7" {
		t.Errorf("user key = %q", got)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	if got := ClientIP(req); got != "2.2.2.2" {
		t.Errorf("ClientIP = %q, want last hop", got)
	}
}

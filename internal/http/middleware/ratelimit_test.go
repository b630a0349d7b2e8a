package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/apptbook/scheduling-platform/pkg/logging"
)

func newLimitedHandler(t *testing.T, limit int, window time.Duration) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client, limit, window, logging.Default())
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return handler, mr
}

func doRequest(handler http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	req.Header.Set("X-Real-Ip", ip)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	handler, _ := newLimitedHandler(t, 2, time.Minute)

	if code := doRequest(handler, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := doRequest(handler, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", code)
	}
	if code := doRequest(handler, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: expected 429, got %d", code)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler, _ := newLimitedHandler(t, 1, time.Minute)

	if code := doRequest(handler, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("client one: expected 200, got %d", code)
	}
	if code := doRequest(handler, "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("client two: expected 200, got %d", code)
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1, time.Minute)

	if code := doRequest(handler, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := doRequest(handler, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}

	mr.FastForward(2 * time.Minute)

	if code := doRequest(handler, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected 200 after window reset, got %d", code)
	}
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute, logging.Default())
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		if code := doRequest(handler, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("expected 200 with no redis, got %d", code)
		}
	}
}

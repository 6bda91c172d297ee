package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(limit int, window time.Duration) *ClientRateLimiter {
	return NewClientRateLimiter(limit, window, testLogger())
}

func TestAllowWithinLimit(t *testing.T) {
	rl := newTestLimiter(3, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected below the limit", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request above the limit was allowed")
	}
}

func TestLimitIsPerClient(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first client rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client throttled by the first client's traffic")
	}
}

func TestWindowExpiry(t *testing.T) {
	rl := newTestLimiter(1, 30*time.Millisecond)
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request rejected")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("second request inside the window was allowed")
	}

	time.Sleep(50 * time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Error("request after the window expired was rejected")
	}
}

func TestRateLimitMiddlewareResponds429(t *testing.T) {
	rl := newTestLimiter(1, time.Minute)
	defer rl.Stop()

	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/studios", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("clientIP = %q, want 203.0.113.7", got)
	}

	req.Header.Del("X-Forwarded-For")
	if got := clientIP(req); got != "10.0.0.1" {
		t.Errorf("clientIP = %q, want 10.0.0.1", got)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/starcoin/internal/auth"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func TestRateLimiterWindow(t *testing.T) {
	clock := &fakeNow{t: time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(clock.now)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.Allow("key", 3, time.Minute); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	ok, wait := rl.Allow("key", 3, time.Minute)
	if ok {
		t.Fatal("4th request should be denied")
	}
	if wait != time.Minute {
		t.Errorf("wait = %v, want 1m", wait)
	}
	if ok, _ := rl.Allow("other", 3, time.Minute); !ok {
		t.Error("other key should be independent")
	}

	clock.t = clock.t.Add(time.Minute)
	if ok, _ := rl.Allow("key", 3, time.Minute); !ok {
		t.Error("should be allowed after window resets")
	}
}

func TestRateLimiterPrune(t *testing.T) {
	clock := &fakeNow{t: time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(clock.now)

	rl.Allow("expired", 5, time.Second)
	clock.t = clock.t.Add(2 * time.Second)
	rl.Allow("active", 5, time.Minute)
	rl.Prune()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.windows["expired"]; ok {
		t.Error("expired window should be pruned")
	}
	if _, ok := rl.windows["active"]; !ok {
		t.Error("active window should remain")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(nil)
	handler := RateLimit(rl, MemberKey, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(member string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/", nil)
		req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{MemberID: member}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("a"); rec.Code != http.StatusOK {
			t.Errorf("request %d: status = %d", i+1, rec.Code)
		}
	}
	rec := send("a")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if rec := send("b"); rec.Code != http.StatusOK {
		t.Errorf("member b: status = %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(NewRateLimiter(nil), MemberKey, 0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"remote addr", nil, "192.0.2.1"},
		{"x-real-ip", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"}, "198.51.100.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := RealIP(req); got != tt.want {
				t.Errorf("RealIP = %q, want %q", got, tt.want)
			}
		})
	}
}

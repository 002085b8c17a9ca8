package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medregistry/search-gateway/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRealIPMiddleware(t *testing.T) {
	var gotRemote string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRemote = r.RemoteAddr
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	RealIPMiddleware(inner).ServeHTTP(httptest.NewRecorder(), req)

	if gotRemote != "203.0.113.9" {
		t.Errorf("Expected the first forwarded address, got %q", gotRemote)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	RealIPMiddleware(inner).ServeHTTP(httptest.NewRecorder(), req)
	if gotRemote != "192.0.2.1:1234" {
		t.Errorf("Expected the remote address untouched without the header, got %q", gotRemote)
	}
}

func TestRequestSizeMiddlewareRejectsOversizedBody(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 100, MaxHeaderSize: 4096}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Content-Length", "101")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rec.Code)
	}
}

func TestRequestSizeMiddlewareRejectsOversizedHeaders(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 1 << 20, MaxHeaderSize: 64}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Big", strings.Repeat("x", 128))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestHeaderFieldsTooLarge {
		t.Errorf("Expected 431, got %d", rec.Code)
	}
}

func TestRequestSizeMiddlewarePassesNormalRequests(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 1 << 20, MaxHeaderSize: 1 << 20}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestTokenCost(t *testing.T) {
	tests := []struct {
		path string
		want int64
	}{
		{"/health", 1},
		{"/metrics", 0},
		{"/api/v1/drugs/search", 10},
		{"/something/else", 5},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := tokenCost(req); got != tt.want {
			t.Errorf("tokenCost(%s): expected %d, got %d", tt.path, tt.want, got)
		}
	}
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/search?term=a", nil)
	req.RemoteAddr = "198.51.100.1"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("Expected the remaining-tokens header")
	}
}

func TestRateLimiterRejectsWhenExhausted(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Middleware(okHandler())

	// The burst allows 300 tokens; searches cost 10, so the 31st in a tight
	// loop must be rejected.
	var last *httptest.ResponseRecorder
	for i := 0; i < 31; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/search?term=a", nil)
		req.RemoteAddr = "198.51.100.2"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 after the burst is spent, got %d", last.Code)
	}
	if last.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After 60, got %q", last.Header().Get("Retry-After"))
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 31; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/search?term=a", nil)
		req.RemoteAddr = "198.51.100.3"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/search?term=a", nil)
	req.RemoteAddr = "198.51.100.4"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected a fresh client to pass, got %d", rec.Code)
	}
}

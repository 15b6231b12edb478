package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteHeaders(t *testing.T) {
	tests := []struct {
		name       string
		result     Result
		retryAfter string
	}{
		{"Allowed", Result{Allowed: true, Limit: 60, Remaining: 45, ResetAt: time.Unix(1706012345, 0)}, ""},
		{"Limited", Result{Limit: 60, ResetAt: time.Unix(1706012345, 0), RetryAfter: 30 * time.Second}, "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteHeaders(w, tt.result)
			if got := w.Header().Get("X-RateLimit-Limit"); got != "60" {
				t.Errorf("X-RateLimit-Limit = %s, want 60", got)
			}
			if got := w.Header().Get("X-RateLimit-Reset"); got != "1706012345" {
				t.Errorf("X-RateLimit-Reset = %s, want 1706012345", got)
			}
			if got := w.Header().Get("Retry-After"); got != tt.retryAfter {
				t.Errorf("Retry-After = %q, want %q", got, tt.retryAfter)
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewResponseWriter(rec, Result{Allowed: true, Limit: 10, Remaining: 9})
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		t.Fatal(err)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "9" {
		t.Errorf("X-RateLimit-Remaining = %q, want 9", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Code = %d", rec.Code)
	}
	if u, ok := w.(interface{ Unwrap() http.ResponseWriter }); !ok || u.Unwrap() != rec {
		t.Error("Unwrap must return the wrapped writer")
	}
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		scope Scope
		want  string
	}{
		{ScopeIP, "ip:id:auth"},
		{ScopeAccount, "account:id:auth"},
		{Scope(9), "unknown:id:auth"},
	}
	for _, tt := range tests {
		if got := BuildKey(tt.scope, "id", "auth"); got != tt.want {
			t.Errorf("BuildKey(%d) = %q, want %q", tt.scope, got, tt.want)
		}
	}
}

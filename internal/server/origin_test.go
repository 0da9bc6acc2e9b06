package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func requestWithOrigin(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws", http.NoBody)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

// TestOriginPolicy verifies origin matching for configured, unconfigured,
// wildcard, and malformed origins.
func TestOriginPolicy(t *testing.T) {
	tests := []struct {
		name       string
		configured []string
		origin     string
		allowed    bool
	}{
		{
			name:       "configured origin allowed",
			configured: []string{"http://localhost:8080"},
			origin:     "http://localhost:8080",
			allowed:    true,
		},
		{
			name:       "origin comparison is case-insensitive",
			configured: []string{"http://Localhost:8080"},
			origin:     "HTTP://LOCALHOST:8080",
			allowed:    true,
		},
		{
			name:       "unconfigured origin blocked",
			configured: []string{"http://localhost:8080"},
			origin:     "http://evil.example.com",
			allowed:    false,
		},
		{
			name:       "missing origin header blocked",
			configured: []string{"http://localhost:8080"},
			origin:     "",
			allowed:    false,
		},
		{
			name:       "wildcard allows everything",
			configured: []string{"*"},
			origin:     "http://anything.example.com",
			allowed:    true,
		},
		{
			name:       "malformed origin blocked",
			configured: []string{"http://localhost:8080"},
			origin:     "not-a-url",
			allowed:    false,
		},
		{
			name:       "malformed configuration entries are skipped",
			configured: []string{"not-a-url", "http://localhost:8080"},
			origin:     "http://localhost:8080",
			allowed:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := newOriginPolicy(tt.configured)

			if got := policy.allow(requestWithOrigin(tt.origin)); got != tt.allowed {
				t.Errorf("allow(%q) = %v, want %v", tt.origin, got, tt.allowed)
			}
		})
	}
}

// TestNormalizeOrigin verifies scheme/host normalization of origin values.
func TestNormalizeOrigin(t *testing.T) {
	tests := []struct {
		input      string
		normalized string
		ok         bool
	}{
		{"http://localhost:8080", "http://localhost:8080", true},
		{"HTTPS://Example.COM", "https://example.com", true},
		{"ftp://files.example.com", "ftp://files.example.com", true},
		{"missing-scheme.com", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		normalized, ok := normalizeOrigin(tt.input)
		if ok != tt.ok || normalized != tt.normalized {
			t.Errorf("normalizeOrigin(%q) = (%q, %v), want (%q, %v)",
				tt.input, normalized, ok, tt.normalized, tt.ok)
		}
	}
}

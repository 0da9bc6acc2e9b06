package server

import (
	"log/slog"
	"testing"
	"time"
)

// TestNewConfig verifies the default configuration mirrors the documented
// runtime defaults.
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg == nil {
		t.Fatal("NewConfig returned nil")
	}

	if cfg.Port != ":8080" {
		t.Errorf("Expected default port :8080, got %s", cfg.Port)
	}

	expectedRooms := []string{"General", "Study Group", "Coding Corner", "Music Lovers"}
	if len(cfg.Rooms) != len(expectedRooms) {
		t.Fatalf("Expected %d default rooms, got %d", len(expectedRooms), len(cfg.Rooms))
	}
	for i, room := range expectedRooms {
		if cfg.Rooms[i] != room {
			t.Errorf("Expected room %q at position %d, got %q", room, i, cfg.Rooms[i])
		}
	}

	if cfg.HistorySize != 5 {
		t.Errorf("Expected default history size 5, got %d", cfg.HistorySize)
	}

	if cfg.RateLimitBurst != 5 || cfg.RateLimitRefillInterval != time.Second {
		t.Errorf("Unexpected default rate limit: burst=%d interval=%s",
			cfg.RateLimitBurst, cfg.RateLimitRefillInterval)
	}
}

// TestLoadConfigFromEnv verifies that environment variables override the
// defaults and that room lists are sanitized.
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", ":9999")
	t.Setenv("CHAT_ROOMS", " Lobby , Lobby ,,Games ")
	t.Setenv("HISTORY_SIZE", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != ":9999" {
		t.Errorf("Expected port :9999, got %s", cfg.Port)
	}

	expectedRooms := []string{"Lobby", "Games"}
	if len(cfg.Rooms) != len(expectedRooms) {
		t.Fatalf("Expected rooms %v, got %v", expectedRooms, cfg.Rooms)
	}
	for i, room := range expectedRooms {
		if cfg.Rooms[i] != room {
			t.Errorf("Expected rooms %v, got %v", expectedRooms, cfg.Rooms)
		}
	}

	if cfg.HistorySize != 10 {
		t.Errorf("Expected history size 10, got %d", cfg.HistorySize)
	}

	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", cfg.SlogLevel())
	}
}

// TestLoadConfigRejectsInvalidValues verifies validation failures surface
// as errors instead of silently falling back.
func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero history size", key: "HISTORY_SIZE", value: "0"},
		{name: "negative burst", key: "RATE_LIMIT_BURST", value: "-1"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "loud"},
		{name: "empty room list", key: "CHAT_ROOMS", value: " , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := LoadConfig(); err == nil {
				t.Errorf("Expected error for %s=%q, got nil", tt.key, tt.value)
			}
		})
	}
}

// TestSlogLevel verifies the mapping from level strings to slog levels.
func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if got := cfg.SlogLevel(); got != tt.expected {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.expected)
		}
	}
}

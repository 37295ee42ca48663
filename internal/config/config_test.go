package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"negative width", Config{Width: -5}, true},
		{"bad addr", Config{Addr: "not an address"}, true},
		{"good addr", Config{Addr: "localhost:8080"}, false},
		{"bad level", Config{LogLevel: "trace"}, true},
		{"negative burst", Config{EventBurst: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("width", "1500"); err != nil {
		t.Fatalf("Set(width) error = %v", err)
	}
	if got, _ := cfg.Get("width"); got != "1500" {
		t.Errorf("Get(width) = %q, want 1500", got)
	}

	if err := cfg.Set("session_ttl", "90s"); err != nil {
		t.Fatalf("Set(session_ttl) error = %v", err)
	}
	if cfg.SessionTTL != 90*time.Second {
		t.Errorf("SessionTTL = %v, want 90s", cfg.SessionTTL)
	}

	if err := cfg.Set("log_level", "LOUD"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Set(log_level, LOUD) error = %v, want ErrInvalidConfig", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("failed Set changed LogLevel to %q", cfg.LogLevel)
	}

	if err := cfg.Set("height", "abc"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Set(height, abc) error = %v, want ErrInvalidConfig", err)
	}

	if _, err := cfg.Get("colour"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(colour) error = %v, want ErrUnknownKey", err)
	}
	if err := cfg.Set("colour", "red"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(colour) error = %v, want ErrUnknownKey", err)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("Keys() not sorted: %v", keys)
		}
	}
	for _, k := range keys {
		if _, err := Default().Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-env" {
		t.Errorf("GetConfigValue() = %q, want from-env", got)
	}

	t.Setenv("TEST_CONFIG_KEY", "")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-config" {
		t.Errorf("GetConfigValue() = %q, want from-config", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/data.yaml", filepath.Join(home, "data.yaml")},
		{"/abs/data.yaml", "/abs/data.yaml"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.in); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

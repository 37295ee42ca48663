package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/ringmap/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "ringmap", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "ringmap")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return tmpDir
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("LoadGlobalConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	dir := writeConfig(t, `width: 1600
height: 900
dataset: ~/taxonomy/demo.yaml
session_ttl: 5m
log_level: debug
`)
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	if cfg.Width != 1600 || cfg.Height != 900 {
		t.Errorf("size = %gx%g, want 1600x900", cfg.Width, cfg.Height)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "taxonomy/demo.yaml"); cfg.Dataset != want {
		t.Errorf("Dataset = %q, want %q", cfg.Dataset, want)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v, want 5m", cfg.SessionTTL)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want default %q", cfg.Addr, DefaultAddr)
	}

	// Cached until reset.
	again, _ := LoadGlobalConfig()
	if again != cfg {
		t.Error("LoadGlobalConfig() did not return the cached config")
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", writeConfig(t, "width: [1, 2"))

	_, err := LoadGlobalConfig()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadGlobalConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadGlobalConfig_FailsValidation(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", writeConfig(t, "log_level: loud\n"))

	_, err := LoadGlobalConfig()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadGlobalConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadGlobalConfig_EnvOverrides(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", writeConfig(t, "width: 1600\naddr: 127.0.0.1:9000\n"))
	t.Setenv("RINGMAP_WIDTH", "2000")
	t.Setenv("RINGMAP_EVENT_BURST", "5")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.Width != 2000 {
		t.Errorf("Width = %g, want env override 2000", cfg.Width)
	}
	if cfg.EventBurst != 5 {
		t.Errorf("EventBurst = %d, want 5", cfg.EventBurst)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q, want file value", cfg.Addr)
	}
}

func TestLoadGlobalConfig_BadEnv(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RINGMAP_HEIGHT", "tall")

	if _, err := LoadGlobalConfig(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadGlobalConfig() error = %v, want ErrInvalidConfig", err)
	}
}

func TestSaveGlobalConfig(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{Width: 800, Height: 600}
	if err := SaveGlobalConfig(cfg); err != nil {
		t.Fatalf("SaveGlobalConfig() error = %v", err)
	}

	got, err := ReadFile()
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("ReadFile() = %+v, want %+v", got, cfg)
	}

	if err := SaveGlobalConfig(&Config{Width: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("SaveGlobalConfig() error = %v, want ErrInvalidConfig", err)
	}
}

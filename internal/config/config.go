// Package config handles the global ringmap configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds user defaults for rendering and serving diagrams.
type Config struct {
	Width      float64       `yaml:"width,omitempty" validate:"omitempty,gt=0"`
	Height     float64       `yaml:"height,omitempty" validate:"omitempty,gt=0"`
	Dataset    string        `yaml:"dataset,omitempty"`
	Addr       string        `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
	EventRate  float64       `yaml:"event_rate,omitempty" validate:"omitempty,gt=0"`
	EventBurst int           `yaml:"event_burst,omitempty" validate:"omitempty,gt=0"`
	SessionTTL time.Duration `yaml:"session_ttl,omitempty" validate:"omitempty,gt=0"`
	LogLevel   string        `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Viewer     string        `yaml:"viewer,omitempty" validate:"omitempty,oneof=system firefox chromium"`
}

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultWidth      = 1200.0
	DefaultHeight     = 1000.0
	DefaultAddr       = "127.0.0.1:8420"
	DefaultEventRate  = 30.0
	DefaultEventBurst = 60
	DefaultSessionTTL = 30 * time.Minute
	DefaultLogLevel   = "info"
	DefaultViewer     = "system"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RINGMAP_"

// ErrInvalidConfig is returned for configuration values that fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrUnknownKey is returned by Get and Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

var validate = validator.New()

// Default returns a config holding the built-in defaults.
func Default() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Addr:       DefaultAddr,
		EventRate:  DefaultEventRate,
		EventBurst: DefaultEventBurst,
		SessionTTL: DefaultSessionTTL,
		LogLevel:   DefaultLogLevel,
		Viewer:     DefaultViewer,
	}
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: %s fails %s %s", ErrInvalidConfig, keyForField(e.StructField()), e.Tag(), e.Param())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// withDefaults fills unset fields from Default.
func (c *Config) withDefaults() *Config {
	d := Default()
	out := *c
	if out.Width == 0 {
		out.Width = d.Width
	}
	if out.Height == 0 {
		out.Height = d.Height
	}
	if out.Addr == "" {
		out.Addr = d.Addr
	}
	if out.EventRate == 0 {
		out.EventRate = d.EventRate
	}
	if out.EventBurst == 0 {
		out.EventBurst = d.EventBurst
	}
	if out.SessionTTL == 0 {
		out.SessionTTL = d.SessionTTL
	}
	if out.LogLevel == "" {
		out.LogLevel = d.LogLevel
	}
	if out.Viewer == "" {
		out.Viewer = d.Viewer
	}
	return &out
}

// field binds a config key to its accessors.
type field struct {
	name string // Go field name, for validation messages
	get  func(c *Config) string
	set  func(c *Config, v string) error
}

var fields = map[string]field{
	"width": {
		name: "Width",
		get:  func(c *Config) string { return formatFloat(c.Width) },
		set:  func(c *Config, v string) (err error) { c.Width, err = parseFloat(v); return },
	},
	"height": {
		name: "Height",
		get:  func(c *Config) string { return formatFloat(c.Height) },
		set:  func(c *Config, v string) (err error) { c.Height, err = parseFloat(v); return },
	},
	"dataset": {
		name: "Dataset",
		get:  func(c *Config) string { return c.Dataset },
		set:  func(c *Config, v string) error { c.Dataset = ExpandTilde(v); return nil },
	},
	"addr": {
		name: "Addr",
		get:  func(c *Config) string { return c.Addr },
		set:  func(c *Config, v string) error { c.Addr = v; return nil },
	},
	"event_rate": {
		name: "EventRate",
		get:  func(c *Config) string { return formatFloat(c.EventRate) },
		set:  func(c *Config, v string) (err error) { c.EventRate, err = parseFloat(v); return },
	},
	"event_burst": {
		name: "EventBurst",
		get:  func(c *Config) string { return strconv.Itoa(c.EventBurst) },
		set:  func(c *Config, v string) (err error) { c.EventBurst, err = strconv.Atoi(v); return },
	},
	"session_ttl": {
		name: "SessionTTL",
		get:  func(c *Config) string { return c.SessionTTL.String() },
		set:  func(c *Config, v string) (err error) { c.SessionTTL, err = time.ParseDuration(v); return },
	},
	"log_level": {
		name: "LogLevel",
		get:  func(c *Config) string { return c.LogLevel },
		set:  func(c *Config, v string) error { c.LogLevel = strings.ToLower(v); return nil },
	},
	"viewer": {
		name: "Viewer",
		get:  func(c *Config) string { return c.Viewer },
		set:  func(c *Config, v string) error { c.Viewer = strings.ToLower(v); return nil },
	},
}

// Keys returns the config keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a config value.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return f.get(c), nil
}

// Set parses and assigns a config value, then validates the result.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s (valid: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ApplyEnv overrides fields from RINGMAP_<KEY> environment variables.
func (c *Config) ApplyEnv() error {
	for _, key := range Keys() {
		v := GetConfigValue(EnvPrefix+strings.ToUpper(key), "")
		if v == "" {
			continue
		}
		if err := fields[key].set(c, v); err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}

func keyForField(name string) string {
	for k, f := range fields {
		if f.name == name {
			return k
		}
	}
	return name
}

// GetConfigValue returns the environment variable if set, else fallback.
func GetConfigValue(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

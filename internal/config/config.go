// Package config loads assistant settings from a YAML file, .env and ASSISTANT_* environment variables.
package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig  `mapstructure:"server" yaml:"server"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
	Session  SessionConfig `mapstructure:"session" yaml:"session"`
	Auth     AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Landing  LandingConfig `mapstructure:"landing" yaml:"landing"`
	Timezone string        `mapstructure:"timezone" yaml:"timezone"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig configures zerolog output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "json" or "console".
	Format string `mapstructure:"format" yaml:"format"`
}

// SessionConfig configures workspace sessions.
type SessionConfig struct {
	// TTL is the idle lifetime, e.g. 12h or 7d.
	TTL        string `mapstructure:"ttl" yaml:"ttl"`
	Backend    string `mapstructure:"backend" yaml:"backend"`
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name"`
}

// AuthConfig selects the identity provider.
type AuthConfig struct {
	// Provider is "local" or "firebase".
	Provider string         `mapstructure:"provider" yaml:"provider"`
	Firebase FirebaseConfig `mapstructure:"firebase" yaml:"firebase"`
}

// FirebaseConfig configures the Identity Toolkit client.
type FirebaseConfig struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
}

// LandingConfig configures the signed-out landing page.
type LandingConfig struct {
	AnimationURL string `mapstructure:"animation_url" yaml:"animation_url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Session: SessionConfig{
			TTL:        "12h",
			Backend:    "memory",
			CookieName: "assistant_session",
		},
		Auth: AuthConfig{
			Provider: "local",
		},
		Landing: LandingConfig{
			AnimationURL: "https://assets1.lottiefiles.com/packages/lf20_mjlh3hcy.json",
		},
		Timezone: "Local",
	}
}

// Load reads configuration from path (optional) and merges environment variables,
// e.g. ASSISTANT_SERVER_PORT or ASSISTANT_AUTH_FIREBASE_API_KEY. A .env file in the
// working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.cookie_name", d.Session.CookieName)
	v.SetDefault("auth.provider", d.Auth.Provider)
	v.SetDefault("auth.firebase.api_key", d.Auth.Firebase.APIKey)
	v.SetDefault("auth.firebase.endpoint", d.Auth.Firebase.Endpoint)
	v.SetDefault("landing.animation_url", d.Landing.AnimationURL)
	v.SetDefault("timezone", d.Timezone)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format '%s', must be 'json' or 'console'", c.Log.Format)
	}

	if _, err := ParseTTL(c.Session.TTL); err != nil {
		return fmt.Errorf("session.ttl: %w", err)
	}
	if c.Session.Backend != "memory" && c.Session.Backend != "sqlite" {
		return fmt.Errorf("invalid session backend '%s', must be 'memory' or 'sqlite'", c.Session.Backend)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name cannot be empty")
	}

	switch c.Auth.Provider {
	case "local":
	case "firebase":
		if c.Auth.Firebase.APIKey == "" {
			return fmt.Errorf("auth.firebase.api_key is required for the firebase provider")
		}
	default:
		return fmt.Errorf("invalid auth provider '%s', must be 'local' or 'firebase'", c.Auth.Provider)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// SessionTTL returns the parsed idle lifetime.
func (c *Config) SessionTTL() time.Duration {
	d, _ := ParseTTL(c.Session.TTL)
	return d
}

// Location resolves Timezone. Empty or "Local" means the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

var ttlRegex = regexp.MustCompile(`^(\d+)([dhms])$`)

// ParseTTL parses a positive duration such as 7d, 24h, 30m or 60s.
func ParseTTL(s string) (time.Duration, error) {
	m := ttlRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid format %q (use e.g. 7d, 24h, 30m, 60s)", s)
	}

	var unit time.Duration
	switch m[2] {
	case "d":
		unit = 24 * time.Hour
	case "h":
		unit = time.Hour
	case "m":
		unit = time.Minute
	case "s":
		unit = time.Second
	default:
		return 0, fmt.Errorf("unknown unit %q", m[2])
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n > int64(math.MaxInt64/unit) {
		return 0, fmt.Errorf("duration %q is too large", s)
	}
	if n == 0 {
		return 0, fmt.Errorf("duration %q must be greater than zero", s)
	}
	return time.Duration(n) * unit, nil
}

package goNexus

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every engine setting. Start from [DefaultConfig], then layer a YAML file
// ([LoadConfigFile]) and environment overrides ([Config.ApplyEnv]).
type Config struct {
	Session SessionConfig `yaml:"session"`
	Auth    AuthConfig    `yaml:"auth"`
	Routes  RoutesConfig  `yaml:"routes"`
	Server  ServerConfig  `yaml:"server"`
	Audit   AuditConfig   `yaml:"audit"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig selects where the session record lives and how it is encoded.
type SessionConfig struct {
	// Backend is "memory", "sqlite", "redis" or "miniredis".
	Backend       string `yaml:"backend"`
	Key           string `yaml:"key"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	// Encoding is "binary" (default) or "signed".
	Encoding       string `yaml:"encoding"`
	SigningMethod  string `yaml:"signing_method"` // "hs256" (default) or "ed25519"
	Secret         string `yaml:"secret"`
	PrivateKeyFile string `yaml:"private_key_file"`
	PublicKeyFile  string `yaml:"public_key_file"`
	KeyID          string `yaml:"key_id"`
	Issuer         string `yaml:"issuer"`
}

// AuthConfig controls the mock authenticator.
type AuthConfig struct {
	// LoginLatency is the simulated credential-check delay.
	LoginLatency time.Duration `yaml:"login_latency"`
}

// RoutesConfig points at an optional YAML route table and names the redirect targets.
type RoutesConfig struct {
	File             string `yaml:"file"`
	LoginPath        string `yaml:"login_path"`
	UnauthorizedPath string `yaml:"unauthorized_path"`
}

// ServerConfig is read by the HTTP server only.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// AuditConfig controls the audit dispatcher and its built-in sinks.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size"`
	DropIfFull bool `yaml:"drop_if_full"`
	// RingSize is how many recent events the dashboard activity feed keeps.
	RingSize int `yaml:"ring_size"`
	// LogEvents also writes each event to the engine logger.
	LogEvents bool `yaml:"log_events"`
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			Backend:       "memory",
			Key:           "nexus_user",
			SQLitePath:    "nexus.db",
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "nexus",
			Encoding:      "binary",
			SigningMethod: "hs256",
			Issuer:        "nexus",
		},
		Auth: AuthConfig{
			LoginLatency: 800 * time.Millisecond,
		},
		Routes: RoutesConfig{
			LoginPath:        "/login",
			UnauthorizedPath: "/unauthorized",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
			RingSize:   50,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfigFile reads a YAML file over [DefaultConfig]. Keys absent from the file keep
// their defaults; unknown keys are an error.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: open %s: %v", ErrInvalidConfig, path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from NEXUS_* environment variables.
func (c *Config) ApplyEnv() {
	c.Session.Backend = getEnv("NEXUS_SESSION_BACKEND", c.Session.Backend)
	c.Session.Key = getEnv("NEXUS_SESSION_KEY", c.Session.Key)
	c.Session.SQLitePath = getEnv("NEXUS_SQLITE_PATH", c.Session.SQLitePath)
	c.Session.RedisAddr = getEnv("NEXUS_REDIS_ADDR", c.Session.RedisAddr)
	c.Session.RedisPassword = getEnv("NEXUS_REDIS_PASSWORD", c.Session.RedisPassword)
	c.Session.RedisDB = getEnvInt("NEXUS_REDIS_DB", c.Session.RedisDB)
	c.Session.RedisPrefix = getEnv("NEXUS_REDIS_PREFIX", c.Session.RedisPrefix)
	c.Session.Encoding = getEnv("NEXUS_SESSION_ENCODING", c.Session.Encoding)
	c.Session.SigningMethod = getEnv("NEXUS_SIGNING_METHOD", c.Session.SigningMethod)
	c.Session.Secret = getEnv("NEXUS_SESSION_SECRET", c.Session.Secret)
	c.Session.PrivateKeyFile = getEnv("NEXUS_PRIVATE_KEY_FILE", c.Session.PrivateKeyFile)
	c.Session.PublicKeyFile = getEnv("NEXUS_PUBLIC_KEY_FILE", c.Session.PublicKeyFile)
	c.Auth.LoginLatency = getEnvDuration("NEXUS_LOGIN_LATENCY", c.Auth.LoginLatency)
	c.Routes.File = getEnv("NEXUS_ROUTES_FILE", c.Routes.File)
	c.Server.Addr = getEnv("NEXUS_ADDR", c.Server.Addr)
	c.Audit.Enabled = getEnvBool("NEXUS_AUDIT_ENABLED", c.Audit.Enabled)
	c.Audit.LogEvents = getEnvBool("NEXUS_AUDIT_LOG", c.Audit.LogEvents)
	c.Metrics.Enabled = getEnvBool("NEXUS_METRICS_ENABLED", c.Metrics.Enabled)
	c.Log.Level = getEnv("NEXUS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("NEXUS_LOG_FORMAT", c.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate returns an error wrapping [ErrInvalidConfig] for the first invalid field.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	// Session
	switch c.Session.Backend {
	case "memory", "miniredis":
	case "sqlite":
		if strings.TrimSpace(c.Session.SQLitePath) == "" {
			return errors.New("Session SQLitePath is required for the sqlite backend")
		}
	case "redis":
		if strings.TrimSpace(c.Session.RedisAddr) == "" {
			return errors.New("Session RedisAddr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	if strings.TrimSpace(c.Session.Key) == "" {
		return errors.New("Session Key must not be empty")
	}

	switch c.Session.Encoding {
	case "binary":
	case "signed":
		switch c.Session.SigningMethod {
		case "hs256":
			if len(c.Session.Secret) < 32 {
				return errors.New("hs256 session signing requires a Secret of at least 32 bytes")
			}
		case "ed25519":
			if c.Session.PrivateKeyFile == "" || c.Session.PublicKeyFile == "" {
				return errors.New("ed25519 session signing requires PrivateKeyFile and PublicKeyFile")
			}
		default:
			return fmt.Errorf("unsupported session signing method %q", c.Session.SigningMethod)
		}
	default:
		return fmt.Errorf("SessionEncoding must be 'binary' or 'signed', got %q", c.Session.Encoding)
	}

	// Auth
	if c.Auth.LoginLatency < 0 {
		return errors.New("Auth LoginLatency must be >= 0")
	}
	if c.Auth.LoginLatency > time.Minute {
		return errors.New("Auth LoginLatency must be <= 1m")
	}

	// Routes
	for name, p := range map[string]string{
		"LoginPath":        c.Routes.LoginPath,
		"UnauthorizedPath": c.Routes.UnauthorizedPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("Routes %s must be an absolute path", name)
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	if c.Audit.RingSize < 0 {
		return errors.New("Audit RingSize must be >= 0")
	}

	// Log
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}

	return nil
}

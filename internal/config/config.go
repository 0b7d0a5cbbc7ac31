// Package config loads the server configuration: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends.
const (
	BackendSQLite   = "sqlite"
	BackendFirebase = "firebase"
)

const (
	minJWTSecretLength = 32
	// The notice page refreshes in whole seconds.
	minRedirectDelay = time.Second
)

// Config holds everything the server needs to start.
type Config struct {
	Port          string         `yaml:"port"`
	Backend       string         `yaml:"backend"`
	DatabasePath  string         `yaml:"database_path"`
	JWTSecret     string         `yaml:"jwt_secret"`
	CookieSecure  bool           `yaml:"cookie_secure"`
	BcryptCost    int            `yaml:"bcrypt_cost"`
	RedirectDelay time.Duration  `yaml:"redirect_delay"`
	MaxImageBytes int64          `yaml:"max_image_bytes"`
	RateLimit     RateLimit      `yaml:"rate_limit"`
	Firebase      FirebaseConfig `yaml:"firebase"`
}

// RateLimit configures sign-in and sign-up throttling per client IP.
type RateLimit struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     float64 `yaml:"burst"`
}

// FirebaseConfig selects the Firebase project used by the firebase backend.
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	StorageBucket   string `yaml:"storage_bucket"`
	CredentialsFile string `yaml:"credentials_file"`
}

// DefaultConfig returns the built-in defaults. JWTSecret has no default.
func DefaultConfig() *Config {
	return &Config{
		Port:          "8080",
		Backend:       BackendSQLite,
		DatabasePath:  "ricettario.db",
		CookieSecure:  true, // disable only for local development
		BcryptCost:    12,
		RedirectDelay: 2 * time.Second,
		MaxImageBytes: 10 << 20,
		RateLimit: RateLimit{
			PerSecond: 5.0 / 60.0,
			Burst:     10,
		},
	}
}

// Load builds the configuration. An empty path skips the YAML file. The
// result is not validated; call Validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = secure
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		c.BcryptCost = cost
	}
	if v := os.Getenv("REDIRECT_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REDIRECT_DELAY: %w", err)
		}
		c.RedirectDelay = d
	}
	if v := os.Getenv("MAX_IMAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_IMAGE_BYTES: %w", err)
		}
		c.MaxImageBytes = n
	}
	if v := os.Getenv("FIREBASE_PROJECT_ID"); v != "" {
		c.Firebase.ProjectID = v
	}
	if v := os.Getenv("FIREBASE_STORAGE_BUCKET"); v != "" {
		c.Firebase.StorageBucket = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Firebase.CredentialsFile = v
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minJWTSecretLength))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.RedirectDelay < minRedirectDelay {
		errs = append(errs, fmt.Errorf("REDIRECT_DELAY must be at least %s, got %s", minRedirectDelay, c.RedirectDelay))
	}
	if c.MaxImageBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", c.MaxImageBytes))
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rate_limit needs a positive per_second and a burst of at least 1"))
	}

	switch c.Backend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for the sqlite backend"))
		}
	case BackendFirebase:
		if c.Firebase.ProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firebase backend"))
		}
		if c.Firebase.StorageBucket == "" {
			errs = append(errs, errors.New("FIREBASE_STORAGE_BUCKET is required for the firebase backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid backend %q (valid: %s, %s)", c.Backend, BackendSQLite, BackendFirebase))
	}

	return errors.Join(errs...)
}

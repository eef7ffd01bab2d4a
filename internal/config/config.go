// Package config reads the server settings from the environment and an optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"classlog/internal/adapters/http/middleware"
	"classlog/internal/adapters/storage"
)

// EnvProduction is the CLASSLOG_ENV value that enables production behaviour.
const EnvProduction = "production"

// Config errors
var (
	ErrMissingCSRFKey = errors.New("CLASSLOG_CSRF_KEY is required in production")
	ErrInvalidCSRFKey = errors.New("CLASSLOG_CSRF_KEY must be 64 hex characters")
	ErrInvalidSetting = errors.New("invalid setting")
)

// Config holds every setting the server reads at startup.
type Config struct {
	Env                string
	Addr               string
	DBPath             string
	LogLevel           slog.Level
	CSRFKey            []byte
	TrustedOrigins     []string
	RateLimitPerSecond int
	SeedDefaults       bool

	// Slow thresholds handed to storage.NewManager and web.Options.
	SlowQueryMs   int
	SlowRequestMs int
}

// Production reports whether the server runs with CLASSLOG_ENV=production.
func (c Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads the given .env files (default ".env") into the environment, then builds a Config.
// Missing files are ignored; variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
// PRE: getenv returns "" for unset keys
// POST: CSRFKey is 32 bytes; a random key is generated outside production
func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{
		Env:    orDefault(getenv("CLASSLOG_ENV"), "development"),
		Addr:   orDefault(getenv("CLASSLOG_ADDR"), ":8080"),
		DBPath: orDefault(getenv("CLASSLOG_DB_PATH"), storage.DefaultPath),
	}

	if err := c.LogLevel.UnmarshalText([]byte(orDefault(getenv("CLASSLOG_LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("%w: CLASSLOG_LOG_LEVEL: %v", ErrInvalidSetting, err)
	}

	var err error
	if c.RateLimitPerSecond, err = positiveInt(getenv, "CLASSLOG_RATE_LIMIT", 20); err != nil {
		return Config{}, err
	}
	if c.SlowQueryMs, err = positiveInt(getenv, "CLASSLOG_SLOW_QUERY_MS", storage.DefaultSlowQueryMs); err != nil {
		return Config{}, err
	}
	if c.SlowRequestMs, err = positiveInt(getenv, "CLASSLOG_SLOW_REQUEST_MS", middleware.DefaultSlowRequestMs); err != nil {
		return Config{}, err
	}

	c.SeedDefaults = true
	if v := getenv("CLASSLOG_SEED_DEFAULTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CLASSLOG_SEED_DEFAULTS: %q", ErrInvalidSetting, v)
		}
		c.SeedDefaults = b
	}

	for _, origin := range strings.Split(getenv("CLASSLOG_TRUSTED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			c.TrustedOrigins = append(c.TrustedOrigins, origin)
		}
	}

	if c.CSRFKey, err = csrfKey(getenv("CLASSLOG_CSRF_KEY"), c.Production()); err != nil {
		return Config{}, err
	}
	return c, nil
}

// csrfKey decodes a hex key, or generates one for non-production runs.
// A generated key invalidates tokens on every restart.
func csrfKey(raw string, production bool) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if production {
			return nil, ErrMissingCSRFKey
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		return key, nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidCSRFKey
	}
	return key, nil
}

func positiveInt(getenv func(string) string, name string, fallback int) (int, error) {
	v := getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidSetting, name, v)
	}
	return n, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

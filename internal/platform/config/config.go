package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile       = ".env"
	defaultHTTPAddr      = ":8080"
	defaultReadTimeout   = 10 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 60 * time.Second
	defaultAPITimeout    = 10 * time.Second
	defaultToastDuration = 4 * time.Second
	defaultLogLevel      = "info"
	defaultLocale        = "es"
	defaultLoginPath     = "/admin/login"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server ServerConfig
	API    APIConfig
	State  StateConfig
	UI     UIConfig
	Log    LogConfig
}

// ServerConfig configures the JSON surface.
type ServerConfig struct {
	Address      string
	LoginPath    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// APIConfig points at the WappTienda REST API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StateConfig controls where durable client state (cart, session) lives.
// An empty Dir keeps everything in memory.
type StateConfig struct {
	Dir            string
	CacheStaleTime time.Duration
}

// UIConfig holds presentation knobs shared by the stores.
type UIConfig struct {
	ToastDuration time.Duration
	Locale        string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration by combining defaults, .env overrides and environment variables.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Address:      stringWithDefault(lookup, "STOREFRONT_HTTP_ADDR", defaultHTTPAddr),
			LoginPath:    stringWithDefault(lookup, "STOREFRONT_LOGIN_PATH", defaultLoginPath),
			ReadTimeout:  durationWithDefault(lookup, "STOREFRONT_HTTP_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "STOREFRONT_HTTP_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "STOREFRONT_HTTP_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(stringWithDefault(lookup, "STOREFRONT_API_BASE_URL", "")), "/"),
			Timeout: durationWithDefault(lookup, "STOREFRONT_API_TIMEOUT", defaultAPITimeout),
		},
		State: StateConfig{
			Dir:            strings.TrimSpace(stringWithDefault(lookup, "STOREFRONT_STATE_DIR", "")),
			CacheStaleTime: durationWithDefault(lookup, "STOREFRONT_CACHE_STALE_TIME", 0),
		},
		UI: UIConfig{
			ToastDuration: durationWithDefault(lookup, "STOREFRONT_TOAST_DURATION", defaultToastDuration),
			Locale:        strings.ToLower(stringWithDefault(lookup, "STOREFRONT_LOCALE", defaultLocale)),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "STOREFRONT_LOG_LEVEL", defaultLogLevel)),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Address) == "" {
		missing = append(missing, "Server.Address")
	}
	if !strings.HasPrefix(cfg.Server.LoginPath, "/") {
		missing = append(missing, "Server.LoginPath")
	}
	if cfg.API.BaseURL == "" {
		missing = append(missing, "API.BaseURL")
	}
	if cfg.API.Timeout <= 0 {
		missing = append(missing, "API.Timeout")
	}
	if cfg.UI.ToastDuration <= 0 {
		missing = append(missing, "UI.ToastDuration")
	}
	if cfg.State.CacheStaleTime < 0 {
		missing = append(missing, "State.CacheStaleTime")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Bare integers are milliseconds.
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}

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
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 120 * time.Second
	defaultCatalogSource  = "data/products.json"
	defaultProfileSource  = "data/profile.json"
	defaultFetchTimeout   = 10 * time.Second
	defaultAnalyticsTopic = "site-analytics"
	defaultFlushInterval  = 5 * time.Second
	defaultFlushBatchSize = 50
	defaultSearchDebounce = 300 * time.Millisecond
	defaultCookieTTL      = 365 * 24 * time.Hour
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Documents DocumentsConfig
	Firestore FirestoreConfig
	Analytics AnalyticsConfig
	Visitor   VisitorConfig
	Features  FeatureFlags
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DocumentsConfig points at the catalog and profile source documents.
// Sources may be local paths, http(s) URLs, or gs:// object references.
type DocumentsConfig struct {
	CatalogSource string
	ProfileSource string
	FetchTimeout  time.Duration
}

// FirestoreConfig stores database parameters. An empty project id disables
// durable persistence and the service falls back to in-memory stores.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// AnalyticsConfig controls event publication and batching.
type AnalyticsConfig struct {
	ProjectID      string
	Topic          string
	FlushInterval  time.Duration
	FlushBatchSize int
	SearchDebounce time.Duration
}

// VisitorConfig controls the signed identity cookie.
type VisitorConfig struct {
	CookieSecret string
	CookieSecure bool
	CookieTTL    time.Duration
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	EnableAdmin     bool
	EnableAnalytics bool
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

// Load assembles the application configuration by combining defaults, .env
// overrides, and environment variables.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	_ = ctx

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
			Port:         stringWithDefault(lookup, "SITE_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "SITE_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SITE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SITE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Documents: DocumentsConfig{
			CatalogSource: stringWithDefault(lookup, "SITE_DOCUMENTS_CATALOG_SOURCE", defaultCatalogSource),
			ProfileSource: stringWithDefault(lookup, "SITE_DOCUMENTS_PROFILE_SOURCE", defaultProfileSource),
			FetchTimeout:  durationWithDefault(lookup, "SITE_DOCUMENTS_FETCH_TIMEOUT", defaultFetchTimeout),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "SITE_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "SITE_FIRESTORE_EMULATOR_HOST", ""),
		},
		Analytics: AnalyticsConfig{
			ProjectID:      stringWithDefault(lookup, "SITE_ANALYTICS_PROJECT_ID", ""),
			Topic:          stringWithDefault(lookup, "SITE_ANALYTICS_TOPIC", defaultAnalyticsTopic),
			FlushInterval:  durationWithDefault(lookup, "SITE_ANALYTICS_FLUSH_INTERVAL", defaultFlushInterval),
			FlushBatchSize: intWithDefault(lookup, "SITE_ANALYTICS_FLUSH_BATCH", defaultFlushBatchSize),
			SearchDebounce: durationWithDefault(lookup, "SITE_ANALYTICS_SEARCH_DEBOUNCE", defaultSearchDebounce),
		},
		Visitor: VisitorConfig{
			CookieSecret: stringWithDefault(lookup, "SITE_VISITOR_COOKIE_SECRET", ""),
			CookieSecure: boolWithDefault(lookup, "SITE_VISITOR_COOKIE_SECURE", true),
			CookieTTL:    durationWithDefault(lookup, "SITE_VISITOR_COOKIE_TTL", defaultCookieTTL),
		},
		Features: FeatureFlags{
			EnableAdmin:     boolWithDefault(lookup, "SITE_FEATURE_ADMIN", false),
			EnableAnalytics: boolWithDefault(lookup, "SITE_FEATURE_ANALYTICS", true),
		},
	}

	// Analytics publishes to the Firestore project when unspecified.
	if cfg.Analytics.ProjectID == "" {
		cfg.Analytics.ProjectID = cfg.Firestore.ProjectID
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if strings.TrimSpace(cfg.Documents.CatalogSource) == "" {
		missing = append(missing, "Documents.CatalogSource")
	}
	if strings.TrimSpace(cfg.Documents.ProfileSource) == "" {
		missing = append(missing, "Documents.ProfileSource")
	}
	if cfg.Documents.FetchTimeout <= 0 {
		missing = append(missing, "Documents.FetchTimeout")
	}
	if cfg.Analytics.FlushInterval <= 0 {
		missing = append(missing, "Analytics.FlushInterval")
	}
	if cfg.Analytics.FlushBatchSize <= 0 {
		missing = append(missing, "Analytics.FlushBatchSize")
	}
	if cfg.Analytics.SearchDebounce < 0 {
		missing = append(missing, "Analytics.SearchDebounce")
	}
	if cfg.Visitor.CookieSecret == "" {
		missing = append(missing, "Visitor.CookieSecret")
	}
	if cfg.Visitor.CookieTTL <= 0 {
		missing = append(missing, "Visitor.CookieTTL")
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
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
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
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

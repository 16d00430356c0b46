// Package config loads phonefmt settings from an optional YAML file, an
// optional .env file and INTLPHONE_* environment variables, in that order
// of increasing precedence.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vortex-fintech/intlphone/catalog"
	"github.com/vortex-fintech/intlphone/errors"
	ivalidator "github.com/vortex-fintech/intlphone/validator"
)

const envPrefix = "INTLPHONE_"

// Catalog source kinds.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourceSQL      = "sql"
)

type Config struct {
	Env     string        `yaml:"env"`
	Service string        `yaml:"service" validate:"required"`
	Catalog CatalogConfig `yaml:"catalog"`
	Input   InputConfig   `yaml:"input"`
	Server  ServerConfig  `yaml:"server"`
}

type CatalogConfig struct {
	Source string      `yaml:"source" validate:"oneof=embedded file http sql"`
	Path   string      `yaml:"path"`
	URL    string      `yaml:"url" validate:"omitempty,http_url"`
	DSN    string      `yaml:"dsn"`
	Query  string      `yaml:"query"`
	Cache  CacheConfig `yaml:"cache"`
}

// CacheConfig puts a Redis read-through cache in front of the source.
type CacheConfig struct {
	Enabled bool                `yaml:"enabled"`
	Redis   catalog.RedisConfig `yaml:"redis"`
}

type InputConfig struct {
	DefaultCountry string `yaml:"default_country" validate:"required,iso2"`
	Lang           string `yaml:"lang" validate:"omitempty,min=2,max=3"`
	Mask           string `yaml:"mask" validate:"omitempty,phonemask"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"hostname_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
	CheckTimeout    time.Duration `yaml:"check_timeout" validate:"gte=0"`
}

func Default() Config {
	return Config{
		Env:     "development",
		Service: "phonefmt",
		Catalog: CatalogConfig{Source: SourceEmbedded},
		Input:   InputConfig{DefaultCountry: "US", Lang: "en"},
		Server: ServerConfig{
			Addr:            "127.0.0.1:9090",
			ShutdownTimeout: 10 * time.Second,
			CheckTimeout:    500 * time.Millisecond,
		},
	}
}

// Load builds a Config from defaults, path (YAML, optional), envFile
// (optional; a missing file is not an error) and the process environment.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.Service = getEnv("SERVICE", cfg.Service)

	cfg.Catalog.Source = strings.ToLower(getEnv("CATALOG_SOURCE", cfg.Catalog.Source))
	cfg.Catalog.Path = getEnv("CATALOG_PATH", cfg.Catalog.Path)
	cfg.Catalog.URL = getEnv("CATALOG_URL", cfg.Catalog.URL)
	cfg.Catalog.DSN = getEnv("CATALOG_DSN", cfg.Catalog.DSN)
	cfg.Catalog.Query = getEnv("CATALOG_QUERY", cfg.Catalog.Query)

	redis := &cfg.Catalog.Cache.Redis
	if v := getEnv("REDIS_ADDRS", ""); v != "" {
		redis.Addrs = splitList(v)
	}
	redis.Password = getEnv("REDIS_PASSWORD", redis.Password)
	redis.Key = getEnv("REDIS_KEY", redis.Key)

	cfg.Input.DefaultCountry = getEnv("DEFAULT_COUNTRY", cfg.Input.DefaultCountry)
	cfg.Input.Lang = getEnv("LANG", cfg.Input.Lang)
	cfg.Input.Mask = getEnv("MASK", cfg.Input.Mask)

	cfg.Server.Addr = getEnv("ADDR", cfg.Server.Addr)

	var err error
	if cfg.Catalog.Cache.Enabled, err = getEnvBool("CACHE_ENABLED", cfg.Catalog.Cache.Enabled); err != nil {
		return err
	}
	if redis.TTL, err = getEnvDuration("REDIS_TTL", redis.TTL); err != nil {
		return err
	}
	if redis.DB, err = getEnvInt("REDIS_DB", redis.DB); err != nil {
		return err
	}
	if cfg.Server.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks field rules and the settings each catalog source needs.
func (c Config) Validate() error {
	var violations []errors.FieldViolation

	if err := ivalidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !stderrors.As(err, &verrs) {
			return errors.InvalidArgument().WithCause(err)
		}
		violations = errors.ViolationsFromPlayground(verrs, ivalidator.TagMap(), "")
	}

	need := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			violations = append(violations, errors.FieldViolation{
				Field:       field,
				Reason:      "required",
				Description: fmt.Sprintf("%s is required for catalog source %q", field, c.Catalog.Source),
			})
		}
	}
	switch c.Catalog.Source {
	case SourceFile:
		need("Catalog.Path", c.Catalog.Path)
	case SourceHTTP:
		need("Catalog.URL", c.Catalog.URL)
	case SourceSQL:
		need("Catalog.DSN", c.Catalog.DSN)
	}
	if c.Catalog.Cache.Enabled && len(c.Catalog.Cache.Redis.Addrs) == 0 {
		need("Catalog.Cache.Redis.Addrs", "")
	}

	if len(violations) > 0 {
		return errors.ValidationViolations(violations).WithMessage("invalid configuration")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	return b, nil
}

func getEnvInt(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

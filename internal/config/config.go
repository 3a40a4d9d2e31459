// Package config holds the briefing service configuration loaded through
// viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-briefing/pkg/composer"
	"github.com/goliatone/go-briefing/pkg/registry"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Composer  ComposerConfig  `mapstructure:"composer"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Templates TemplatesConfig `mapstructure:"templates"`
}

type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`
	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RegistryConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst     int           `mapstructure:"burst"`
}

type ComposerConfig struct {
	Title       string `mapstructure:"title"`
	Host        string `mapstructure:"host"`
	Destination string `mapstructure:"destination"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Exporter    string `mapstructure:"exporter"` // "stdout" or "none"
	ServiceName string `mapstructure:"service_name"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

type TemplatesConfig struct {
	// Dir overrides the embedded page templates when set.
	Dir string `mapstructure:"dir"`
}

// Defaults returns the configuration used when no file or env var is set.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/",
			ShutdownTimeout: 10 * time.Second,
		},
		Registry: RegistryConfig{
			BaseURL:   registry.DefaultBaseURL,
			Timeout:   10 * time.Second,
			CacheTTL:  time.Hour,
			RateLimit: 3,
			Burst:     3,
		},
		Composer: ComposerConfig{
			Title:       composer.DefaultTitle,
			Host:        composer.DefaultHost,
			Destination: composer.DefaultDestination,
		},
		Log: LogConfig{Level: "info"},
		Tracing: TracingConfig{
			Enabled:     false,
			Exporter:    "stdout",
			ServiceName: "briefing",
		},
		Theme: ThemeConfig{
			Name:    "evolux",
			Variant: "light",
		},
	}
}

// SetDefaults flattens Defaults into key/value pairs for viper.SetDefault.
func SetDefaults(set func(key string, value any)) {
	d := Defaults()
	set("server.addr", d.Server.Addr)
	set("server.base_path", d.Server.BasePath)
	set("server.shutdown_timeout", d.Server.ShutdownTimeout)
	set("registry.base_url", d.Registry.BaseURL)
	set("registry.timeout", d.Registry.Timeout)
	set("registry.cache_ttl", d.Registry.CacheTTL)
	set("registry.rate_limit", d.Registry.RateLimit)
	set("registry.burst", d.Registry.Burst)
	set("composer.title", d.Composer.Title)
	set("composer.host", d.Composer.Host)
	set("composer.destination", d.Composer.Destination)
	set("log.level", d.Log.Level)
	set("tracing.enabled", d.Tracing.Enabled)
	set("tracing.exporter", d.Tracing.Exporter)
	set("tracing.service_name", d.Tracing.ServiceName)
	set("theme.name", d.Theme.Name)
	set("theme.variant", d.Theme.Variant)
	set("templates.dir", d.Templates.Dir)
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if err := ValidateRegistry(c.Registry); err != nil {
		return err
	}
	if err := ValidateComposer(c.Composer); err != nil {
		return err
	}
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateRegistry checks the registry client settings.
func ValidateRegistry(r RegistryConfig) error {
	u, err := url.Parse(r.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("registry.base_url must be an absolute URL, got %q", r.BaseURL)
	}
	if r.Timeout < 0 {
		return fmt.Errorf("registry.timeout must not be negative")
	}
	if r.CacheTTL < 0 {
		return fmt.Errorf("registry.cache_ttl must not be negative")
	}
	if r.RateLimit < 0 {
		return fmt.Errorf("registry.rate_limit must not be negative")
	}
	if r.RateLimit > 0 && r.Burst < 1 {
		return fmt.Errorf("registry.burst must be at least 1 when rate_limit is set")
	}
	return nil
}

// ValidateComposer checks the deep-link settings.
func ValidateComposer(c ComposerConfig) error {
	if strings.Trim(c.Host, "/ ") == "" {
		return fmt.Errorf("composer.host is required")
	}
	dest := strings.Trim(c.Destination, "/ ")
	if dest == "" {
		return fmt.Errorf("composer.destination is required")
	}
	for _, r := range dest {
		if r < '0' || r > '9' {
			return fmt.Errorf("composer.destination must contain digits only, got %q", c.Destination)
		}
	}
	return nil
}

// ValidateLog checks the log level name.
func ValidateLog(l LogConfig) error {
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", l.Level)
	}
}

// ValidateTracing checks the tracing settings. Disabled tracing is always
// valid.
func ValidateTracing(t TracingConfig) error {
	if !t.Enabled {
		return nil
	}
	switch t.Exporter {
	case "", "none", "stdout":
		return nil
	default:
		return fmt.Errorf("tracing.exporter must be \"stdout\" or \"none\", got %q", t.Exporter)
	}
}

// RegistryOptions converts the registry section into client options.
func (c Config) RegistryOptions() []registry.Option {
	return []registry.Option{
		registry.WithBaseURL(c.Registry.BaseURL),
		registry.WithTimeout(c.Registry.Timeout),
		registry.WithCacheTTL(c.Registry.CacheTTL),
		registry.WithRateLimit(c.Registry.RateLimit, c.Registry.Burst),
	}
}

// ComposerOptions converts the composer section into composer options.
func (c Config) ComposerOptions() []composer.OptionFn {
	return []composer.OptionFn{
		composer.WithTitle(c.Composer.Title),
		composer.WithHost(c.Composer.Host),
		composer.WithDestination(c.Composer.Destination),
	}
}

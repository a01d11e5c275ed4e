// Package config loads the mdrender configuration file.
//
// Configuration is YAML with ${VAR} expansion. Values from .env and
// .env.local are loaded first without overriding the process environment.
// Unset fields keep the values from Defaults.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/render"
	"git.home.luguber.info/inful/mdrender/internal/style"
)

// Config represents the application configuration.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	Metrics MetricsConfig `yaml:"metrics"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig mirrors render.Options plus embedding settings.
type RenderConfig struct {
	EnableGFM         bool   `yaml:"enable_gfm"`
	CodeTheme         string `yaml:"code_theme"`
	LanguageClasses   bool   `yaml:"language_classes"`
	OpenLinksInNewTab bool   `yaml:"open_links_in_new_tab"`
	AllowRawHTML      bool   `yaml:"allow_raw_html"`
	ExplicitStyling   bool   `yaml:"explicit_styling"`
	WrapperClass      string `yaml:"wrapper_class,omitempty"`
	MaxInputBytes     int    `yaml:"max_input_bytes,omitempty"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	DocsDir         string        `yaml:"docs_dir"`
	Watch           bool          `yaml:"watch"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Path          string        `yaml:"path"`
	TTL           time.Duration `yaml:"ttl"`
	PruneInterval time.Duration `yaml:"prune_interval"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig configures rendered-document notifications. An empty NATSURL
// disables publishing.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads configuration from path. An empty path yields Defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg := Defaults()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	if err := Parse([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", path).
			Fatal().
			UserAction().
			Build()
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Fields absent from data are left untouched.
func Parse(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}

// Normalize canonicalizes enum-like fields.
func (c *Config) Normalize() {
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
	if theme, err := style.ParseTheme(c.Render.CodeTheme); err == nil {
		c.Render.CodeTheme = theme.String()
	}
}

// RenderOptions converts the render section into renderer options. The
// theme must already be valid; unknown names disable the theme.
func (c *Config) RenderOptions() render.Options {
	theme, err := style.ParseTheme(c.Render.CodeTheme)
	if err != nil {
		theme = style.ThemeNone
	}
	return render.Options{
		EnableGFM:         c.Render.EnableGFM,
		CodeTheme:         theme,
		LanguageClasses:   c.Render.LanguageClasses,
		OpenLinksInNewTab: c.Render.OpenLinksInNewTab,
		AllowRawHTML:      c.Render.AllowRawHTML,
		ExplicitStyling:   c.Render.ExplicitStyling,
	}
}

package config

import (
	"time"

	"git.home.luguber.info/inful/mdrender/internal/render"
)

const (
	DefaultAddr          = "127.0.0.1:1316"
	DefaultDocsDir       = "docs"
	DefaultCachePath     = "mdrender-cache.db"
	DefaultCacheTTL      = 24 * time.Hour
	DefaultPruneInterval = 10 * time.Minute
	DefaultMetricsPath   = "/metrics"
	DefaultSubject       = "mdrender.documents.rendered"
)

// Defaults returns the configuration used when no file is given. The render
// section matches render.DefaultOptions.
func Defaults() *Config {
	opts := render.DefaultOptions()
	return &Config{
		Render: RenderConfig{
			EnableGFM:         opts.EnableGFM,
			CodeTheme:         opts.CodeTheme.String(),
			LanguageClasses:   opts.LanguageClasses,
			OpenLinksInNewTab: opts.OpenLinksInNewTab,
			AllowRawHTML:      opts.AllowRawHTML,
			ExplicitStyling:   opts.ExplicitStyling,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			DocsDir:         DefaultDocsDir,
			Watch:           true,
			ShutdownTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:       true,
			Path:          DefaultCachePath,
			TTL:           DefaultCacheTTL,
			PruneInterval: DefaultPruneInterval,
		},
		Metrics: MetricsConfig{
			Path: DefaultMetricsPath,
		},
		Notify: NotifyConfig{
			Subject: DefaultSubject,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

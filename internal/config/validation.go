package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/style"
)

// Validate checks the configuration and returns the first problem found as a
// classified config error.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateRender,
		c.validateServer,
		c.validateCache,
		c.validateMetrics,
		c.validateNotify,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, message string, value any) error {
	return ferrors.ConfigError(message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}

func (c *Config) validateRender() error {
	if _, err := style.ParseTheme(c.Render.CodeTheme); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid code theme").
			WithContext("field", "render.code_theme").
			WithContext("valid", strings.Join(style.ThemeNames(), ", ")).
			UserAction().
			Build()
	}
	if c.Render.MaxInputBytes < 0 {
		return invalid("render.max_input_bytes", "max input bytes must not be negative", c.Render.MaxInputBytes)
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return invalid("server.addr", "server address is required", c.Server.Addr)
	}
	if strings.TrimSpace(c.Server.DocsDir) == "" {
		return invalid("server.docs_dir", "docs directory is required", c.Server.DocsDir)
	}
	if c.Server.ShutdownTimeout < 0 {
		return invalid("server.shutdown_timeout", "shutdown timeout must not be negative", c.Server.ShutdownTimeout.String())
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Cache.Path) == "" {
		return invalid("cache.path", "cache path is required when the cache is enabled", c.Cache.Path)
	}
	if c.Cache.TTL <= 0 {
		return invalid("cache.ttl", "cache ttl must be positive", c.Cache.TTL.String())
	}
	if c.Cache.PruneInterval <= 0 {
		return invalid("cache.prune_interval", "prune interval must be positive", c.Cache.PruneInterval.String())
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", "metrics path must start with '/'", c.Metrics.Path)
	}
	return nil
}

func (c *Config) validateNotify() error {
	if c.Notify.NATSURL != "" && strings.TrimSpace(c.Notify.Subject) == "" {
		return invalid("notify.subject", "subject is required when nats_url is set", c.Notify.Subject)
	}
	return nil
}

package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/mdrender/internal/preview"
)

// ServeCmd starts the preview server over a docs directory.
type ServeCmd struct {
	DocsDir string `short:"d" name:"docs-dir" help:"Docs directory to serve (overrides server.docs_dir)"`
	Addr    string `short:"a" name:"addr" help:"Listen address (overrides server.addr)"`
	NoWatch bool   `name:"no-watch" help:"Do not watch the docs directory for changes"`
	NoCache bool   `name:"no-cache" help:"Disable the render cache"`
	Metrics bool   `name:"metrics" help:"Expose Prometheus metrics"`

	RenderFlags `embed:""`
}

func (s *ServeCmd) Run(g *Global, cli *CLI) error {
	cfg, logger, err := cli.load(g)
	if err != nil {
		return err
	}
	if err := s.apply(cfg); err != nil {
		return err
	}
	if s.DocsDir != "" {
		cfg.Server.DocsDir = s.DocsDir
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.NoWatch {
		cfg.Server.Watch = false
	}
	if s.NoCache {
		cfg.Cache.Enabled = false
	}
	if s.Metrics {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return preview.Run(ctx, cfg, logger)
}

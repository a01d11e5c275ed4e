package preview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdrender/internal/cache"
	"git.home.luguber.info/inful/mdrender/internal/config"
	"git.home.luguber.info/inful/mdrender/internal/document"
	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/notify"
)

// Run serves the preview until ctx is canceled.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	conv := document.NewConverter(cfg.RenderOptions(),
		document.WithClass(cfg.Render.WrapperClass),
		document.WithMaxInputBytes(cfg.Render.MaxInputBytes),
		document.WithLogger(logger),
		document.WithRecorder(recorder))

	var store cache.Store
	if cfg.Cache.Enabled {
		s, err := cache.NewSQLiteStore(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	var publisher notify.Publisher = notify.NoopPublisher{}
	if cfg.Notify.NATSURL != "" {
		p, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			logger.Warn("Notifications disabled", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		} else {
			defer func() { _ = p.Close() }()
			publisher = p
		}
	}

	srv, err := NewServer(Options{
		DocsDir:        cfg.Server.DocsDir,
		Converter:      conv,
		Cache:          store,
		Publisher:      publisher,
		Recorder:       recorder,
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: metricsHandler,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	if store != nil {
		scheduler, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePrune(srv, cfg.Cache.PruneInterval); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				logger.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Server.Watch {
		go func() {
			if err := srv.Watch(watchCtx); err != nil {
				logger.Warn("File watcher stopped", logfields.Error(err))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("Preview server listening",
		slog.String("addr", cfg.Server.Addr),
		logfields.Path(srv.DocsDir()))

	select {
	case err := <-errCh:
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "preview server failed").
			WithContext("addr", cfg.Server.Addr).
			Build()
	case <-ctx.Done():
	}

	logger.Info("Shutting down preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

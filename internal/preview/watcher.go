package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
)

// setupFileWatcher creates a watcher covering absDocs and its subdirectories.
func setupFileWatcher(absDocs string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "fsnotify").Build()
	}
	if err := addDirsRecursive(watcher, absDocs); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// Watch invalidates cached renderings of changed documents until ctx is done.
func (s *Server) Watch(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	watcher, err := setupFileWatcher(s.docsDir)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleFileEvent(ctx, watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

// handleFileEvent drops cache entries for the document behind ev.
func (s *Server) handleFileEvent(ctx context.Context, watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
			return
		}
	}
	s.invalidate(ctx, ev.Name)
}

// invalidate removes cache entries for the document at absPath.
func (s *Server) invalidate(ctx context.Context, absPath string) {
	if s.store == nil || !strings.EqualFold(filepath.Ext(absPath), ".md") {
		return
	}
	rel, err := filepath.Rel(s.docsDir, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	rel = filepath.ToSlash(rel)
	n, err := s.store.InvalidatePath(ctx, rel)
	if err != nil {
		s.logger.Warn("Cache invalidation failed", logfields.Path(rel), logfields.Error(err))
		return
	}
	s.logger.Debug("Document changed; cache invalidated", logfields.Path(rel), logfields.Cache("invalidated"), "entries", n)
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that cannot affect a document.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, editor swap files and lock files.
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

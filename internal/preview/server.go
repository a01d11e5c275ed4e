// Package preview serves a directory of markdown documents as rendered pages.
//
// Documents are rendered on request and cached by content fingerprint; the
// filesystem watcher drops cache entries for changed files and a scheduled
// job prunes expired entries.
package preview

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/mdrender/internal/cache"
	"git.home.luguber.info/inful/mdrender/internal/document"
	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
	"git.home.luguber.info/inful/mdrender/internal/markup"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/notify"
)

// Options wires a Server. Converter and DocsDir are required; a nil Cache
// disables caching.
type Options struct {
	DocsDir        string
	Converter      *document.Converter
	Cache          cache.Store
	Publisher      notify.Publisher
	Recorder       metrics.Recorder
	MetricsPath    string
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server renders documents from a docs directory over HTTP.
type Server struct {
	docsDir    string
	conv       *document.Converter
	store      cache.Store
	publisher  notify.Publisher
	recorder   metrics.Recorder
	logger     *slog.Logger
	errAdapter *ferrors.HTTPErrorAdapter

	metricsPath    string
	metricsHandler http.Handler
}

// NewServer validates opts and creates a server.
func NewServer(opts Options) (*Server, error) {
	if opts.Converter == nil {
		return nil, ferrors.InternalError("preview server requires a converter").Build()
	}
	absDocs, err := validateAndResolveDocsDir(opts.DocsDir)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = notify.NoopPublisher{}
	}
	return &Server{
		docsDir:        absDocs,
		conv:           opts.Converter,
		store:          opts.Cache,
		publisher:      publisher,
		recorder:       metrics.OrNoop(opts.Recorder),
		logger:         logger,
		errAdapter:     ferrors.NewHTTPErrorAdapter(logger),
		metricsPath:    opts.MetricsPath,
		metricsHandler: opts.MetricsHandler,
	}, nil
}

// DocsDir returns the absolute docs directory.
func (s *Server) DocsDir() string { return s.docsDir }

// validateAndResolveDocsDir resolves the absolute path of the docs directory.
func validateAndResolveDocsDir(docsDir string) (string, error) {
	if strings.TrimSpace(docsDir) == "" {
		return "", ferrors.ValidationError("preview requires a docs directory").Build()
	}
	absDocs, err := filepath.Abs(docsDir)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve docs dir").
			WithContext("dir", docsDir).
			Build()
	}
	if st, statErr := os.Stat(absDocs); statErr != nil || !st.IsDir() {
		return "", ferrors.NotFoundError("docs dir not found or not a directory").
			WithContext("dir", absDocs).
			Build()
	}
	return absDocs, nil
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /docs/{path...}", s.handlePage)
	mux.HandleFunc("GET /fragments/{path...}", s.handleFragment)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metricsHandler != nil && s.metricsPath != "" {
		mux.Handle("GET "+s.metricsPath, s.metricsHandler)
	}
	return chain(s.logger, s.errAdapter, s.recorder, mux)
}

// rendered is a document ready to serve.
type rendered struct {
	Path        string
	Title       string
	HTML        string
	Fingerprint string
	Cached      bool
	Err         error
}

func (r rendered) etag(cacheKey string) string {
	if r.Fingerprint == "" || r.Err != nil {
		return ""
	}
	return `"` + r.Fingerprint + "-" + cacheKey + `"`
}

// resolve maps a request path onto a markdown file inside the docs dir.
func (s *Server) resolve(rel string) (string, string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if clean == "" || !strings.EqualFold(path.Ext(clean), ".md") {
		return "", "", ferrors.NotFoundError("document not found").WithContext("path", rel).Build()
	}
	return clean, filepath.Join(s.docsDir, filepath.FromSlash(clean)), nil
}

// renderDocument renders rel, serving from and filling the cache.
func (s *Server) renderDocument(ctx context.Context, rel string) (rendered, error) {
	clean, abs, err := s.resolve(rel)
	if err != nil {
		return rendered{}, err
	}
	source, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return rendered{}, ferrors.NotFoundError("document not found").WithContext("path", clean).Build()
	}
	if err != nil {
		return rendered{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read document").
			WithContext("path", clean).
			Build()
	}

	fp, fpErr := document.Fingerprint(source)
	if fpErr == nil && s.store != nil {
		entry, ok, err := s.store.Get(ctx, fp, s.conv.CacheKey())
		switch {
		case err != nil:
			s.recorder.IncCacheLookup(metrics.CacheError)
			s.logger.Warn("Cache lookup failed", logfields.Path(clean), logfields.Error(err))
		case ok:
			s.recorder.IncCacheLookup(metrics.CacheHit)
			out := rendered{Path: clean, Title: entry.Title, HTML: entry.HTML, Fingerprint: fp, Cached: true}
			s.publish(ctx, out, len(source))
			return out, nil
		default:
			s.recorder.IncCacheLookup(metrics.CacheMiss)
		}
	}

	res := s.conv.ConvertNamed(clean, source)
	out := rendered{
		Path:        clean,
		Title:       res.Title(path.Base(clean)),
		HTML:        res.HTML(),
		Fingerprint: res.Fingerprint,
		Err:         res.Err,
	}
	if out.Err == nil && s.store != nil {
		if err := s.store.Put(ctx, cache.Entry{
			Path:        clean,
			Fingerprint: out.Fingerprint,
			OptionsKey:  s.conv.CacheKey(),
			Title:       out.Title,
			HTML:        out.HTML,
		}); err != nil {
			s.logger.Warn("Cache store failed", logfields.Path(clean), logfields.Error(err))
		}
	}
	s.publish(ctx, out, len(source))
	return out, nil
}

func (s *Server) publish(ctx context.Context, r rendered, size int) {
	ev := notify.RenderedEvent{
		Path:        r.Path,
		Title:       r.Title,
		Fingerprint: r.Fingerprint,
		Bytes:       size,
		Cached:      r.Cached,
	}
	if r.Err != nil {
		ev.Error = r.Err.Error()
	}
	pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.publisher.PublishRendered(pubCtx, ev); err != nil {
		s.logger.Warn("Failed to publish rendered event", logfields.Path(r.Path), logfields.Error(err))
	}
}

func (s *Server) serveRendered(w http.ResponseWriter, r *http.Request, page bool) {
	doc, err := s.renderDocument(r.Context(), r.PathValue("path"))
	if err != nil {
		s.errAdapter.WriteErrorResponse(w, r, err)
		return
	}

	if tag := doc.etag(s.conv.CacheKey()); tag != "" {
		w.Header().Set("ETag", tag)
		if r.Header.Get("If-None-Match") == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	cacheState := "miss"
	if doc.Cached {
		cacheState = "hit"
	}
	w.Header().Set("X-Mdrender-Cache", cacheState)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if !page {
		_, _ = w.Write([]byte(doc.HTML))
		return
	}
	var buf bytes.Buffer
	if err := document.WritePage(&buf, doc.Title, markup.Fragment{markup.Raw(doc.HTML)}); err != nil {
		s.errAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write page").Build())
		return
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.serveRendered(w, r, true)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	s.serveRendered(w, r, false)
}

// listDocuments returns the slash-separated paths of all markdown files.
func (s *Server) listDocuments() ([]string, error) {
	var docs []string
	err := filepath.WalkDir(s.docsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != s.docsDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".md") || shouldIgnoreEvent(p) {
			return nil
		}
		rel, relErr := filepath.Rel(s.docsDir, p)
		if relErr != nil {
			return nil
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(docs)
	return docs, err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	docs, err := s.listDocuments()
	if err != nil {
		s.errAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to list documents").Build())
		return
	}

	items := make([]*markup.Node, 0, len(docs))
	for _, d := range docs {
		link := markup.Element("a", []markup.Attr{{Key: "href", Val: "/docs/" + d}, {Key: "class", Val: "text-blue-600 hover:underline"}}, markup.Text(d))
		items = append(items, markup.Element("li", nil, link))
	}
	frag := markup.Fragment{
		markup.Element("h1", []markup.Attr{{Key: "class", Val: "text-2xl font-bold mb-4"}}, markup.Text("Documents")),
		markup.Element("ul", []markup.Attr{{Key: "class", Val: "list-disc pl-6 space-y-1"}}, items...),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := document.WritePage(w, "Documents", frag); err != nil {
		s.logger.Warn("Failed to write index", logfields.Error(err))
	}
}

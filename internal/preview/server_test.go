package preview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andybalholm/cascadia"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mdrender/internal/cache"
	"git.home.luguber.info/inful/mdrender/internal/document"
	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/notify"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.RenderedEvent
}

func (p *recordingPublisher) PublishRendered(_ context.Context, ev notify.RenderedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	dir       string
	store     *cache.SQLiteStore
	publisher *recordingPublisher
	server    *Server
	handler   http.Handler
}

func writeDoc(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "index.md", "---\ntitle: Welcome\n---\n# Hello\n\nSome *text*.\n")
	writeDoc(t, dir, "guide/setup.md", "## Setup\n")
	writeDoc(t, dir, "broken.md", strings.Repeat("x", 2048))
	writeDoc(t, dir, ".hidden.md", "# hidden\n")
	writeDoc(t, dir, "notes.txt", "not markdown")

	store, err := cache.NewSQLiteStore(":memory:", time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg := prom.NewRegistry()
	logger := slog.New(slog.DiscardHandler)
	pub := &recordingPublisher{}
	srv, err := NewServer(Options{
		DocsDir:        dir,
		Converter:      document.NewConverter(render.DefaultOptions(), document.WithLogger(logger), document.WithMaxInputBytes(1024)),
		Cache:          store,
		Publisher:      pub,
		Recorder:       metrics.NewPrometheusRecorder(reg),
		MetricsPath:    "/metrics",
		MetricsHandler: metrics.HTTPHandler(reg),
		Logger:         logger,
	})
	require.NoError(t, err)
	return &fixture{dir: dir, store: store, publisher: pub, server: srv, handler: srv.Handler()}
}

func (f *fixture) get(t *testing.T, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func selectAll(t *testing.T, body, sel string) []*html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return cascadia.MustCompile(sel).MatchAll(doc)
}

func TestServer_Index(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	links := selectAll(t, rec.Body.String(), "main ul > li > a")
	var hrefs []string
	for _, a := range links {
		for _, attr := range a.Attr {
			if attr.Key == "href" {
				hrefs = append(hrefs, attr.Val)
			}
		}
	}
	assert.Equal(t, []string{"/docs/broken.md", "/docs/guide/setup.md", "/docs/index.md"}, hrefs)
}

func TestServer_PageAndCache(t *testing.T) {
	f := newFixture(t)

	first := f.get(t, "/docs/index.md")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("X-Mdrender-Cache"))
	assert.NotEmpty(t, first.Header().Get("X-Request-ID"))
	body := first.Body.String()
	assert.Contains(t, body, "<title>Welcome</title>")
	assert.Len(t, selectAll(t, body, "main > div > h1"), 1)
	assert.Len(t, selectAll(t, body, "main > div > p > em"), 1)

	second := f.get(t, "/docs/index.md")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Mdrender-Cache"))
	assert.Equal(t, body, second.Body.String())

	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	notModified := f.get(t, "/docs/index.md", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, notModified.Code)

	require.Len(t, f.publisher.events, 3)
	assert.False(t, f.publisher.events[0].Cached)
	assert.True(t, f.publisher.events[1].Cached)
	assert.Equal(t, "Welcome", f.publisher.events[1].Title)
}

func TestServer_Fragment(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/fragments/guide/setup.md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<div class="))
	assert.NotContains(t, rec.Body.String(), "<html")
	assert.Len(t, selectAll(t, rec.Body.String(), "div > h2"), 1)
}

func TestServer_BrokenDocumentShowsErrorBox(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/docs/broken.md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), document.ErrorHeadline)

	n, err := f.store.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	require.Len(t, f.publisher.events, 1)
	assert.NotEmpty(t, f.publisher.events[0].Error)
}

func TestServer_NotFound(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/docs/missing.md", "/docs/notes.txt"} {
		rec := f.get(t, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)

		var payload ferrors.HTTPErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, string(ferrors.CategoryNotFound), payload.Code)
	}
}

func TestServer_ResolveStaysInsideDocsDir(t *testing.T) {
	f := newFixture(t)
	clean, abs, err := f.server.resolve("../../etc/passwd.md")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd.md", clean)
	assert.True(t, strings.HasPrefix(abs, f.server.DocsDir()))

	_, _, err = f.server.resolve("")
	assert.Error(t, err)
}

func TestServer_MetricsAndHealth(t *testing.T) {
	f := newFixture(t)
	f.get(t, "/docs/index.md")
	f.get(t, "/docs/index.md")

	assert.Equal(t, http.StatusOK, f.get(t, "/healthz").Code)

	body := f.get(t, "/metrics").Body.String()
	assert.Contains(t, body, `mdrender_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `mdrender_cache_lookups_total{result="miss"} 1`)
	assert.Contains(t, body, `mdrender_preview_requests_total{code="200"}`)
}

func TestServer_RequestIDPropagates(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/healthz", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	h := chain(logger, ferrors.NewHTTPErrorAdapter(logger), metrics.NoopRecorder{}, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "internal server error")
}

func TestServer_InvalidateAndPrune(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.get(t, "/docs/guide/setup.md")

	n, err := f.store.Len(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	f.server.invalidate(ctx, filepath.Join(f.dir, "guide", "other.md"))
	n, _ = f.store.Len(ctx)
	assert.Equal(t, 1, n)

	f.server.invalidate(ctx, filepath.Join(f.dir, "guide", "setup.md"))
	n, _ = f.store.Len(ctx)
	assert.Zero(t, n)

	assert.NotPanics(t, f.server.pruneCache)
}

func TestScheduler_SchedulePrune(t *testing.T) {
	f := newFixture(t)
	s, err := NewScheduler()
	require.NoError(t, err)
	id, err := s.SchedulePrune(f.server, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	s.Start()
	require.NoError(t, s.Shutdown())
}

func TestNewServer_Validation(t *testing.T) {
	conv := document.NewConverter(render.DefaultOptions())

	_, err := NewServer(Options{DocsDir: t.TempDir()})
	assert.Error(t, err)

	_, err = NewServer(Options{Converter: conv})
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryValidation, ferrors.GetCategory(err))

	_, err = NewServer(Options{Converter: conv, DocsDir: filepath.Join(t.TempDir(), "does-not-exist")})
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryNotFound, ferrors.GetCategory(err))

	srv, err := NewServer(Options{Converter: conv, DocsDir: t.TempDir()})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(srv.DocsDir()))
}

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

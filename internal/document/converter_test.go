package document

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/markdown"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/render"
	"git.home.luguber.info/inful/mdrender/internal/style"
)

type countingRecorder struct {
	metrics.NoopRecorder
	mu      sync.Mutex
	results map[metrics.ResultLabel]int
	sizes   []int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{results: map[metrics.ResultLabel]int{}}
}

func (r *countingRecorder) IncRenderResult(result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result]++
}

func (r *countingRecorder) ObserveDocumentSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, n)
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func selectAll(t *testing.T, markupHTML, sel string) []*html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markupHTML))
	require.NoError(t, err)
	return cascadia.MustCompile(sel).MatchAll(doc)
}

func TestConvert_WrapsInProseContainer(t *testing.T) {
	logger, _ := bufferLogger()
	c := NewConverter(render.DefaultOptions(), WithClass("my-doc"), WithLogger(logger))

	res := c.Convert([]byte("# Hello\n\nworld\n"))
	require.NoError(t, res.Err)
	require.Len(t, res.Fragment, 1)

	wrapper := res.Fragment[0]
	assert.Equal(t, "div", wrapper.Tag)
	cls, _ := wrapper.AttrValue("class")
	assert.Equal(t, style.ProseClasses()+" my-doc", cls)
	assert.Equal(t, []string{"h1", "p"}, []string{wrapper.Children[0].Tag, wrapper.Children[1].Tag})
	assert.Len(t, res.Content, 2)

	noClass := NewConverter(render.DefaultOptions())
	assert.Equal(t, style.ProseClasses(), noClass.WrapperClass())
}

func TestConvert_MetadataFingerprintAndLinks(t *testing.T) {
	src := "---\ntitle: Guide\ntags: [a, b]\n---\nSee [docs](/docs) and ![logo](/logo.png).\n"
	res := NewConverter(render.DefaultOptions()).Convert([]byte(src))
	require.NoError(t, res.Err)

	assert.Equal(t, "Guide", res.Metadata["title"])
	assert.Equal(t, "Guide", res.Title("fallback"))
	assert.NotEmpty(t, res.Fingerprint)
	assert.Equal(t, []markdown.Link{
		{Kind: markdown.LinkKindInline, Destination: "/docs"},
		{Kind: markdown.LinkKindImage, Destination: "/logo.png"},
	}, res.Links)
	assert.NotContains(t, res.HTML(), "title: Guide")

	again := NewConverter(render.DefaultOptions().WithExplicitStyling(true)).Convert([]byte(src))
	assert.Equal(t, res.Fingerprint, again.Fingerprint)

	changed := NewConverter(render.DefaultOptions()).Convert([]byte(src + "more\n"))
	assert.NotEqual(t, res.Fingerprint, changed.Fingerprint)
}

func TestConvert_TOMLMetadata(t *testing.T) {
	res := NewConverter(render.DefaultOptions()).Convert([]byte("+++\ntitle = \"Toml\"\n+++\nbody\n"))
	require.NoError(t, res.Err)
	assert.Equal(t, "Toml", res.Title(""))
}

func TestConvert_FenceWithoutMappingIsContent(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		query string
		text  string
	}{
		{"unparsable block", "---\nkey: [broken\n---\nbody\n", "p", "body"},
		{"unclosed fence", "---\nHello world\n", "p", "Hello world"},
		{"heading between rules", "---\n\n# Title\n\n---\n\nBody\n", "h1", "Title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewConverter(render.DefaultOptions(), WithLogger(slog.New(slog.DiscardHandler))).Convert([]byte(tt.src))
			require.NoError(t, res.Err)
			assert.Empty(t, res.Metadata)
			assert.Equal(t, "x", res.Title("x"))

			out := res.HTML()
			assert.NotEmpty(t, selectAll(t, out, "hr"))
			nodes := selectAll(t, out, tt.query)
			require.NotEmpty(t, nodes)
			assert.Equal(t, tt.text, nodes[len(nodes)-1].FirstChild.Data)
		})
	}
}

func TestConvert_FailureShowsErrorBox(t *testing.T) {
	logger, logs := bufferLogger()
	rec := newCountingRecorder()
	c := NewConverter(render.DefaultOptions(), WithLogger(logger), WithRecorder(rec), WithMaxInputBytes(8))

	res := c.ConvertNamed("broken.md", []byte("# far too long for the limit\n"))
	require.Error(t, res.Err)
	assert.True(t, ferrors.IsRenderError(res.Err))
	assert.Nil(t, res.Content)
	assert.Empty(t, res.Fingerprint)

	out := res.HTML()
	box := selectAll(t, out, "div")
	require.Len(t, box, 1)
	cls, _ := attrOf(box[0], "class")
	assert.Equal(t, style.ErrorBoxClasses(), cls)

	headline := selectAll(t, out, "div > p.font-medium")
	require.Len(t, headline, 1)
	assert.Equal(t, ErrorHeadline, headline[0].FirstChild.Data)

	msg := selectAll(t, out, `div > p[class="text-sm mt-1"]`)
	require.Len(t, msg, 1)
	assert.Equal(t, res.Err.Error(), msg[0].FirstChild.Data)

	assert.Contains(t, logs.String(), "Failed to render markdown")
	assert.Contains(t, logs.String(), "document=broken.md")
	assert.Equal(t, 1, rec.results[metrics.ResultFailed])
	assert.Zero(t, rec.results[metrics.ResultSuccess])
}

func TestConvert_SizeLimit(t *testing.T) {
	rec := newCountingRecorder()
	c := NewConverter(render.DefaultOptions(), WithMaxInputBytes(4), WithRecorder(rec), WithLogger(slog.New(slog.DiscardHandler)))

	res := c.Convert([]byte("# too long\n"))
	require.Error(t, res.Err)
	assert.Equal(t, []int{11}, rec.sizes)

	ok := c.Convert([]byte("ok\n"))
	assert.NoError(t, ok.Err)
	assert.Equal(t, 1, rec.results[metrics.ResultSuccess])
}

func TestConvert_DebugLog(t *testing.T) {
	logger, logs := bufferLogger()
	NewConverter(render.DefaultOptions().WithCodeTheme(style.ThemeDark), WithLogger(logger)).ConvertNamed("a.md", []byte("text\n"))

	out := logs.String()
	assert.Contains(t, out, "Rendered markdown")
	assert.Contains(t, out, "theme=dark")
	assert.Contains(t, out, "document=a.md")
}

func TestErrorBox_NilError(t *testing.T) {
	frag := ErrorBox(nil)
	require.Len(t, frag, 1)
	assert.Equal(t, ErrorHeadline, frag.TextContent())
}

func TestWithRecorder_Nil(t *testing.T) {
	c := NewConverter(render.DefaultOptions(), WithRecorder(nil), WithLogger(nil))
	assert.NotPanics(t, func() { c.Convert([]byte("x")) })
	assert.Equal(t, metrics.NoopRecorder{}, c.recorder)
}

func attrOf(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func TestFingerprintMatchesConvert(t *testing.T) {
	src := []byte("---\ntitle: T\n---\nbody\n")
	fp, err := Fingerprint(src)
	require.NoError(t, err)
	assert.Equal(t, NewConverter(render.DefaultOptions()).Convert(src).Fingerprint, fp)

	plain, err := Fingerprint([]byte("---\nunterminated\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, plain)
	assert.NotEqual(t, fp, plain)
}

func TestCacheKey(t *testing.T) {
	a := NewConverter(render.DefaultOptions())
	b := NewConverter(render.DefaultOptions(), WithClass("x"))
	c := NewConverter(render.DefaultOptions().WithGFM(false))
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
	assert.Equal(t, a.CacheKey(), NewConverter(render.DefaultOptions()).CacheKey())
}

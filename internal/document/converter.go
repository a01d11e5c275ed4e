// Package document embeds rendered markdown into a page-ready fragment.
//
// A Converter renders a source with the event-tree renderer and wraps the
// result in a prose container. Failures do not drop the document: the result
// carries a visible error box instead and the error is logged. Frontmatter is
// parsed alongside so callers can use the document's metadata.
package document

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mdrender/internal/frontmatter"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
	"git.home.luguber.info/inful/mdrender/internal/markdown"
	"git.home.luguber.info/inful/mdrender/internal/markup"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/render"
	"git.home.luguber.info/inful/mdrender/internal/style"
)

// ErrorHeadline is shown above the message in the error box.
const ErrorHeadline = "Failed to render markdown content"

// Result is the outcome of converting one document.
type Result struct {
	// Fragment is the wrapped content, or the error box when Err is set.
	Fragment markup.Fragment
	// Content is the unwrapped rendered content; nil when Err is set.
	Content markup.Fragment
	// Metadata holds the parsed frontmatter fields. It is empty when the
	// document has no frontmatter or the frontmatter does not parse.
	Metadata map[string]any
	// Fingerprint identifies the document content independent of any
	// fingerprint field it already carries.
	Fingerprint string
	Links       []markdown.Link
	Err         error
}

// HTML serializes the result fragment.
func (r Result) HTML() string { return markup.HTML(r.Fragment) }

// Title returns the frontmatter title, or fallback when there is none.
func (r Result) Title(fallback string) string {
	if t, ok := r.Metadata["title"].(string); ok && t != "" {
		return t
	}
	return fallback
}

// Converter renders documents with fixed options. It is safe for concurrent use.
type Converter struct {
	renderer *render.Renderer
	class    string
	maxBytes int
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Converter.
type Option func(*Converter)

// WithClass appends a caller class to the prose wrapper.
func WithClass(class string) Option {
	return func(c *Converter) { c.class = class }
}

// WithLogger sets the logger used for conversion failures and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Converter) { c.recorder = metrics.OrNoop(r) }
}

// WithMaxInputBytes rejects sources larger than n bytes. Zero means unlimited.
func WithMaxInputBytes(n int) Option {
	return func(c *Converter) { c.maxBytes = n }
}

// NewConverter creates a converter rendering with opts.
func NewConverter(opts render.Options, options ...Option) *Converter {
	c := &Converter{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range options {
		o(c)
	}
	c.renderer = render.New(opts, render.WithMaxInputBytes(c.maxBytes))
	return c
}

// Options returns the render options.
func (c *Converter) Options() render.Options { return c.renderer.Options() }

// WrapperClass returns the class attribute of the prose wrapper.
func (c *Converter) WrapperClass() string {
	return style.Join(style.ProseClasses(), c.class)
}

// Convert renders an unnamed document.
func (c *Converter) Convert(source []byte) Result {
	return c.ConvertNamed("", source)
}

// ConvertNamed renders source; name only labels log records.
func (c *Converter) ConvertNamed(name string, source []byte) Result {
	start := time.Now()
	c.recorder.ObserveDocumentSize(len(source))

	content, err := c.renderer.Render(source)
	c.recorder.ObserveRenderDuration(time.Since(start))
	if err != nil {
		c.recorder.IncRenderResult(metrics.ResultFailed)
		c.logger.Error("Failed to render markdown",
			logfields.Document(name),
			logfields.Bytes(len(source)),
			logfields.Error(err))
		return Result{Fragment: ErrorBox(err), Metadata: map[string]any{}, Err: err}
	}
	c.recorder.IncRenderResult(metrics.ResultSuccess)

	res := Result{
		Fragment: markup.Fragment{markup.Element("div", []markup.Attr{{Key: "class", Val: c.WrapperClass()}}, content...)},
		Content:  content,
		Metadata: map[string]any{},
	}
	c.inspect(name, source, &res)

	c.logger.Debug("Rendered markdown",
		logfields.Document(name),
		logfields.Bytes(len(source)),
		logfields.Nodes(content.Count()),
		logfields.Theme(c.Options().CodeTheme.String()),
		logfields.Fingerprint(res.Fingerprint),
		logfields.Since(start))
	return res
}

// inspect fills metadata, fingerprint and links.
func (c *Converter) inspect(name string, source []byte, res *Result) {
	block := frontmatter.Split(source)
	res.Metadata = block.Fields

	fp, err := frontmatter.Fingerprint(block.Fields, block.Body)
	if err != nil {
		c.logger.Warn("Failed to fingerprint document",
			logfields.Document(name),
			logfields.Error(err))
	}
	res.Fingerprint = fp
	res.Links = markdown.ExtractLinks(block.Body, markdown.Options{EnableGFM: c.Options().EnableGFM})
}

// ErrorBox builds the visible fallback shown in place of a document that
// failed to render.
func ErrorBox(err error) markup.Fragment {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return markup.Fragment{
		markup.Element("div", []markup.Attr{{Key: "class", Val: style.ErrorBoxClasses()}},
			markup.Element("p", []markup.Attr{{Key: "class", Val: "font-medium"}}, markup.Text(ErrorHeadline)),
			markup.Element("p", []markup.Attr{{Key: "class", Val: "text-sm mt-1"}}, markup.Text(msg)),
		),
	}
}

// CacheKey identifies everything besides the source that affects output.
func (c *Converter) CacheKey() string {
	return c.Options().Key() + "|" + c.class
}

// Fingerprint computes a document's content fingerprint without rendering it.
func Fingerprint(source []byte) (string, error) {
	block := frontmatter.Split(source)
	return frontmatter.Fingerprint(block.Fields, block.Body)
}

// Package render rebuilds a nested markup tree from the flat event stream.
//
// Containers are matched by scanning forward from each Start while tracking
// nesting depth; the interior is rendered recursively and wrapped according to
// the container kind. A Start without a matching End consumes the rest of the
// stream, so rendering is total over every input.
package render

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/event"
	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/markdown"
	"git.home.luguber.info/inful/mdrender/internal/markup"
	"git.home.luguber.info/inful/mdrender/internal/style"
)

// Renderer converts events to markup. It holds only immutable options and is
// safe for concurrent use.
type Renderer struct {
	opts     Options
	maxBytes int
}

// Option configures a Renderer beyond its render Options.
type Option func(*Renderer)

// WithMaxInputBytes limits the size of sources accepted by Render.
func WithMaxInputBytes(n int) Option {
	return func(r *Renderer) { r.maxBytes = n }
}

// New creates a renderer.
func New(opts Options, extra ...Option) *Renderer {
	r := &Renderer{opts: opts}
	for _, fn := range extra {
		fn(r)
	}
	return r
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options { return r.opts }

// Render tokenizes source and renders the resulting events. Tokenizer
// failures are returned as render errors and no fragment is produced.
func (r *Renderer) Render(source []byte) (markup.Fragment, error) {
	events, err := r.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return r.RenderEvents(events), nil
}

// Tokenize runs the tokenizer with the renderer's GFM and size settings.
func (r *Renderer) Tokenize(source []byte) ([]event.Event, error) {
	events, err := markdown.Tokenize(source, markdown.Options{
		EnableGFM: r.opts.EnableGFM,
		MaxBytes:  r.maxBytes,
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to tokenize markdown").
			WithContext("bytes", len(source)).
			Build()
	}
	return events, nil
}

// RenderString renders source with opts.
func RenderString(source string, opts Options) (markup.Fragment, error) {
	return New(opts).Render([]byte(source))
}

// RenderEvents renders an event stream. It never fails: stray End events are
// ignored and an unterminated container swallows the remaining events.
func (r *Renderer) RenderEvents(events []event.Event) markup.Fragment {
	out := markup.Fragment{}
	for i := 0; i < len(events); {
		nodes, consumed := r.renderAt(events[i:])
		out = append(out, nodes...)
		i += consumed
	}
	return out
}

// FindMatchingEnd returns the index of the End that closes the Start at
// events[0], or len(events) when the stream ends first.
func FindMatchingEnd(events []event.Event) int {
	depth := 0
	for i, ev := range events {
		switch ev.(type) {
		case event.Start:
			depth++
		case event.End:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(events)
}

// ExtractText concatenates the Text and Code leaves of events in order.
func ExtractText(events []event.Event) string {
	var b strings.Builder
	for _, ev := range events {
		switch e := ev.(type) {
		case event.Text:
			b.WriteString(e.Text)
		case event.Code:
			b.WriteString(e.Code)
		}
	}
	return b.String()
}

// renderAt renders the event at events[0] and reports how many events it
// consumed. consumed is always at least one.
func (r *Renderer) renderAt(events []event.Event) ([]*markup.Node, int) {
	switch e := events[0].(type) {
	case event.Start:
		end := FindMatchingEnd(events)
		consumed := end + 1
		if end == len(events) {
			consumed = end
		}
		return r.renderContainer(e.Kind, events[1:end]), consumed
	case event.End:
		return nil, 1
	default:
		return one(r.renderLeaf(events[0])), 1
	}
}

func one(n *markup.Node) []*markup.Node {
	if n == nil {
		return nil
	}
	return []*markup.Node{n}
}

func (r *Renderer) class(el style.Element) []markup.Attr {
	return classAttr(style.For(el, r.opts.ExplicitStyling))
}

func classAttr(token string) []markup.Attr {
	if token == "" {
		return nil
	}
	return []markup.Attr{{Key: "class", Val: token}}
}

func (r *Renderer) wrap(tag string, el style.Element, inner []event.Event) []*markup.Node {
	return one(markup.Element(tag, r.class(el), r.RenderEvents(inner)...))
}

func (r *Renderer) renderContainer(kind event.Kind, inner []event.Event) []*markup.Node {
	switch k := kind.(type) {
	case event.Paragraph:
		return r.wrap("p", style.ElementParagraph, inner)
	case event.Heading:
		return r.wrap(k.Level.Tag(), style.HeadingElement(k.Level.Level()), inner)
	case event.BlockQuote:
		return r.wrap("blockquote", style.ElementBlockquote, inner)
	case event.CodeBlock:
		return one(r.codeBlock(k, inner))
	case event.List:
		if k.Ordered {
			attrs := append(r.class(style.ElementOrderedList), markup.Attr{Key: "start", Val: strconv.FormatUint(k.Start, 10)})
			return one(markup.Element("ol", attrs, r.RenderEvents(inner)...))
		}
		return r.wrap("ul", style.ElementUnorderedList, inner)
	case event.ListItem:
		return r.wrap("li", style.ElementListItem, inner)
	case event.Emphasis:
		return r.wrap("em", style.ElementEmphasis, inner)
	case event.Strong:
		return r.wrap("strong", style.ElementStrong, inner)
	case event.Strikethrough:
		return r.wrap("del", style.ElementStrikethrough, inner)
	case event.Link:
		return one(r.link(k, inner))
	case event.Image:
		return one(r.image(k, inner))
	case event.Table:
		return r.wrap("table", style.ElementTable, inner)
	case event.TableHead:
		return r.wrap("thead", style.ElementTableHead, inner)
	case event.TableRow:
		return r.wrap("tr", style.ElementTableRow, inner)
	case event.TableCell:
		return r.wrap("td", style.ElementTableCell, inner)
	case event.FootnoteDefinition:
		attrs := append(r.class(style.ElementFootnoteDefinition), markup.Attr{Key: "id", Val: k.Label})
		return one(markup.Element("div", attrs, r.RenderEvents(inner)...))
	case event.HTMLBlock:
		return one(r.htmlBlock(inner))
	case event.DefinitionList:
		return r.wrap("dl", style.ElementDefinitionList, inner)
	case event.DefinitionTerm:
		return r.wrap("dt", style.ElementDefinitionTerm, inner)
	case event.DefinitionDescription:
		return r.wrap("dd", style.ElementDefinitionDescription, inner)
	case event.Superscript:
		return r.wrap("sup", style.ElementSuperscript, inner)
	case event.Subscript:
		return r.wrap("sub", style.ElementSubscript, inner)
	case event.MetadataBlock:
		return nil
	default:
		// Unknown or nil kinds keep their content without a wrapper.
		return r.RenderEvents(inner)
	}
}

func (r *Renderer) languageClass(k event.CodeBlock) string {
	if !r.opts.LanguageClasses {
		return ""
	}
	if !k.Fenced || k.Language == "" {
		return "language-text"
	}
	return "language-" + k.Language
}

func (r *Renderer) codeBlock(k event.CodeBlock, inner []event.Event) *markup.Node {
	lang := r.languageClass(k)
	explicit := r.opts.ExplicitStyling

	preClass := style.Join(style.For(style.ElementCodeBlock, explicit), lang, style.ThemeStyle(r.opts.CodeTheme))
	codeClass := style.Join(style.For(style.ElementCodeBlockCode, explicit), lang)

	code := markup.Element("code", classAttr(codeClass), markup.Text(ExtractText(inner)))
	return markup.Element("pre", classAttr(preClass), code)
}

func (r *Renderer) link(k event.Link, inner []event.Event) *markup.Node {
	attrs := []markup.Attr{{Key: "href", Val: k.URL}}
	attrs = append(attrs, r.class(style.ElementLink)...)
	if k.Title != "" {
		attrs = append(attrs, markup.Attr{Key: "title", Val: k.Title})
	}
	if r.opts.OpenLinksInNewTab {
		attrs = append(attrs,
			markup.Attr{Key: "target", Val: "_blank"},
			markup.Attr{Key: "rel", Val: "noopener noreferrer"},
		)
	}
	return markup.Element("a", attrs, r.RenderEvents(inner)...)
}

func (r *Renderer) image(k event.Image, inner []event.Event) *markup.Node {
	attrs := []markup.Attr{
		{Key: "src", Val: k.URL},
		{Key: "alt", Val: ExtractText(inner)},
	}
	if k.Title != "" {
		attrs = append(attrs, markup.Attr{Key: "title", Val: k.Title})
	}
	attrs = append(attrs, r.class(style.ElementImage)...)
	return markup.Element("img", attrs)
}

func (r *Renderer) htmlBlock(inner []event.Event) *markup.Node {
	raw := ExtractText(inner)
	if r.opts.AllowRawHTML {
		return markup.Element("div", nil, markup.Raw(raw))
	}
	return markup.Element("pre", r.class(style.ElementRawHTMLBlock), markup.Text(raw))
}

func (r *Renderer) renderLeaf(ev event.Event) *markup.Node {
	switch e := ev.(type) {
	case event.Text:
		return markup.Text(e.Text)
	case event.Code:
		return markup.Element("code", r.class(style.ElementInlineCode), markup.Text(e.Code))
	case event.InlineHTML:
		if r.opts.AllowRawHTML {
			return markup.Raw(e.HTML)
		}
		return markup.Text(e.HTML)
	case event.SoftBreak:
		return markup.Element("span", nil, markup.Text(" "))
	case event.HardBreak:
		return markup.Element("br", nil)
	case event.Rule:
		return markup.Element("hr", r.class(style.ElementRule))
	case event.FootnoteReference:
		a := markup.Element("a", []markup.Attr{{Key: "href", Val: "#" + e.Label}}, markup.Text(e.Label))
		return markup.Element("sup", r.class(style.ElementFootnoteRef), a)
	case event.TaskMarker:
		attrs := []markup.Attr{{Key: "type", Val: "checkbox"}}
		attrs = append(attrs, r.class(style.ElementCheckbox)...)
		if e.Checked {
			attrs = append(attrs, markup.Attr{Key: "checked", Val: ""})
		}
		attrs = append(attrs, markup.Attr{Key: "disabled", Val: ""})
		return markup.Element("input", attrs)
	case event.InlineMath:
		return markup.Element("span", r.class(style.ElementMathInline), markup.Text(e.Expr))
	case event.DisplayMath:
		return markup.Element("div", r.class(style.ElementMathDisplay), markup.Text(e.Expr))
	default:
		return nil
	}
}

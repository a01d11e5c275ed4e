// Package markdown turns Markdown source into the flat event stream consumed
// by the renderer. Parsing is delegated to goldmark; this package walks the
// resulting AST and emits one Start/End pair per container and one event per
// leaf.
package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdrender/internal/event"
	"git.home.luguber.info/inful/mdrender/internal/frontmatter"
)

// Options controls tokenization.
type Options struct {
	// EnableGFM turns on tables, footnotes, strikethrough and task lists.
	EnableGFM bool
	// MaxBytes rejects larger inputs. Zero means unlimited.
	MaxBytes int
}

// ErrInputTooLarge is returned when the source exceeds Options.MaxBytes.
var ErrInputTooLarge = errors.New("markdown input exceeds size limit")

func newMarkdown(opts Options) goldmark.Markdown {
	exts := []goldmark.Extender{extension.DefinitionList, MathExtension}
	if opts.EnableGFM {
		exts = append(exts,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Footnote,
		)
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}

// Parse parses a Markdown body (frontmatter already removed) into a goldmark
// AST using the same extensions as Tokenize.
func Parse(body []byte, opts Options) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	root := newMarkdown(opts).Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return root, ctx
}

// Tokenize parses source and returns its event stream. Leading YAML or TOML
// frontmatter becomes a MetadataBlock containing the raw frontmatter text; a
// leading fence that does not enclose a mapping is ordinary Markdown.
//
// The only failure is an over-long input.
func Tokenize(source []byte, opts Options) ([]event.Event, error) {
	if opts.MaxBytes > 0 && len(source) > opts.MaxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrInputTooLarge, len(source), opts.MaxBytes)
	}

	block := frontmatter.Split(source)

	var events []event.Event
	if block.Present {
		events = append(events,
			event.Start{Kind: event.MetadataBlock{Format: metadataFormat(block.Format)}},
			event.Text{Text: string(block.Raw)},
			event.End{},
		)
	}

	root, _ := Parse(block.Body, opts)
	w := &walker{source: block.Body, events: events, footnotes: footnoteLabels(root)}
	if err := gmast.Walk(root, w.visit); err != nil {
		return nil, err
	}
	return w.events, nil
}

func metadataFormat(f frontmatter.Format) event.MetadataFormat {
	if f == frontmatter.FormatTOML {
		return event.MetadataTOML
	}
	return event.MetadataYAML
}

// footnoteLabels maps footnote indexes to their reference labels. Footnote
// links only carry the index.
func footnoteLabels(root gmast.Node) map[int]string {
	labels := map[int]string{}
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering {
			labels[fn.Index] = string(fn.Ref)
		}
		return gmast.WalkContinue, nil
	})
	return labels
}

type walker struct {
	source    []byte
	events    []event.Event
	footnotes map[int]string
}

func (w *walker) emit(evs ...event.Event) {
	w.events = append(w.events, evs...)
}

func (w *walker) visit(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if kind, ok := w.container(n); ok {
		if entering {
			w.emit(event.Start{Kind: kind})
		} else {
			w.emit(event.End{})
		}
		return gmast.WalkContinue, nil
	}
	if !entering {
		return gmast.WalkContinue, nil
	}
	return w.leaf(n), nil
}

// container reports the event kind for nodes that map onto a Start/End pair.
func (w *walker) container(n gmast.Node) (event.Kind, bool) {
	switch node := n.(type) {
	case *gmast.Paragraph:
		return event.Paragraph{}, true
	case *gmast.Heading:
		level, ok := event.HeadingLevelOf(node.Level)
		if !ok {
			level = event.H6
		}
		return event.Heading{Level: level}, true
	case *gmast.Blockquote:
		return event.BlockQuote{}, true
	case *gmast.List:
		if node.IsOrdered() {
			start := node.Start
			if start < 0 {
				start = 0
			}
			return event.OrderedList(uint64(start)), true
		}
		return event.BulletList(), true
	case *gmast.ListItem:
		return event.ListItem{}, true
	case *gmast.Emphasis:
		if node.Level >= 2 {
			return event.Strong{}, true
		}
		return event.Emphasis{}, true
	case *gmast.Link:
		return event.Link{URL: string(node.Destination), Title: decodeText(node.Title)}, true
	case *gmast.Image:
		return event.Image{URL: string(node.Destination), Title: decodeText(node.Title)}, true
	case *extast.Strikethrough:
		return event.Strikethrough{}, true
	case *extast.Table:
		return event.Table{}, true
	case *extast.TableHeader:
		return event.TableHead{}, true
	case *extast.TableRow:
		return event.TableRow{}, true
	case *extast.TableCell:
		return event.TableCell{}, true
	case *extast.Footnote:
		return event.FootnoteDefinition{Label: string(node.Ref)}, true
	case *extast.DefinitionList:
		return event.DefinitionList{}, true
	case *extast.DefinitionTerm:
		return event.DefinitionTerm{}, true
	case *extast.DefinitionDescription:
		return event.DefinitionDescription{}, true
	}
	return nil, false
}

// leaf emits the events of a non-container node. Nodes without an event
// representation of their own (the document, text blocks, the footnote list)
// let the walk descend into their children.
func (w *walker) leaf(n gmast.Node) gmast.WalkStatus {
	switch node := n.(type) {
	case *gmast.Text:
		value := node.Segment.Value(w.source)
		if node.IsRaw() {
			w.emit(event.Text{Text: string(value)})
		} else {
			w.emit(event.Text{Text: decodeText(value)})
		}
		switch {
		case node.HardLineBreak():
			w.emit(event.HardBreak{})
		case node.SoftLineBreak():
			w.emit(event.SoftBreak{})
		}
	case *gmast.String:
		w.emit(event.Text{Text: string(node.Value)})
	case *gmast.CodeSpan:
		w.emit(event.Code{Code: w.codeSpanText(node)})
	case *gmast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
		w.emit(event.InlineHTML{HTML: b.String()})
	case *gmast.AutoLink:
		url := string(node.URL(w.source))
		if node.AutoLinkType == gmast.AutoLinkEmail {
			url = "mailto:" + url
		}
		w.emit(
			event.Start{Kind: event.Link{URL: url}},
			event.Text{Text: string(node.Label(w.source))},
			event.End{},
		)
	case *gmast.ThematicBreak:
		w.emit(event.Rule{})
	case *gmast.FencedCodeBlock:
		w.emit(
			event.Start{Kind: event.FencedCode(string(node.Language(w.source)))},
			event.Text{Text: w.lines(node)},
			event.End{},
		)
	case *gmast.CodeBlock:
		w.emit(
			event.Start{Kind: event.IndentedCode()},
			event.Text{Text: w.lines(node)},
			event.End{},
		)
	case *gmast.HTMLBlock:
		w.emit(event.Start{Kind: event.HTMLBlock{}})
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.emit(event.Text{Text: string(seg.Value(w.source))})
		}
		if node.HasClosure() {
			w.emit(event.Text{Text: string(node.ClosureLine.Value(w.source))})
		}
		w.emit(event.End{})
	case *extast.TaskCheckBox:
		w.emit(event.TaskMarker{Checked: node.IsChecked})
	case *extast.FootnoteLink:
		w.emit(event.FootnoteReference{Label: w.footnoteLabel(node.Index)})
	case *extast.FootnoteBacklink:
	case *Math:
		if node.Display {
			w.emit(event.DisplayMath{Expr: string(node.Expr)})
		} else {
			w.emit(event.InlineMath{Expr: string(node.Expr)})
		}
	default:
		return gmast.WalkContinue
	}
	return gmast.WalkSkipChildren
}

func (w *walker) lines(n gmast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.source))
	}
	return b.String()
}

// codeSpanText joins the span's text children. Line endings inside a code
// span read as spaces.
func (w *walker) codeSpanText(n *gmast.CodeSpan) string {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var value []byte
		switch t := c.(type) {
		case *gmast.Text:
			value = t.Segment.Value(w.source)
		case *gmast.String:
			value = t.Value
		default:
			continue
		}
		if bytes.HasSuffix(value, []byte("\n")) {
			b.Write(value[:len(value)-1])
			b.WriteByte(' ')
			continue
		}
		b.Write(value)
	}
	return b.String()
}

func (w *walker) footnoteLabel(index int) string {
	if label, ok := w.footnotes[index]; ok {
		return label
	}
	return fmt.Sprint(index)
}

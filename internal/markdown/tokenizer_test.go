package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdrender/internal/event"
)

var gfm = Options{EnableGFM: true}

func tokenize(t *testing.T, src string, opts Options) []event.Event {
	t.Helper()
	events, err := Tokenize([]byte(src), opts)
	require.NoError(t, err)
	require.True(t, event.Balanced(events), "unbalanced stream:\n%s", event.Dump(events))
	return events
}

func starts(events []event.Event) []event.Kind {
	var out []event.Kind
	for _, ev := range events {
		if s, ok := ev.(event.Start); ok {
			out = append(out, s.Kind)
		}
	}
	return out
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, tokenize(t, "", gfm))
}

func TestTokenize_Heading(t *testing.T) {
	got := tokenize(t, "## Title\n", gfm)
	assert.Equal(t, []event.Event{
		event.Start{Kind: event.Heading{Level: event.H2}},
		event.Text{Text: "Title"},
		event.End{},
	}, got)
}

func TestTokenize_ParagraphWithEmphasis(t *testing.T) {
	got := tokenize(t, "Hello *world* and **bold**\n", gfm)
	assert.Equal(t, event.Start{Kind: event.Paragraph{}}, got[0])
	assert.Contains(t, got, event.Start{Kind: event.Emphasis{}})
	assert.Contains(t, got, event.Start{Kind: event.Strong{}})
	assert.Contains(t, got, event.Text{Text: "world"})
	assert.Contains(t, got, event.Text{Text: "bold"})
}

func TestTokenize_SoftBreak(t *testing.T) {
	got := tokenize(t, "a\nb\n", gfm)
	assert.Equal(t, []event.Event{
		event.Start{Kind: event.Paragraph{}},
		event.Text{Text: "a"},
		event.SoftBreak{},
		event.Text{Text: "b"},
		event.End{},
	}, got)
}

func TestTokenize_CodeBlocks(t *testing.T) {
	got := tokenize(t, "```rust\nfn main() {}\n```\n", gfm)
	assert.Equal(t, []event.Event{
		event.Start{Kind: event.FencedCode("rust")},
		event.Text{Text: "fn main() {}\n"},
		event.End{},
	}, got)

	got = tokenize(t, "```\nplain\n```\n", gfm)
	assert.Equal(t, event.Start{Kind: event.FencedCode("")}, got[0])

	got = tokenize(t, "    x := 1\n", gfm)
	assert.Equal(t, []event.Event{
		event.Start{Kind: event.IndentedCode()},
		event.Text{Text: "x := 1\n"},
		event.End{},
	}, got)
}

func TestTokenize_InlineCode(t *testing.T) {
	got := tokenize(t, "run `go test` now\n", gfm)
	assert.Contains(t, got, event.Code{Code: "go test"})
}

func TestTokenize_Lists(t *testing.T) {
	got := tokenize(t, "3. a\n4. b\n", gfm)
	assert.Equal(t, []event.Event{
		event.Start{Kind: event.OrderedList(3)},
		event.Start{Kind: event.ListItem{}},
		event.Text{Text: "a"},
		event.End{},
		event.Start{Kind: event.ListItem{}},
		event.Text{Text: "b"},
		event.End{},
		event.End{},
	}, got)

	got = tokenize(t, "- x\n", gfm)
	assert.Equal(t, event.Start{Kind: event.BulletList()}, got[0])
}

func TestTokenize_LinksAndImages(t *testing.T) {
	got := tokenize(t, `[docs](/docs "Docs") ![alt text](/i.png)`+"\n", gfm)
	assert.Contains(t, got, event.Start{Kind: event.Link{URL: "/docs", Title: "Docs"}})
	assert.Contains(t, got, event.Start{Kind: event.Image{URL: "/i.png"}})
	assert.Contains(t, got, event.Text{Text: "alt text"})

	got = tokenize(t, "<https://x.test>\n", gfm)
	assert.Equal(t, []event.Event{
		event.Start{Kind: event.Paragraph{}},
		event.Start{Kind: event.Link{URL: "https://x.test"}},
		event.Text{Text: "https://x.test"},
		event.End{},
		event.End{},
	}, got)

	got = tokenize(t, "<me@x.test>\n", gfm)
	assert.Contains(t, got, event.Start{Kind: event.Link{URL: "mailto:me@x.test"}})
}

func TestTokenize_Rule(t *testing.T) {
	got := tokenize(t, "a\n\n***\n\nb\n", gfm)
	assert.Contains(t, got, event.Rule{})
}

func TestTokenize_HTML(t *testing.T) {
	got := tokenize(t, "<div>\nhi\n</div>\n", gfm)
	require.Equal(t, event.Start{Kind: event.HTMLBlock{}}, got[0])
	var b strings.Builder
	for _, ev := range got[1 : len(got)-1] {
		b.WriteString(ev.(event.Text).Text)
	}
	assert.Equal(t, "<div>\nhi\n</div>\n", b.String())

	got = tokenize(t, "a <b>x</b>\n", gfm)
	assert.Contains(t, got, event.InlineHTML{HTML: "<b>"})
	assert.Contains(t, got, event.InlineHTML{HTML: "</b>"})
}

func TestTokenize_GFMToggles(t *testing.T) {
	src := "~~gone~~\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n- [x] done\n- [ ] todo\n\nNote[^n].\n\n[^n]: Footnote body.\n"

	on := tokenize(t, src, gfm)
	kinds := starts(on)
	assert.Contains(t, kinds, event.Kind(event.Strikethrough{}))
	assert.Contains(t, kinds, event.Kind(event.Table{}))
	assert.Contains(t, kinds, event.Kind(event.TableHead{}))
	assert.Contains(t, kinds, event.Kind(event.TableRow{}))
	assert.Contains(t, kinds, event.Kind(event.TableCell{}))
	assert.Contains(t, kinds, event.Kind(event.FootnoteDefinition{Label: "n"}))
	assert.Contains(t, on, event.TaskMarker{Checked: true})
	assert.Contains(t, on, event.TaskMarker{Checked: false})
	assert.Contains(t, on, event.FootnoteReference{Label: "n"})

	off := tokenize(t, src, Options{})
	kinds = starts(off)
	assert.NotContains(t, kinds, event.Kind(event.Strikethrough{}))
	assert.NotContains(t, kinds, event.Kind(event.Table{}))
	assert.NotContains(t, off, event.TaskMarker{Checked: true})
	assert.NotContains(t, off, event.FootnoteReference{Label: "n"})
}

func TestTokenize_DefinitionList(t *testing.T) {
	kinds := starts(tokenize(t, "Term\n: Definition\n", Options{}))
	assert.Contains(t, kinds, event.Kind(event.DefinitionList{}))
	assert.Contains(t, kinds, event.Kind(event.DefinitionTerm{}))
	assert.Contains(t, kinds, event.Kind(event.DefinitionDescription{}))
}

func TestTokenize_Math(t *testing.T) {
	got := tokenize(t, `Euler $e^{i\pi}$ and $$x^2$$`+"\n", gfm)
	assert.Contains(t, got, event.InlineMath{Expr: `e^{i\pi}`})
	assert.Contains(t, got, event.DisplayMath{Expr: "x^2"})

	got = tokenize(t, "costs $5 and $6\n", gfm)
	for _, ev := range got {
		_, isMath := ev.(event.InlineMath)
		assert.False(t, isMath, "unexpected math in %s", event.Dump(got))
	}
}

func TestTokenize_Frontmatter(t *testing.T) {
	got := tokenize(t, "---\ntitle: T\n---\n# H\n", gfm)
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, []event.Event{
		event.Start{Kind: event.MetadataBlock{Format: event.MetadataYAML}},
		event.Text{Text: "title: T\n"},
		event.End{},
	}, got[:3])
	assert.Equal(t, event.Start{Kind: event.Heading{Level: event.H1}}, got[3])

	got = tokenize(t, "+++\ntitle = \"T\"\n+++\nbody\n", gfm)
	assert.Equal(t, event.Start{Kind: event.MetadataBlock{Format: event.MetadataTOML}}, got[0])
}

func TestTokenize_LeadingFenceWithoutMapping(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []event.Event
	}{
		{
			name: "thematic break then paragraph",
			src:  "---\nHello world\n",
			want: []event.Event{
				event.Rule{},
				event.Start{Kind: event.Paragraph{}},
				event.Text{Text: "Hello world"},
				event.End{},
			},
		},
		{
			name: "heading between rules",
			src:  "---\n\n# Title\n\n---\n\nBody\n",
			want: []event.Event{
				event.Rule{},
				event.Start{Kind: event.Heading{Level: event.H1}},
				event.Text{Text: "Title"},
				event.End{},
				event.Rule{},
				event.Start{Kind: event.Paragraph{}},
				event.Text{Text: "Body"},
				event.End{},
			},
		},
		{
			name: "unclosed mapping",
			src:  "---\ntitle: T\n\n# never closed\n",
			want: []event.Event{
				event.Rule{},
				event.Start{Kind: event.Paragraph{}},
				event.Text{Text: "title: T"},
				event.End{},
				event.Start{Kind: event.Heading{Level: event.H1}},
				event.Text{Text: "never closed"},
				event.End{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(t, tt.src, gfm))
		})
	}
}

func TestTokenize_EscapesAndReferences(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"backslash escapes", `\*not emphasis\*`, "*not emphasis*"},
		{"named entities", "Tom &amp; Jerry &copy; 2024", "Tom & Jerry \u00a9 2024"},
		{"numeric references", "&#35; &#x41; &#0;", "# A \uFFFD"},
		{"escaped ampersand stays literal", `\&amp;`, "&amp;"},
		{"unknown entity kept", "&bogus; & x", "&bogus; & x"},
		{"backslash before letter kept", `a\b`, `a\b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(t, tt.src+"\n", gfm)
			var b strings.Builder
			for _, ev := range got {
				if text, ok := ev.(event.Text); ok {
					b.WriteString(text.Text)
				}
			}
			assert.Equal(t, tt.want, b.String())
			assert.NotContains(t, got, event.Start{Kind: event.Emphasis{}})
		})
	}
}

func TestTokenize_LinkTitleReferences(t *testing.T) {
	got := tokenize(t, `[a](/a "x &amp; y") ![b](/b "\"q\"")`+"\n", gfm)
	assert.Contains(t, got, event.Start{Kind: event.Link{URL: "/a", Title: "x & y"}})
	assert.Contains(t, got, event.Start{Kind: event.Image{URL: "/b", Title: `"q"`}})
}

func TestTokenize_CodeIsNotDecoded(t *testing.T) {
	got := tokenize(t, "`&amp; \\*`\n\n```\n&copy; \\*\n```\n", gfm)
	assert.Contains(t, got, event.Code{Code: `&amp; \*`})
	assert.Contains(t, got, event.Text{Text: "&copy; \\*\n"})
}

func TestTokenize_Failures(t *testing.T) {
	_, err := Tokenize([]byte("0123456789"), Options{MaxBytes: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputTooLarge))

	_, err = Tokenize([]byte("0123"), Options{MaxBytes: 4})
	require.NoError(t, err)
}

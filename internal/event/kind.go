package event

import (
	"fmt"
	"strconv"
)

// Kind is a container element category. The set of kinds is closed: only the
// types declared in this file implement it.
type Kind interface {
	isKind()
	fmt.Stringer
}

// HeadingLevel is one of H1..H6. Levels outside that range cannot be
// constructed; the zero value behaves as H1.
type HeadingLevel struct {
	n uint8
}

var (
	H1 = HeadingLevel{1}
	H2 = HeadingLevel{2}
	H3 = HeadingLevel{3}
	H4 = HeadingLevel{4}
	H5 = HeadingLevel{5}
	H6 = HeadingLevel{6}
)

// HeadingLevelOf converts a numeric level. ok is false outside 1..6.
func HeadingLevelOf(n int) (HeadingLevel, bool) {
	if n < 1 || n > 6 {
		return HeadingLevel{}, false
	}
	return HeadingLevel{uint8(n)}, true
}

// Level returns the numeric level in 1..6.
func (l HeadingLevel) Level() int {
	if l.n == 0 {
		return 1
	}
	return int(l.n)
}

// Tag returns the HTML tag name for the level.
func (l HeadingLevel) Tag() string {
	return "h" + strconv.Itoa(l.Level())
}

// MetadataFormat identifies the syntax of a metadata block.
type MetadataFormat string

const (
	MetadataYAML MetadataFormat = "yaml"
	MetadataTOML MetadataFormat = "toml"
)

type (
	Paragraph  struct{}
	BlockQuote struct{}
	ListItem   struct{}

	Emphasis      struct{}
	Strong        struct{}
	Strikethrough struct{}

	Table     struct{}
	TableHead struct{}
	TableRow  struct{}
	TableCell struct{}

	HTMLBlock struct{}

	DefinitionList        struct{}
	DefinitionTerm        struct{}
	DefinitionDescription struct{}

	Superscript struct{}
	Subscript   struct{}
)

// Heading is an ATX or setext heading.
type Heading struct {
	Level HeadingLevel
}

// CodeBlock is an indented (Fenced == false) or fenced code block. Language
// is the first word of the fence info string and may be empty.
type CodeBlock struct {
	Fenced   bool
	Language string
}

// IndentedCode returns the kind of an indented code block.
func IndentedCode() CodeBlock { return CodeBlock{} }

// FencedCode returns the kind of a fenced code block with the given language.
func FencedCode(lang string) CodeBlock { return CodeBlock{Fenced: true, Language: lang} }

// List is an ordered list starting at Start, or a bullet list.
type List struct {
	Ordered bool
	Start   uint64
}

// OrderedList returns the kind of an ordered list starting at n.
func OrderedList(n uint64) List { return List{Ordered: true, Start: n} }

// BulletList returns the kind of an unordered list.
func BulletList() List { return List{} }

type Link struct {
	URL   string
	Title string
}

type Image struct {
	URL   string
	Title string
}

// FootnoteDefinition holds the body of the footnote named Label.
type FootnoteDefinition struct {
	Label string
}

// MetadataBlock is document metadata such as YAML frontmatter. It never
// produces output.
type MetadataBlock struct {
	Format MetadataFormat
}

func (Paragraph) isKind()             {}
func (Heading) isKind()               {}
func (BlockQuote) isKind()            {}
func (CodeBlock) isKind()             {}
func (List) isKind()                  {}
func (ListItem) isKind()              {}
func (Emphasis) isKind()              {}
func (Strong) isKind()                {}
func (Strikethrough) isKind()         {}
func (Link) isKind()                  {}
func (Image) isKind()                 {}
func (Table) isKind()                 {}
func (TableHead) isKind()             {}
func (TableRow) isKind()              {}
func (TableCell) isKind()             {}
func (FootnoteDefinition) isKind()    {}
func (HTMLBlock) isKind()             {}
func (DefinitionList) isKind()        {}
func (DefinitionTerm) isKind()        {}
func (DefinitionDescription) isKind() {}
func (Superscript) isKind()           {}
func (Subscript) isKind()             {}
func (MetadataBlock) isKind()         {}

func (Paragraph) String() string  { return "Paragraph" }
func (k Heading) String() string  { return "Heading(" + strconv.Itoa(k.Level.Level()) + ")" }
func (BlockQuote) String() string { return "BlockQuote" }

func (k CodeBlock) String() string {
	if !k.Fenced {
		return "CodeBlock(Indented)"
	}
	return fmt.Sprintf("CodeBlock(Fenced(%q))", k.Language)
}

func (k List) String() string {
	if !k.Ordered {
		return "List(None)"
	}
	return "List(" + strconv.FormatUint(k.Start, 10) + ")"
}

func (ListItem) String() string      { return "ListItem" }
func (Emphasis) String() string      { return "Emphasis" }
func (Strong) String() string        { return "Strong" }
func (Strikethrough) String() string { return "Strikethrough" }

func (k Link) String() string  { return fmt.Sprintf("Link(%q, %q)", k.URL, k.Title) }
func (k Image) String() string { return fmt.Sprintf("Image(%q, %q)", k.URL, k.Title) }

func (Table) String() string     { return "Table" }
func (TableHead) String() string { return "TableHead" }
func (TableRow) String() string  { return "TableRow" }
func (TableCell) String() string { return "TableCell" }

func (k FootnoteDefinition) String() string { return fmt.Sprintf("FootnoteDefinition(%q)", k.Label) }

func (HTMLBlock) String() string             { return "HtmlBlock" }
func (DefinitionList) String() string        { return "DefinitionList" }
func (DefinitionTerm) String() string        { return "DefinitionTerm" }
func (DefinitionDescription) String() string { return "DefinitionDescription" }
func (Superscript) String() string           { return "Superscript" }
func (Subscript) String() string             { return "Subscript" }

func (k MetadataBlock) String() string { return "MetadataBlock(" + string(k.Format) + ")" }

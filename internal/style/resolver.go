// Package style maps markup elements to CSS class tokens.
//
// All lookups are pure: the same element and styling mode always produce the
// same token. Explicit mode yields Tailwind utility classes; otherwise a short
// semantic marker class (possibly empty) is returned and styling is left to
// the surrounding prose stylesheet.
package style

// Element identifies a styled element or leaf.
type Element int

const (
	ElementUnknown Element = iota
	ElementH1
	ElementH2
	ElementH3
	ElementH4
	ElementH5
	ElementH6
	ElementParagraph
	ElementBlockquote
	ElementInlineCode
	ElementCodeBlock
	ElementCodeBlockCode
	ElementUnorderedList
	ElementOrderedList
	ElementListItem
	ElementLink
	ElementImage
	ElementTable
	ElementTableHead
	ElementTableRow
	ElementTableCell
	// ElementTableHeader is not emitted by the renderer, which writes every
	// cell as td; the token completes the table class set for callers.
	ElementTableHeader
	ElementRule
	ElementCheckbox
	ElementMathInline
	ElementMathDisplay
	ElementDefinitionList
	ElementDefinitionTerm
	ElementDefinitionDescription
	ElementSuperscript
	ElementSubscript
	ElementEmphasis
	ElementStrong
	ElementStrikethrough
	ElementFootnoteRef
	ElementFootnoteDefinition
	ElementRawHTMLBlock
	// ElementInlineHTML is not emitted by the renderer, which passes inline
	// HTML through or escapes it as text; the token is for callers that
	// highlight raw HTML themselves.
	ElementInlineHTML
)

type classPair struct {
	explicit string
	marker   string
}

var classes = map[Element]classPair{
	ElementH1:                    {H1, ""},
	ElementH2:                    {H2, ""},
	ElementH3:                    {H3, ""},
	ElementH4:                    {H4, ""},
	ElementH5:                    {H5, ""},
	ElementH6:                    {H6, ""},
	ElementParagraph:             {Paragraph, ""},
	ElementBlockquote:            {Blockquote, "markdown-blockquote"},
	ElementInlineCode:            {InlineCode, "inline-code"},
	ElementCodeBlock:             {CodeBlock, "markdown-code-block"},
	ElementCodeBlockCode:         {CodeBlockCode, ""},
	ElementUnorderedList:         {UL, ""},
	ElementOrderedList:           {OL, ""},
	ElementListItem:              {LI, ""},
	ElementLink:                  {Link, ""},
	ElementImage:                 {Image, "markdown-image"},
	ElementTable:                 {Table, "markdown-table"},
	ElementTableHead:             {THead, ""},
	ElementTableRow:              {TR, ""},
	ElementTableCell:             {TD, ""},
	ElementTableHeader:           {TH, ""},
	ElementRule:                  {HR, "markdown-hr"},
	ElementCheckbox:              {Checkbox, ""},
	ElementMathInline:            {MathInline, "math math-inline"},
	ElementMathDisplay:           {MathDisplay, "math math-display"},
	ElementDefinitionList:        {DL, ""},
	ElementDefinitionTerm:        {DT, ""},
	ElementDefinitionDescription: {DD, ""},
	ElementSuperscript:           {Sup, ""},
	ElementSubscript:             {Sub, ""},
	ElementEmphasis:              {Em, ""},
	ElementStrong:                {Strong, ""},
	ElementStrikethrough:         {Del, ""},
	ElementFootnoteRef:           {FootnoteRef, "footnote-ref"},
	ElementFootnoteDefinition:    {FootnoteDef, "footnote-definition"},
	ElementRawHTMLBlock:          {RawHTMLBlock, "raw-html-block"},
	ElementInlineHTML:            {InlineHTML, "raw-html"},
}

// For returns the class token for el. Unknown elements yield "".
func For(el Element, explicit bool) string {
	c, ok := classes[el]
	if !ok {
		return ""
	}
	if explicit {
		return c.explicit
	}
	return c.marker
}

// HeadingElement returns the element for heading level n, clamped to 1..6.
func HeadingElement(n int) Element {
	switch {
	case n <= 1:
		return ElementH1
	case n >= 6:
		return ElementH6
	default:
		return ElementH1 + Element(n-1)
	}
}

// ProseClasses returns the wrapper token applied around rendered documents.
func ProseClasses() string { return proseClasses }

// ErrorBoxClasses returns the token of the box shown when rendering fails.
func ErrorBoxClasses() string { return errorBoxClasses }

// Join concatenates non-empty class tokens with single spaces.
func Join(tokens ...string) string {
	out := ""
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += t
	}
	return out
}

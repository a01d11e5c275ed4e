// Package event defines the flat parse-event stream produced by the Markdown
// tokenizer and consumed by the renderer.
//
// Both Event and Kind are closed sum types: the interfaces carry an
// unexported marker method, so exhaustive type switches over the variants
// declared here cover every possible value.
package event

import (
	"fmt"
	"strings"
)

// Event is one unit of the linear parse stream.
type Event interface {
	isEvent()
	fmt.Stringer
}

// Start opens a container of the given kind. It is closed by the End at the
// same nesting depth.
type Start struct {
	Kind Kind
}

// End closes the most recently opened container.
type End struct{}

// Text is literal text content.
type Text struct {
	Text string
}

// Code is an inline code span.
type Code struct {
	Code string
}

// InlineHTML is a fragment of raw inline HTML.
type InlineHTML struct {
	HTML string
}

type (
	SoftBreak struct{}
	HardBreak struct{}
	// Rule is a thematic break.
	Rule struct{}
)

// FootnoteReference points at the footnote definition named Label.
type FootnoteReference struct {
	Label string
}

// TaskMarker is the checkbox of a task list item.
type TaskMarker struct {
	Checked bool
}

type InlineMath struct {
	Expr string
}

type DisplayMath struct {
	Expr string
}

func (Start) isEvent()             {}
func (End) isEvent()               {}
func (Text) isEvent()              {}
func (Code) isEvent()              {}
func (InlineHTML) isEvent()        {}
func (SoftBreak) isEvent()         {}
func (HardBreak) isEvent()         {}
func (Rule) isEvent()              {}
func (FootnoteReference) isEvent() {}
func (TaskMarker) isEvent()        {}
func (InlineMath) isEvent()        {}
func (DisplayMath) isEvent()       {}

func (e Start) String() string {
	if e.Kind == nil {
		return "Start(<nil>)"
	}
	return "Start(" + e.Kind.String() + ")"
}

func (End) String() string                   { return "End" }
func (e Text) String() string                { return fmt.Sprintf("Text(%q)", e.Text) }
func (e Code) String() string                { return fmt.Sprintf("Code(%q)", e.Code) }
func (e InlineHTML) String() string          { return fmt.Sprintf("InlineHtml(%q)", e.HTML) }
func (SoftBreak) String() string             { return "SoftBreak" }
func (HardBreak) String() string             { return "HardBreak" }
func (Rule) String() string                  { return "Rule" }
func (e FootnoteReference) String() string   { return fmt.Sprintf("FootnoteReference(%q)", e.Label) }
func (e TaskMarker) String() string          { return fmt.Sprintf("TaskMarker(%t)", e.Checked) }
func (e InlineMath) String() string          { return fmt.Sprintf("InlineMath(%q)", e.Expr) }
func (e DisplayMath) String() string         { return fmt.Sprintf("DisplayMath(%q)", e.Expr) }

// Dump writes one event per line, indented by nesting depth. Unbalanced End
// events are printed at depth zero.
func Dump(events []Event) string {
	var b strings.Builder
	depth := 0
	for _, ev := range events {
		if _, ok := ev.(End); ok && depth > 0 {
			depth--
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(ev.String())
		b.WriteByte('\n')
		if _, ok := ev.(Start); ok {
			depth++
		}
	}
	return b.String()
}

// Balanced reports whether every Start is closed by an End and no End
// appears without an open Start.
func Balanced(events []Event) bool {
	depth := 0
	for _, ev := range events {
		switch ev.(type) {
		case Start:
			depth++
		case End:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

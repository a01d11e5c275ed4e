package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the node kind of a math span.
var KindMath = gmast.NewNodeKind("Math")

// Math is an inline ($...$) or display ($$...$$) math span.
type Math struct {
	gmast.BaseInline
	Display bool
	Expr    []byte
}

func (n *Math) Kind() gmast.NodeKind { return KindMath }

func (n *Math) Dump(source []byte, level int) {
	display := "false"
	if n.Display {
		display = "true"
	}
	gmast.DumpHelper(n, source, level, map[string]string{
		"Display": display,
		"Expr":    string(n.Expr),
	}, nil)
}

type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathParser) Parse(_ gmast.Node, block text.Reader, _ parser.Context) gmast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '$' {
		return nil
	}

	display := line[1] == '$'
	width := 1
	if display {
		width = 2
	}
	delim := line[:width]
	rest := line[width:]

	end := bytes.Index(rest, delim)
	if end <= 0 {
		return nil
	}
	expr := rest[:end]
	// "$5 and $6" is prose, not math.
	if !display && (expr[0] == ' ' || expr[len(expr)-1] == ' ') {
		return nil
	}
	if display && end+width < len(rest) && rest[end+width] == '$' {
		return nil
	}

	block.Advance(width + end + width)
	return &Math{Display: display, Expr: bytes.Clone(expr)}
}

type mathExtension struct{}

// MathExtension enables $...$ and $$...$$ math spans.
var MathExtension goldmark.Extender = mathExtension{}

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 150),
	))
}

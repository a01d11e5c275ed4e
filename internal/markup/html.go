package markup

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML serializes the fragment as HTML5.
func RenderHTML(w io.Writer, frag Fragment) error {
	for _, n := range frag {
		if err := html.Render(w, toHTML(n)); err != nil {
			return err
		}
	}
	return nil
}

// HTML serializes the fragment to a string. Serialization errors, which only
// arise for void elements given children, yield the output produced so far.
func HTML(frag Fragment) string {
	var buf bytes.Buffer
	_ = RenderHTML(&buf, frag)
	return buf.String()
}

// ToHTMLNodes converts the fragment into detached x/net/html nodes.
func ToHTMLNodes(frag Fragment) []*html.Node {
	out := make([]*html.Node, 0, len(frag))
	for _, n := range frag {
		out = append(out, toHTML(n))
	}
	return out
}

func toHTML(n *Node) *html.Node {
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case RawNode:
		return &html.Node{Type: html.RawNode, Data: n.Data}
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	if len(n.Attrs) > 0 {
		el.Attr = make([]html.Attribute, 0, len(n.Attrs))
		for _, a := range n.Attrs {
			el.Attr = append(el.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		el.AppendChild(toHTML(c))
	}
	return el
}

// Package markup holds the output tree produced by the renderer.
//
// A Fragment is an ordered list of nodes. Element nodes carry a tag,
// attributes and children; Text leaves are escaped when serialized and Raw
// leaves are written verbatim. Trees are built bottom-up and treated as
// immutable once returned.
package markup

import "strings"

// NodeType distinguishes element, text and raw nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	RawNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case RawNode:
		return "raw"
	default:
		return "unknown"
	}
}

// Attr is a single attribute. Attributes keep insertion order.
type Attr struct {
	Key string
	Val string
}

// Node is one markup node.
type Node struct {
	Type     NodeType
	Tag      string
	Attrs    []Attr
	Children []*Node
	// Data is the content of Text and Raw leaves.
	Data string
}

// Fragment is an ordered sequence of sibling nodes.
type Fragment []*Node

// Element builds an element node.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs, Children: children}
}

// Text builds an escaped text leaf.
func Text(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

// Raw builds a leaf whose content is emitted without escaping.
func Raw(s string) *Node {
	return &Node{Type: RawNode, Data: s}
}

// AttrValue returns the value of key and whether it is present.
func (n *Node) AttrValue(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether key is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.AttrValue(key)
	return ok
}

// TextContent concatenates the Text and Raw leaves below n in document order.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Type {
	case TextNode, RawNode:
		b.WriteString(n.Data)
	case ElementNode:
		for _, c := range n.Children {
			c.appendText(b)
		}
	}
}

// Find returns the first element with the given tag in depth-first order,
// starting with n itself.
func (n *Node) Find(tag string) *Node {
	if n == nil {
		return nil
	}
	if n.Type == ElementNode && n.Tag == tag {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element with the given tag in depth-first order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	n.walk(func(m *Node) {
		if m.Type == ElementNode && m.Tag == tag {
			out = append(out, m)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// TextContent concatenates the text of every node in the fragment.
func (f Fragment) TextContent() string {
	var b strings.Builder
	for _, n := range f {
		n.appendText(&b)
	}
	return b.String()
}

// Find returns the first element with the given tag across the fragment.
func (f Fragment) Find(tag string) *Node {
	for _, n := range f {
		if found := n.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element with the given tag across the fragment.
func (f Fragment) FindAll(tag string) []*Node {
	var out []*Node
	for _, n := range f {
		out = append(out, n.FindAll(tag)...)
	}
	return out
}

// Count returns the number of nodes in the fragment, including descendants.
func (f Fragment) Count() int {
	total := 0
	for _, n := range f {
		n.walk(func(*Node) { total++ })
	}
	return total
}

package document

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/mdrender/internal/markup"
)

// TailwindScript is the script loaded by standalone pages so the emitted
// utility classes take effect without a build step.
const TailwindScript = "https://cdn.tailwindcss.com?plugins=typography"

// WritePage writes a complete HTML document around frag.
func WritePage(w io.Writer, title string, frag markup.Fragment) error {
	head := element(atom.Head,
		elementAttrs(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
		elementAttrs(atom.Meta, []html.Attribute{
			{Key: "name", Val: "viewport"},
			{Key: "content", Val: "width=device-width, initial-scale=1"},
		}),
		element(atom.Title, &html.Node{Type: html.TextNode, Data: title}),
		elementAttrs(atom.Script, []html.Attribute{{Key: "src", Val: TailwindScript}}),
	)

	main := elementAttrs(atom.Main, []html.Attribute{{Key: "class", Val: "mx-auto max-w-3xl px-4 py-8"}},
		markup.ToHTMLNodes(frag)...)
	body := elementAttrs(atom.Body, []html.Attribute{{Key: "class", Val: "bg-white dark:bg-gray-950"}}, main)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(elementAttrs(atom.Html, []html.Attribute{{Key: "lang", Val: "en"}}, head, body))
	return html.Render(w, doc)
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	return elementAttrs(a, nil, children...)
}

func elementAttrs(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

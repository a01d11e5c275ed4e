package commands

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/mdrender/internal/markdown"
)

// LinksCmd lists link destinations found in a document.
type LinksCmd struct {
	File string `arg:"" optional:"" help:"Markdown file ('-' or omitted reads stdin)"`
	JSON bool   `name:"json" help:"Print links as JSON"`
}

type linkOutput struct {
	Kind        markdown.LinkKind `json:"kind"`
	Destination string            `json:"destination"`
}

func (l *LinksCmd) Run(g *Global, cli *CLI) error {
	cfg, logger, err := cli.load(g)
	if err != nil {
		return err
	}
	name, source, err := readSource(g, l.File)
	if err != nil {
		return err
	}
	res := newConverter(cfg, logger).ConvertNamed(name, source)
	if res.Err != nil {
		return res.Err
	}

	if l.JSON {
		out := make([]linkOutput, 0, len(res.Links))
		for _, link := range res.Links {
			out = append(out, linkOutput{Kind: link.Kind, Destination: link.Destination})
		}
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, link := range res.Links {
		if _, err := fmt.Fprintf(g.Stdout, "%s\t%s\n", link.Kind, link.Destination); err != nil {
			return err
		}
	}
	return nil
}

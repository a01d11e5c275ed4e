package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mdrender/internal/event"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// EventsCmd prints the event stream the renderer consumes.
type EventsCmd struct {
	File  string `arg:"" optional:"" help:"Markdown file ('-' or omitted reads stdin)"`
	NoGFM bool   `name:"no-gfm" help:"Disable GFM extensions"`
}

func (e *EventsCmd) Run(g *Global, cli *CLI) error {
	cfg, _, err := cli.load(g)
	if err != nil {
		return err
	}
	opts := cfg.RenderOptions()
	if e.NoGFM {
		opts = opts.WithGFM(false)
	}

	_, source, err := readSource(g, e.File)
	if err != nil {
		return err
	}
	events, err := render.New(opts, render.WithMaxInputBytes(cfg.Render.MaxInputBytes)).Tokenize(source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.Stdout, event.Dump(events))
	return err
}

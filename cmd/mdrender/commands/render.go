package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/document"
	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/markup"
)

// RenderCmd renders one document.
type RenderCmd struct {
	File       string `arg:"" optional:"" help:"Markdown file to render ('-' or omitted reads stdin)"`
	Output     string `short:"o" help:"Write output to this file instead of stdout"`
	Standalone bool   `short:"s" help:"Wrap the fragment in a complete HTML page"`
	Title      string `help:"Page title for --standalone (defaults to the frontmatter title)"`

	RenderFlags `embed:""`
}

func (r *RenderCmd) Run(g *Global, cli *CLI) error {
	cfg, logger, err := cli.load(g)
	if err != nil {
		return err
	}
	if err := r.apply(cfg); err != nil {
		return err
	}

	name, source, err := readSource(g, r.File)
	if err != nil {
		return err
	}
	res := newConverter(cfg, logger).ConvertNamed(name, source)
	if res.Err != nil {
		return res.Err
	}

	var buf bytes.Buffer
	if r.Standalone {
		title := r.Title
		if title == "" {
			title = res.Title(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
		}
		err = document.WritePage(&buf, title, res.Fragment)
	} else {
		err = markup.RenderHTML(&buf, res.Fragment)
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to serialize markup").Build()
	}
	buf.WriteByte('\n')

	return writeOutput(g.Stdout, r.Output, buf.Bytes())
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").
			WithContext("path", path).
			Build()
	}
	return nil
}

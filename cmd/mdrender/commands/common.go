package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdrender/internal/config"
	"git.home.luguber.info/inful/mdrender/internal/document"
	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/style"
)

// Global carries the process streams so commands can be exercised in tests.
type Global struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal returns a Global bound to the process streams.
func NewGlobal() *Global {
	return &Global{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults apply when empty)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render a markdown file to styled HTML"`
	Events EventsCmd `cmd:"" help:"Print the flat event stream of a markdown file"`
	Links  LinksCmd  `cmd:"" help:"List the links of a markdown file"`
	Serve  ServeCmd  `cmd:"" help:"Serve a docs directory as rendered pages"`
	Themes ThemesCmd `cmd:"" help:"List code block theme presets"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// load reads the configuration and installs the configured logger.
func (c *CLI) load(g *Global) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, nil, err
	}
	stderr := g.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := config.NewLogger(stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// RenderFlags override the render section of the configuration.
type RenderFlags struct {
	Theme             string `name:"theme" help:"Code block theme (none, default, dark, light, github, monokai)"`
	NoGFM             bool   `name:"no-gfm" help:"Disable tables, footnotes, strikethrough and task lists"`
	Explicit          bool   `name:"explicit" help:"Emit explicit utility classes on every element"`
	NoLanguageClasses bool   `name:"no-language-classes" help:"Omit language-* classes on code blocks"`
	SameTab           bool   `name:"same-tab" help:"Do not open links in a new tab"`
	EscapeHTML        bool   `name:"escape-html" help:"Escape raw HTML instead of passing it through"`
	Class             string `name:"class" help:"Extra class for the prose wrapper"`
	MaxBytes          int    `name:"max-bytes" help:"Reject inputs larger than this many bytes"`
}

// apply merges the flags into cfg.
func (f RenderFlags) apply(cfg *config.Config) error {
	if f.Theme != "" {
		theme, err := style.ParseTheme(f.Theme)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid --theme").
				WithContext("theme", f.Theme).
				UserAction().
				Build()
		}
		cfg.Render.CodeTheme = theme.String()
	}
	if f.NoGFM {
		cfg.Render.EnableGFM = false
	}
	if f.Explicit {
		cfg.Render.ExplicitStyling = true
	}
	if f.NoLanguageClasses {
		cfg.Render.LanguageClasses = false
	}
	if f.SameTab {
		cfg.Render.OpenLinksInNewTab = false
	}
	if f.EscapeHTML {
		cfg.Render.AllowRawHTML = false
	}
	if f.Class != "" {
		cfg.Render.WrapperClass = f.Class
	}
	if f.MaxBytes > 0 {
		cfg.Render.MaxInputBytes = f.MaxBytes
	}
	return nil
}

func newConverter(cfg *config.Config, logger *slog.Logger) *document.Converter {
	return document.NewConverter(cfg.RenderOptions(),
		document.WithClass(cfg.Render.WrapperClass),
		document.WithMaxInputBytes(cfg.Render.MaxInputBytes),
		document.WithLogger(logger))
}

// readSource reads path, or stdin when path is empty or "-".
func readSource(g *Global, path string) (string, []byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(g.Stdin)
		if err != nil {
			return "", nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read stdin").Build()
		}
		return "stdin", data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil, ferrors.NotFoundError("markdown file not found").WithContext("path", path).Build()
	}
	if err != nil {
		return "", nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read markdown file").
			WithContext("path", path).
			Build()
	}
	return path, data, nil
}

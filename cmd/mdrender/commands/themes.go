package commands

import (
	"fmt"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/mdrender/internal/style"
)

// ThemesCmd lists the code block theme presets and their class tokens.
type ThemesCmd struct{}

func (t *ThemesCmd) Run(g *Global) error {
	title := cases.Title(language.English)
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "NAME\tDISPLAY\tCLASSES"); err != nil {
		return err
	}
	for _, theme := range style.Themes() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", theme, title.String(theme.String()), style.ThemeStyle(theme)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

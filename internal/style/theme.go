package style

import (
	"git.home.luguber.info/inful/mdrender/internal/foundation/normalization"
)

// Theme is a code block theme preset. ThemeNone disables theme styling.
type Theme string

const (
	ThemeNone    Theme = ""
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeLight   Theme = "light"
	ThemeGitHub  Theme = "github"
	ThemeMonokai Theme = "monokai"
)

var themeNormalizer = normalization.NewEnumNormalizer("code theme", map[string]Theme{
	"none":    ThemeNone,
	"off":     ThemeNone,
	"default": ThemeDefault,
	"dark":    ThemeDark,
	"light":   ThemeLight,
	"github":  ThemeGitHub,
	"gh":      ThemeGitHub,
	"monokai": ThemeMonokai,
}, ThemeNone)

// Themes returns the presets in display order.
func Themes() []Theme {
	return []Theme{ThemeDefault, ThemeDark, ThemeLight, ThemeGitHub, ThemeMonokai}
}

// ParseTheme normalizes a user supplied theme name. The empty string yields
// ThemeNone.
func ParseTheme(raw string) (Theme, error) {
	if raw == "" {
		return ThemeNone, nil
	}
	return themeNormalizer.Parse(raw)
}

// ThemeNames lists accepted spellings for help output.
func ThemeNames() []string {
	return themeNormalizer.Names()
}

// ThemeStyle returns the class bundle for a preset, or "" for ThemeNone and
// unknown values.
func ThemeStyle(t Theme) string {
	switch t {
	case ThemeDefault:
		return ThemeDefaultClasses
	case ThemeDark:
		return ThemeDarkClasses
	case ThemeLight:
		return ThemeLightClasses
	case ThemeGitHub:
		return ThemeGitHubClasses
	case ThemeMonokai:
		return ThemeMonokaiClasses
	default:
		return ""
	}
}

func (t Theme) String() string {
	if t == ThemeNone {
		return "none"
	}
	return string(t)
}

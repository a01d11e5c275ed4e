package render

import "git.home.luguber.info/inful/mdrender/internal/style"

// Options controls how events are turned into markup. All fields are
// independent. The zero value disables every feature.
type Options struct {
	// EnableGFM turns on tables, footnotes, strikethrough and task lists in
	// the tokenizer.
	EnableGFM bool
	// CodeTheme appends a theme token to code blocks. ThemeNone disables it.
	CodeTheme style.Theme
	// LanguageClasses attaches language-<lang> tokens to code blocks.
	LanguageClasses bool
	// OpenLinksInNewTab adds target="_blank" and rel="noopener noreferrer".
	OpenLinksInNewTab bool
	// AllowRawHTML injects HTML blocks and inline HTML unescaped.
	AllowRawHTML bool
	// ExplicitStyling attaches utility classes to every element instead of
	// relying on the prose wrapper.
	ExplicitStyling bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		EnableGFM:         true,
		CodeTheme:         style.ThemeDefault,
		LanguageClasses:   true,
		OpenLinksInNewTab: true,
		AllowRawHTML:      true,
		ExplicitStyling:   false,
	}
}

// WithGFM returns a copy with GFM extensions switched on or off.
func (o Options) WithGFM(enabled bool) Options {
	o.EnableGFM = enabled
	return o
}

// WithCodeTheme returns a copy using theme t for code blocks.
func (o Options) WithCodeTheme(t style.Theme) Options {
	o.CodeTheme = t
	return o
}

// WithoutCodeTheme returns a copy without code block theme classes.
func (o Options) WithoutCodeTheme() Options {
	o.CodeTheme = style.ThemeNone
	return o
}

// WithLanguageClasses returns a copy that does or does not emit
// language-* classes on code blocks.
func (o Options) WithLanguageClasses(enabled bool) Options {
	o.LanguageClasses = enabled
	return o
}

// WithNewTabLinks returns a copy whose links do or do not open in a new tab.
func (o Options) WithNewTabLinks(enabled bool) Options {
	o.OpenLinksInNewTab = enabled
	return o
}

// WithRawHTML returns a copy that passes raw HTML through when enabled and
// escapes it otherwise.
func (o Options) WithRawHTML(enabled bool) Options {
	o.AllowRawHTML = enabled
	return o
}

// WithExplicitStyling returns a copy that emits full utility classes instead
// of semantic markers.
func (o Options) WithExplicitStyling(enabled bool) Options {
	o.ExplicitStyling = enabled
	return o
}

// Key returns a stable string identifying the options, suitable as part of a
// cache key.
func (o Options) Key() string {
	flag := func(b bool) byte {
		if b {
			return '1'
		}
		return '0'
	}
	return string([]byte{
		flag(o.EnableGFM),
		flag(o.LanguageClasses),
		flag(o.OpenLinksInNewTab),
		flag(o.AllowRawHTML),
		flag(o.ExplicitStyling),
	}) + ":" + o.CodeTheme.String()
}

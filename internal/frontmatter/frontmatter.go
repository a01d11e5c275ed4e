// Package frontmatter separates document metadata from the Markdown body.
//
// YAML frontmatter is delimited by `---` lines and TOML frontmatter by `+++`
// lines. Both must open on the first line of the document and hold a
// mapping; other fenced text belongs to the Markdown body.
package frontmatter

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a frontmatter block.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Style captures the newline convention used when serializing fields.
type Style struct {
	Newline string
}

// Block is the result of splitting a document.
type Block struct {
	// Present is false when the document has no frontmatter; Body is then the
	// whole input.
	Present bool
	Format  Format
	// Raw is the frontmatter without delimiters.
	Raw []byte
	// Fields holds the decoded frontmatter. It is never nil.
	Fields map[string]any
	Body   []byte
}

var delimiters = []struct {
	fence  string
	format Format
}{
	{"---", FormatYAML},
	{"+++", FormatTOML},
}

// Split separates frontmatter from the Markdown body. A fenced block only
// counts as frontmatter when its closing fence exists and its interior
// decodes as a non-empty mapping in the fence's format. Anything else is left
// in the body, so a leading "---" stays a thematic break.
func Split(content []byte) Block {
	nl := detectNewline(content)
	none := Block{Fields: map[string]any{}, Body: content}

	for _, d := range delimiters {
		open := []byte(d.fence + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}

		start := len(open)
		var raw, body []byte
		closeSeq := []byte(nl + d.fence + nl)
		switch idx := bytes.Index(content[start:], closeSeq); {
		case idx >= 0:
			raw = content[start : start+idx+len(nl)]
			body = content[start+idx+len(closeSeq):]
		case bytes.HasSuffix(content[start:], []byte(nl+d.fence)):
			// A closing fence on the final line has no trailing newline.
			raw = content[start : len(content)-len(d.fence)]
			body = []byte{}
		default:
			return none
		}

		fields, ok := decodeMapping(d.format, raw)
		if !ok {
			return none
		}
		return Block{Present: true, Format: d.format, Raw: raw, Fields: fields, Body: body}
	}

	return none
}

func decodeMapping(format Format, raw []byte) (map[string]any, bool) {
	parse := ParseYAML
	if format == FormatTOML {
		parse = ParseTOML
	}
	fields, err := parse(raw)
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

// ParseYAML parses raw YAML frontmatter (without delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseTOML parses raw TOML frontmatter (without delimiters) into a map.
func ParseTOML(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if _, err := toml.Decode(string(raw), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

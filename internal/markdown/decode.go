package markdown

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

// decodeText resolves backslash escapes and character references in inline
// text and link titles in a single pass, as goldmark's HTML writer does. An
// escaped '&' is literal and never starts a reference. NUL and invalid code
// points become U+FFFD. Code spans and code blocks must not be passed here.
func decodeText(value []byte) string {
	if bytes.IndexByte(value, '\\') < 0 && bytes.IndexByte(value, '&') < 0 && bytes.IndexByte(value, 0) < 0 {
		return string(value)
	}

	var b bytes.Buffer
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\\' && i+1 < len(value) && util.IsPunct(value[i+1]):
			b.WriteByte(value[i+1])
			i++
		case c == 0:
			b.WriteRune(utf8.RuneError)
		case c == '&':
			if r, end, ok := readReference(value, i); ok {
				b.Write(r)
				i = end
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// readReference decodes the entity or numeric reference starting at the '&'
// at value[pos]. end is the index of the terminating ';'.
func readReference(value []byte, pos int) ([]byte, int, bool) {
	limit := len(value)
	next := pos + 1
	if next < limit && value[next] == '#' {
		start, base, maxDigits, pred := next+1, 10, 7, util.IsNumeric
		if start < limit && (value[start] == 'x' || value[start] == 'X') {
			start, base, maxDigits, pred = start+1, 16, 6, util.IsHexDecimal
		}
		end, ok := util.ReadWhile(value, [2]int{start, limit}, pred)
		if !ok || end >= limit || value[end] != ';' || end-start > maxDigits {
			return nil, 0, false
		}
		v, err := strconv.ParseUint(string(value[start:end]), base, 32)
		if err != nil {
			return nil, 0, false
		}
		return utf8.AppendRune(nil, util.ToValidRune(rune(v))), end, true
	}

	end, ok := util.ReadWhile(value, [2]int{next, limit}, util.IsAlphaNumeric)
	if !ok || end >= limit || value[end] != ';' {
		return nil, 0, false
	}
	entity, ok := util.LookUpHTML5EntityByName(string(value[next:end]))
	if !ok {
		return nil, 0, false
	}
	return entity.Characters, end, true
}

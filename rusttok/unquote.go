package rusttok

import (
	"strconv"
	"strings"
)

// Unquote decodes the value of a Rust string literal token, including raw
// and byte/C-string prefixed forms. The second result is false when the text
// is not a string literal.
func Unquote(lit string) (string, bool) {
	s := lit
	for len(s) > 0 && (s[0] == 'b' || s[0] == 'c') {
		s = s[1:]
	}
	if strings.HasPrefix(s, "r") {
		s = s[1:]
		hashes := 0
		for strings.HasPrefix(s, "#") {
			s = s[1:]
			hashes++
		}
		suffix := `"` + strings.Repeat("#", hashes)
		if !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, suffix) || len(s) < len(suffix)+1 {
			return "", false
		}
		return s[1 : len(s)-len(suffix)], true
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}
	var b strings.Builder
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch != '\\' || i+1 >= len(runes) {
			b.WriteRune(ch)
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteRune(runes[i])
		case 'x':
			if i+2 < len(runes) {
				if v, err := strconv.ParseUint(string(runes[i+1:i+3]), 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			return "", false
		case 'u':
			if i+1 < len(runes) && runes[i+1] == '{' {
				end := i + 2
				for end < len(runes) && runes[end] != '}' {
					end++
				}
				if end < len(runes) {
					if v, err := strconv.ParseUint(string(runes[i+2:end]), 16, 32); err == nil {
						b.WriteRune(rune(v))
						i = end
						continue
					}
				}
			}
			return "", false
		default:
			return "", false
		}
	}
	return b.String(), true
}

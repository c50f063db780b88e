// Package shellwords splits a raw configuration-argument string into
// discrete tokens, honoring single and double quotes as well as a legacy
// bracket-delimited form.
package shellwords

import (
	"strings"
	"unicode"
)

// Split turns a raw argument string into an ordered token list.
//
// Two input forms are accepted. The legacy form wraps the whole string in a
// single pair of square brackets and is split purely on whitespace runs,
// with no quote handling. Any other input is scanned left to right: a
// double or single quote opens a quoted run ended by the matching
// character, quote
// characters themselves are consumed rather than kept, and whitespace
// inside quotes is preserved. Adjacent quoted runs with no separating
// whitespace concatenate into one token, and an unterminated quote
// captures the rest of the input as the final token. Both behaviors are
// relied upon by existing invocations and must not change.
func Split(raw string) []string {
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return strings.Fields(raw[1 : len(raw)-1])
	}

	var (
		tokens []string
		buf    strings.Builder
		quote  rune // opening quote character, 0 when outside quotes
	)
	for _, c := range raw {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				buf.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
		case unicode.IsSpace(c):
			if buf.Len() > 0 {
				tokens = append(tokens, buf.String())
				buf.Reset()
			}
		default:
			buf.WriteRune(c)
		}
	}
	if buf.Len() > 0 {
		tokens = append(tokens, buf.String())
	}
	return tokens
}

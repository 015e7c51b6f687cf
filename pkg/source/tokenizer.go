// SPDX-License-Identifier: MPL-2.0

package source

import "strings"

// scanState is the state of the SplitQuoted scanner.
type scanState int

const (
	stateUnquoted scanState = iota
	stateDoubleQuoted
	stateSingleQuoted
)

// SplitQuoted splits a stored option string into discrete arguments.
//
// Whitespace separates arguments. A span enclosed in double or single quotes is a
// single argument with the quotes removed; there is no escaping and no nesting, and
// a quoted span never joins the text around it ("a\"b c\"d" gives a, b c, d).
// A quote character without a matching closing quote is dropped and scanning goes
// on right after it, so `"abc` gives abc. The function never fails: an empty or
// blank string gives an empty slice.
func SplitQuoted(s string) []string {
	tokens := []string{}
	state := stateUnquoted
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, s[start:end])
			start = -1
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateUnquoted:
			switch {
			case isOptionSpace(c):
				flush(i)
			case c == '"' || c == '\'':
				flush(i)
				if strings.IndexByte(s[i+1:], c) < 0 {
					// unterminated: skip the quote itself
					continue
				}
				if c == '"' {
					state = stateDoubleQuoted
				} else {
					state = stateSingleQuoted
				}
				start = i + 1
			default:
				if start < 0 {
					start = i
				}
			}
		case stateDoubleQuoted, stateSingleQuoted:
			if (state == stateDoubleQuoted && c == '"') || (state == stateSingleQuoted && c == '\'') {
				tokens = append(tokens, s[start:i])
				start = -1
				state = stateUnquoted
			}
		}
	}
	flush(len(s))

	return tokens
}

// isOptionSpace matches the ASCII whitespace set used to separate options.
func isOptionSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// JoinQuoted is the inverse of SplitQuoted for arguments that can be represented:
// an argument holding whitespace or a quote is wrapped in the quote it does not
// contain. An argument holding both quote characters cannot round-trip and is
// wrapped in double quotes.
func JoinQuoted(args []string) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case arg != "" && strings.IndexFunc(arg, func(r rune) bool {
			return r < 0x80 && (isOptionSpace(byte(r)) || r == '"' || r == '\'')
		}) < 0:
			sb.WriteString(arg)
		case strings.ContainsRune(arg, '"'):
			sb.WriteString("'" + arg + "'")
		default:
			sb.WriteString(`"` + arg + `"`)
		}
	}
	return sb.String()
}

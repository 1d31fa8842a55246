package ntriples

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// cspell:words uriquote

// single character escapes, indexed by the character following the backslash
var simpleEscapes = map[byte]byte{
	't':  '\t',
	'n':  '\n',
	'r':  '\r',
	'"':  '"',
	'\\': '\\',
}

const (
	maxCodePoint   = 0x10FFFF
	surrogateStart = 0xD800
	surrogateEnd   = 0xDFFF
)

// isSafe checks if c may appear unescaped inside a quoted string in strict mode.
// These are the printable ascii characters, excluding '"' and '\'.
func isSafe(c byte) bool {
	return c == 0x20 || c == 0x21 || (c >= 0x23 && c <= 0x5B) || (c >= 0x5D && c <= 0x7E)
}

func isHex(c byte, upperOnly bool) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'A' && c <= 'F':
		return true
	case c >= 'a' && c <= 'f':
		return !upperOnly
	default:
		return false
	}
}

func hexValue(c byte) rune {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0')
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10
	default:
		return rune(c-'A') + 10
	}
}

// unicodeEscape decodes the "\uXXXX" or "\UXXXXXXXX" escape at the start of s.
// n is the number of bytes making up the escape.
func unicodeEscape(s string, upperOnly bool) (r rune, n int, ok bool) {
	if len(s) < 2 || s[0] != '\\' {
		return 0, 0, false
	}

	var digits int
	switch s[1] {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return 0, 0, false
	}

	if len(s) < 2+digits {
		return 0, 0, false
	}
	for _, c := range []byte(s[2 : 2+digits]) {
		if !isHex(c, upperOnly) {
			return 0, 0, false
		}
		r = r<<4 | hexValue(c)
	}
	return r, 2 + digits, true
}

// looksLikeUnicodeEscape checks if rest starts with what would be the body of a unicode escape,
// that is 'u' followed by four or 'U' followed by eight hex digits.
func looksLikeUnicodeEscape(rest string) bool {
	_, _, ok := unicodeEscape(`\`+rest, false)
	return ok
}

// Unquote decodes the escape sequences inside the body of a quoted string or reference.
//
// Recognized escapes are '\t', '\n', '\r', '\"', '\\', '\uXXXX' and '\UXXXXXXXX'.
//
// In lenient mode decoding never fails: any backslash that does not start a recognized escape
// is copied to the output unchanged.
//
// In strict mode text may only consist of printable ascii characters and recognized escapes.
// Unicode escapes must use upper case hex digits and denote a valid code point.
// An escaped backslash directly followed by something that looks like a unicode escape is rejected,
// as is any other backslash or character not permitted by the grammar.
// Errors are of type [*ParseError].
func Unquote(text string, strict bool) (string, error) {
	if strict {
		return unquoteStrict(text)
	}
	return unquoteLenient(text), nil
}

func unquoteLenient(text string) string {
	if strings.IndexByte(text, '\\') < 0 {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		if c != '\\' || i+1 >= len(text) {
			builder.WriteByte(c)
			i++
			continue
		}

		if decoded, ok := simpleEscapes[text[i+1]]; ok {
			builder.WriteByte(decoded)
			i += 2
			continue
		}

		if r, n, ok := unicodeEscape(text[i:], false); ok {
			// WriteRune turns invalid code points into utf8.RuneError
			builder.WriteRune(r)
			i += n
			continue
		}

		builder.WriteByte(c)
		i++
	}

	return builder.String()
}

func unquoteStrict(text string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]

		if isSafe(c) {
			builder.WriteByte(c)
			i++
			continue
		}

		if c != '\\' {
			r, _ := utf8.DecodeRuneInString(text[i:])
			return "", errorf(text[i:], "illegal character %q", r)
		}

		if i+1 < len(text) {
			if decoded, ok := simpleEscapes[text[i+1]]; ok {
				builder.WriteByte(decoded)
				i += 2

				if decoded == '\\' && looksLikeUnicodeEscape(text[i:]) {
					return "", &ParseError{
						Text:    text[i-2:],
						Pattern: `\uXXXX`,
						Reason:  "ambiguous escape: escaped backslash followed by unicode escape body",
					}
				}
				continue
			}
		}

		r, n, ok := unicodeEscape(text[i:], true)
		if !ok {
			return "", &ParseError{
				Text:    text[i:],
				Pattern: `\t, \n, \r, \", \\, \uXXXX or \UXXXXXXXX`,
				Reason:  "illegal escape",
			}
		}
		if r < 0 || r > maxCodePoint || (r >= surrogateStart && r <= surrogateEnd) {
			return "", errorf(text[i:], "disallowed code point %08X", r)
		}

		builder.WriteRune(r)
		i += n
	}

	return builder.String(), nil
}

// URIQuote normalizes the text of a reference.
//
// In lenient mode, and for text consisting only of ascii characters, it returns text unchanged.
// In strict mode all non-ascii characters are percent-encoded using their utf-8 bytes;
// invalid utf-8 results in a [*ParseError].
func URIQuote(text string, strict bool) (string, error) {
	if !strict {
		return text, nil
	}

	first := -1
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			first = i
			break
		}
	}
	if first < 0 {
		return text, nil
	}

	if !utf8.ValidString(text) {
		return "", errorf(text, "invalid utf-8 in reference")
	}

	var builder strings.Builder
	builder.Grow(len(text) + 2*(len(text)-first))
	builder.WriteString(text[:first])
	for i := first; i < len(text); i++ {
		c := text[i]
		if c < utf8.RuneSelf {
			builder.WriteByte(c)
			continue
		}
		fmt.Fprintf(&builder, "%%%02X", c)
	}
	return builder.String(), nil
}

// Quote escapes text so that it can be placed between double quotes in an N-Triples line.
//
// The result only consists of printable ascii characters and escapes,
// and is accepted by [Unquote] in both modes, decoding to text again.
// Invalid utf-8 in text is replaced by the unicode replacement character.
func Quote(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for i, r := range text {
		switch {
		case r == '\\':
			if looksLikeUnicodeEscape(text[i+1:]) {
				builder.WriteString(`\u005C`)
			} else {
				builder.WriteString(`\\`)
			}
		case r == '"':
			builder.WriteString(`\"`)
		case r == '\n':
			builder.WriteString(`\n`)
		case r == '\r':
			builder.WriteString(`\r`)
		case r == '\t':
			builder.WriteString(`\t`)
		case r < utf8.RuneSelf && isSafe(byte(r)):
			builder.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&builder, `\u%04X`, r)
		default:
			fmt.Fprintf(&builder, `\U%08X`, r)
		}
	}

	return builder.String()
}

// quoteReference escapes text for use between angle brackets.
// Characters not permitted there, or outside of printable ascii, are written as unicode escapes.
func quoteReference(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\\', r == '"', r == '<', r == '>', r == ' ':
			fmt.Fprintf(&builder, `\u%04X`, r)
		case r < utf8.RuneSelf && isSafe(byte(r)):
			builder.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&builder, `\u%04X`, r)
		default:
			fmt.Fprintf(&builder, `\U%08X`, r)
		}
	}

	return builder.String()
}

package ntriples

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError is the only error kind produced by the parser itself.
//
// It is returned for grammar mismatches, malformed escapes under strict mode,
// input of the wrong type and failed cursor matches.
// Errors of the underlying reader or of a [Sink] are never a ParseError.
type ParseError struct {
	Line      int    // 1-based line number, 0 if not known
	Statement string // the full line being parsed, if known
	Text      string // offending (remaining) text
	Pattern   string // pattern that was expected, if any
	Reason    string // English description
}

func (pe *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString("ntriples")
	if pe.Line > 0 {
		fmt.Fprintf(&msg, ":%d", pe.Line)
	}
	msg.WriteString(": ")
	msg.WriteString(pe.Reason)
	if pe.Pattern != "" {
		fmt.Fprintf(&msg, " (expected %s)", pe.Pattern)
	}
	if pe.Text != "" {
		fmt.Fprintf(&msg, " at %q", excerpt(pe.Text))
	}
	return msg.String()
}

// maxExcerpt is the maximal number of bytes of text included in an error message.
const maxExcerpt = 80

func excerpt(text string) string {
	if len(text) <= maxExcerpt {
		return text
	}
	return text[:maxExcerpt] + "..."
}

func errorf(text string, format string, args ...any) *ParseError {
	return &ParseError{
		Text:   text,
		Reason: fmt.Sprintf(format, args...),
	}
}

// AsParseError returns the ParseError wrapped by err, if any.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// atLine attaches the line number and raw line to err, if it is a ParseError.
// Other errors are returned unchanged.
func atLine(err error, number int, line string) error {
	pe, ok := AsParseError(err)
	if !ok {
		return err
	}
	if pe.Line == 0 {
		pe.Line = number
	}
	if pe.Statement == "" {
		pe.Statement = line
	}
	return err
}

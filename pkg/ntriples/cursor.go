package ntriples

import (
	"regexp"
	"strings"
)

// pattern is a compiled regular expression that only matches at the start of the input.
type pattern struct {
	source string // as written in the grammar, used for error messages
	re     *regexp.Regexp
}

func mustPattern(source string) pattern {
	return pattern{
		source: source,
		re:     regexp.MustCompile(`^(?:` + source + `)`),
	}
}

// cursor points into a single line of input.
type cursor struct {
	line   string
	offset int
}

// reset makes the cursor point to the start of line.
func (c *cursor) reset(line string) {
	c.line = line
	c.offset = 0
}

// rest returns the text that has not yet been consumed.
func (c *cursor) rest() string {
	return c.line[c.offset:]
}

// done checks if the entire line has been consumed.
func (c *cursor) done() bool {
	return c.offset >= len(c.line)
}

// peek checks if the unconsumed text starts with prefix.
func (c *cursor) peek(prefix string) bool {
	return strings.HasPrefix(c.rest(), prefix)
}

// consume matches p at the current offset.
// On success, advances the offset past the match and returns the submatches;
// groups[0] is the entire match and unmatched groups are empty.
//
// On failure the offset remains untouched and a *ParseError is returned.
func (c *cursor) consume(p pattern) (groups []string, err error) {
	rest := c.rest()
	groups = p.re.FindStringSubmatch(rest)
	if groups == nil {
		return nil, &ParseError{
			Text:    rest,
			Pattern: p.source,
			Reason:  "failed to consume input",
		}
	}
	c.offset += len(groups[0])
	return groups, nil
}

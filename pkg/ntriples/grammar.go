package ntriples

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// cspell:words uriref nodeid litinfo

const (
	uriref  = `<([^:\s"<>]+:[^\s"<>]*)>`
	literal = `"([^"\\]*(?:\\.[^"\\]*)*)"`
	litinfo = `(?:@([a-zA-Z]+(?:-[a-zA-Z0-9]+)*)|\^\^` + uriref + `)?`
)

var (
	patternSpace     = mustPattern(`[ \t]*`)
	patternSeparator = mustPattern(`[ \t]+`)
	patternTail      = mustPattern(`[ \t]*\.[ \t]*(?:#.*)?`)
	patternReference = mustPattern(uriref)
	patternBlankNode = mustPattern(`_:([A-Za-z0-9_:]([-A-Za-z0-9_:\.]*[-A-Za-z0-9_:])?)`)
	patternLiteral   = mustPattern(literal + litinfo)
)

// session holds the state of a single parse.
// It must not be shared between concurrent parses.
type session struct {
	cursor
	opts Options

	// blanks maps labels found in the input to fresh identifiers.
	// Only used when opts.FreshBlankNodes is set.
	blanks map[string]BlankNode
}

func newSession(opts Options) *session {
	return &session{opts: opts}
}

// statement parses line.
// skip is true when line is blank or a comment, in which case triple is the zero value.
func (s *session) statement(line string) (triple Triple, skip bool, err error) {
	s.reset(line)

	if !utf8.ValidString(line) {
		return triple, false, errorf(line, "invalid utf-8")
	}

	// always matches
	if _, err := s.consume(patternSpace); err != nil {
		return triple, false, err
	}
	if s.done() || s.peek("#") {
		return triple, true, nil
	}

	triple, err = s.triple()
	return triple, false, err
}

// triple parses a complete statement starting at the cursor.
func (s *session) triple() (triple Triple, err error) {
	if triple.Subject, err = s.subject(); err != nil {
		return Triple{}, err
	}
	if _, err := s.consume(patternSeparator); err != nil {
		return Triple{}, err
	}
	if triple.Predicate, err = s.predicate(); err != nil {
		return Triple{}, err
	}
	if _, err := s.consume(patternSeparator); err != nil {
		return Triple{}, err
	}
	if triple.Object, err = s.object(); err != nil {
		return Triple{}, err
	}
	if _, err := s.consume(patternTail); err != nil {
		return Triple{}, err
	}
	if !s.done() {
		return Triple{}, errorf(s.rest(), "trailing garbage")
	}
	return triple, nil
}

func (s *session) subject() (Term, error) {
	switch {
	case s.peek("<"):
		return s.referenceTerm()
	case s.peek("_"):
		return s.blankNode()
	}
	return nil, errorf(s.rest(), "subject must be a reference or blank node")
}

func (s *session) predicate() (Reference, error) {
	if s.peek("<") {
		return s.reference()
	}
	return "", errorf(s.rest(), "predicate must be a reference")
}

func (s *session) object() (Term, error) {
	switch {
	case s.peek("<"):
		return s.referenceTerm()
	case s.peek("_"):
		return s.blankNode()
	case s.peek(`"`):
		return s.literal()
	}
	return nil, errorf(s.rest(), "object must be a reference, blank node or literal")
}

// referenceTerm is like reference, but returns a nil Term on error.
func (s *session) referenceTerm() (Term, error) {
	ref, err := s.reference()
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *session) reference() (Reference, error) {
	groups, err := s.consume(patternReference)
	if err != nil {
		return "", err
	}
	return s.uri(groups[1])
}

// uri decodes the text between the angle brackets of a reference.
func (s *session) uri(text string) (Reference, error) {
	text, err := Unquote(text, s.opts.Strict)
	if err != nil {
		return "", err
	}
	text, err = URIQuote(text, s.opts.Strict)
	if err != nil {
		return "", err
	}
	if s.opts.URIValidator != nil {
		if err := s.opts.URIValidator(text); err != nil {
			return "", &ParseError{Text: text, Reason: "invalid reference: " + err.Error()}
		}
	}
	return Reference(text), nil
}

func (s *session) blankNode() (Term, error) {
	groups, err := s.consume(patternBlankNode)
	if err != nil {
		return nil, err
	}

	label := groups[1]
	if !s.opts.FreshBlankNodes {
		return BlankNode(label), nil
	}

	if node, ok := s.blanks[label]; ok {
		return node, nil
	}
	if s.blanks == nil {
		s.blanks = make(map[string]BlankNode)
	}
	node := BlankNode("b" + strings.ReplaceAll(uuid.NewString(), "-", ""))
	s.blanks[label] = node
	return node, nil
}

func (s *session) literal() (Term, error) {
	groups, err := s.consume(patternLiteral)
	if err != nil {
		return nil, err
	}

	var lit Literal
	if lit.Value, err = Unquote(groups[1], s.opts.Strict); err != nil {
		return nil, err
	}
	lit.Language = groups[2]
	if groups[3] != "" {
		if lit.Datatype, err = s.uri(groups[3]); err != nil {
			return nil, err
		}
	}
	return lit, nil
}

// ParseTerm parses text as a single term in N-Triples syntax, such as returned by [Term.String].
// Surrounding spaces and tabs are ignored.
// Blank node labels are returned as is.
func ParseTerm(text string, strict bool) (Term, error) {
	s := newSession(Options{Strict: strict})
	s.reset(strings.Trim(text, " \t"))

	term, err := s.object()
	if err != nil {
		return nil, err
	}
	if !s.done() {
		return nil, errorf(s.rest(), "trailing garbage")
	}
	return term, nil
}

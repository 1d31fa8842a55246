package ntriples

import "strings"

// Term is a term that may occur inside a [Triple].
// It is implemented by [Reference], [BlankNode] and [Literal] only.
//
// String returns the N-Triples representation of the term.
type Term interface {
	String() string
	isTerm()
}

// Reference is a term referring to an absolute uri.
type Reference string

func (Reference) isTerm() {}

func (ref Reference) String() string {
	return "<" + quoteReference(string(ref)) + ">"
}

// BlankNode is an anonymous node.
// The identifier is only meaningful within a single parse session.
type BlankNode string

func (BlankNode) isTerm() {}

func (bn BlankNode) String() string {
	return "_:" + string(bn)
}

// Literal is a string term.
// At most one of Language and Datatype is set.
type Literal struct {
	Value    string
	Language string
	Datatype Reference
}

func (Literal) isTerm() {}

func (lit Literal) String() string {
	var builder strings.Builder
	builder.WriteByte('"')
	builder.WriteString(Quote(lit.Value))
	builder.WriteByte('"')

	switch {
	case lit.Language != "":
		builder.WriteByte('@')
		builder.WriteString(lit.Language)
	case lit.Datatype != "":
		builder.WriteString("^^")
		builder.WriteString(lit.Datatype.String())
	}
	return builder.String()
}

// Triple is a single (subject, predicate, object) statement.
//
// Subject is either a [Reference] or a [BlankNode].
// Object is a [Reference], [BlankNode] or [Literal].
type Triple struct {
	Subject   Term
	Predicate Reference
	Object    Term
}

// String returns the triple as a single N-Triples line, without a trailing newline.
func (triple Triple) String() string {
	return triple.Subject.String() + " " + triple.Predicate.String() + " " + triple.Object.String() + " ."
}

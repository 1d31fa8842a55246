// Package ntriples implements a line-based parser for the N-Triples serialization.
//
// Each line of input holds one statement of the form
//
//	subject predicate object .
//
// where the subject is a [Reference] or [BlankNode], the predicate a [Reference]
// and the object a [Reference], [BlankNode] or [Literal].
// Blank lines and lines starting with '#' are ignored.
//
// A [Parser] forwards every statement to a [Sink].
// Parsing is strictly sequential and aborts at the first malformed line
// with a [*ParseError].
//
// Strictness is configured per [Parser] through [Options].
// In strict mode escape sequences inside literals and references are validated,
// see [Unquote] and [URIQuote].
package ntriples

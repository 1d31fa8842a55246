// Package quads converts between parsed terms and cayley quad values.
package quads

import (
	"errors"
	"fmt"
	"io"

	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// cspell:words nquads cayley

// Value converts a term into the corresponding quad value.
// A nil term is converted into a nil value.
func Value(term ntriples.Term) quad.Value {
	switch term := term.(type) {
	case ntriples.Reference:
		return quad.IRI(string(term))
	case ntriples.BlankNode:
		return quad.BNode(string(term))
	case ntriples.Literal:
		switch {
		case term.Language != "":
			return quad.LangString{Value: quad.String(term.Value), Lang: term.Language}
		case term.Datatype != "":
			return quad.TypedString{Value: quad.String(term.Value), Type: quad.IRI(string(term.Datatype))}
		default:
			return quad.String(term.Value)
		}
	default:
		return nil
	}
}

var errUnsupportedValue = errors.New("unsupported quad value")

// Term converts a quad value back into a term.
// Only values produced by a raw reader are supported.
func Term(value quad.Value) (ntriples.Term, error) {
	switch value := value.(type) {
	case quad.IRI:
		return ntriples.Reference(string(value)), nil
	case quad.BNode:
		return ntriples.BlankNode(string(value)), nil
	case quad.String:
		return ntriples.Literal{Value: string(value)}, nil
	case quad.LangString:
		return ntriples.Literal{Value: string(value.Value), Language: value.Lang}, nil
	case quad.TypedString:
		return ntriples.Literal{Value: string(value.Value), Datatype: ntriples.Reference(string(value.Type))}, nil
	default:
		return nil, fmt.Errorf("%w %T", errUnsupportedValue, value)
	}
}

var errPredicateNotIRI = errors.New("predicate is not an iri")

// Read reads N-Quads from r and forwards the subject, predicate and object of each quad to sink.
// Graph labels are discarded.
// It returns the number of quads read.
func Read(r io.Reader, sink ntriples.Sink) (count int, e error) {
	reader := nquads.NewReader(r, true)
	defer func() {
		if e2 := reader.Close(); e2 != nil {
			e2 = fmt.Errorf("failed to close reader: %w", e2)
			e = errors.Join(e, e2)
		}
	}()

	for {
		value, err := reader.ReadQuad()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("failed to read quad %d: %w", count+1, err)
		}

		subject, err := Term(value.Subject)
		if err != nil {
			return count, fmt.Errorf("quad %d: subject: %w", count+1, err)
		}
		predicate, ok := value.Predicate.(quad.IRI)
		if !ok {
			return count, fmt.Errorf("quad %d: %w", count+1, errPredicateNotIRI)
		}
		object, err := Term(value.Object)
		if err != nil {
			return count, fmt.Errorf("quad %d: object: %w", count+1, err)
		}

		if err := sink.Triple(subject, ntriples.Reference(string(predicate)), object); err != nil {
			return count, fmt.Errorf("sink failed on quad %d: %w", count+1, err)
		}
		count++
	}
}

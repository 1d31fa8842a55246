package exporter

import (
	"errors"
	"fmt"
	"io"

	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"github.com/anglo-korean/rdf"
)

// RDF writes triples using an rdf triple encoder, such as Turtle.
type RDF struct {
	encoder *rdf.TripleEncoder
}

// NewRDF creates a new exporter writing to w in the given format.
// Only triple formats are supported.
//
// Closing the exporter flushes any buffered output, but does not close w.
func NewRDF(w io.Writer, format rdf.Format) *RDF {
	return &RDF{encoder: rdf.NewTripleEncoder(w, format)}
}

func (r *RDF) Triple(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) (err error) {
	var triple rdf.Triple

	if triple.Subj, err = rdfSubject(subject); err != nil {
		return err
	}
	if triple.Pred, err = rdf.NewIRI(string(predicate)); err != nil {
		return fmt.Errorf("invalid predicate: %w", err)
	}
	if triple.Obj, err = rdfObject(object); err != nil {
		return err
	}

	return r.encoder.Encode(triple)
}

func (r *RDF) Close() error {
	return r.encoder.Close()
}

var errInvalidTerm = errors.New("invalid term")

func rdfSubject(term ntriples.Term) (rdf.Subject, error) {
	switch term := term.(type) {
	case ntriples.Reference:
		iri, err := rdf.NewIRI(string(term))
		if err != nil {
			return nil, fmt.Errorf("invalid subject: %w", err)
		}
		return iri, nil
	case ntriples.BlankNode:
		blank, err := rdf.NewBlank(string(term))
		if err != nil {
			return nil, fmt.Errorf("invalid subject: %w", err)
		}
		return blank, nil
	default:
		return nil, fmt.Errorf("%w subject %T", errInvalidTerm, term)
	}
}

func rdfObject(term ntriples.Term) (rdf.Object, error) {
	lit, ok := term.(ntriples.Literal)
	if !ok {
		subject, err := rdfSubject(term)
		if err != nil {
			return nil, err
		}
		return subject.(rdf.Object), nil
	}

	switch {
	case lit.Language != "":
		value, err := rdf.NewLangLiteral(lit.Value, lit.Language)
		if err != nil {
			return nil, fmt.Errorf("invalid object: %w", err)
		}
		return value, nil
	case lit.Datatype != "":
		datatype, err := rdf.NewIRI(string(lit.Datatype))
		if err != nil {
			return nil, fmt.Errorf("invalid datatype: %w", err)
		}
		return rdf.NewTypedLiteral(lit.Value, datatype), nil
	default:
		value, err := rdf.NewLiteral(lit.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid object: %w", err)
		}
		return value, nil
	}
}

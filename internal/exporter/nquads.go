package exporter

import (
	"io"

	"github.com/FAU-CDI/ntparse/internal/quads"
	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// cspell:words nquads

// NQuads writes triples as N-Quads.
type NQuads struct {
	writer *nquads.Writer
	graph  quad.Value
}

// NewNQuads creates a new NQuads exporter writing to w.
// When graph is not empty, every quad is placed in the graph with that iri.
//
// Closing the exporter does not close w.
func NewNQuads(w io.Writer, graph string) *NQuads {
	nq := &NQuads{writer: nquads.NewWriter(w)}
	if graph != "" {
		nq.graph = quad.IRI(graph)
	}
	return nq
}

func (nq *NQuads) Triple(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) error {
	return nq.writer.WriteQuad(quad.Quad{
		Subject:   quads.Value(subject),
		Predicate: quads.Value(predicate),
		Object:    quads.Value(object),
		Label:     nq.graph,
	})
}

func (nq *NQuads) Close() error {
	return nq.writer.Close()
}

package stats

import "github.com/FAU-CDI/ntparse/pkg/ntriples"

// progressEvery is the number of triples between two progress updates
const progressEvery = 10_000

// Sink wraps sink to report the number of triples received as progress of the current stage.
// The returned sink must only be used by one parse at a time.
//
// If st is nil, sink is returned unchanged.
func (st *Stats) Sink(sink ntriples.Sink) ntriples.Sink {
	if st == nil {
		return sink
	}

	var count int
	return ntriples.SinkFunc(func(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) error {
		if err := sink.Triple(subject, predicate, object); err != nil {
			return err
		}

		count++
		if count%progressEvery == 0 {
			st.SetCT(count, 0)
		}
		return nil
	})
}

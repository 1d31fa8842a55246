// Package exporter provides sinks that write triples to external formats and databases.
package exporter

import (
	"errors"
	"fmt"
	"io"

	"github.com/FAU-CDI/ntparse/internal/stats"
	"github.com/FAU-CDI/ntparse/internal/store"
	"github.com/FAU-CDI/ntparse/pkg/ntriples"
)

// Exporter is a sink that writes triples to some destination.
// Close must be called once all triples have been written.
type Exporter interface {
	ntriples.Sink
	io.Closer
}

// Export writes every triple in src to exporter, and then closes the exporter.
// Progress is reported to st.
func Export(src *store.Store, exporter Exporter, st *stats.Stats) (e error) {
	defer func() {
		if e2 := exporter.Close(); e2 != nil {
			e2 = fmt.Errorf("failed to close exporter: %w", e2)
			if e == nil {
				e = e2
			} else {
				e = errors.Join(e, e2)
			}
		}
	}()

	total := src.Len()
	var current int

	return src.Iterate(func(triple ntriples.Triple) error {
		if err := exporter.Triple(triple.Subject, triple.Predicate, triple.Object); err != nil {
			return err
		}

		current++
		if current%progressEvery == 0 || current == total {
			st.SetCT(current, total)
		}
		return nil
	})
}

// progressEvery is the number of triples between two progress updates
const progressEvery = 10_000

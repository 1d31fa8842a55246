package ntparse

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/FAU-CDI/ntparse/internal/quads"
	"github.com/FAU-CDI/ntparse/pkg/ntriples"
)

// cspell:words nquads

// Load reads the triples in the file at path and forwards them to sink.
// Files in [FormatNQuads] are read as N-Quads, discarding graph labels.
// options do not apply to them, in particular they are never checked strictly.
// All other files are parsed as N-Triples using options.
//
// It returns the number of triples forwarded to sink.
func Load(ctx context.Context, path string, options ntriples.Options, sink ntriples.Sink) (count int, e error) {
	file, err := os.Open(path) // #nosec G304 -- explicit parameter
	if err != nil {
		return 0, fmt.Errorf("failed to open path: %w", err)
	}
	defer func() {
		if e2 := file.Close(); e2 != nil {
			e2 = fmt.Errorf("failed to close file: %w", e2)
			if e == nil {
				e = e2
			} else {
				e = errors.Join(e, e2)
			}
		}
	}()

	if FormatOf(path) == FormatNQuads {
		return quads.Read(file, sink)
	}

	var counter ntriples.Counter
	parser := ntriples.Parser{
		Options: options,
		Sink:    ntriples.MultiSink{sink, &counter},
	}
	_, err = parser.ParseContext(ctx, file)
	return counter.Len(), err
}

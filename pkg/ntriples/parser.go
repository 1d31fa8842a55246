package ntriples

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// DefaultMaxLineBytes is the default maximal length of a single line.
const DefaultMaxLineBytes = 1 << 20

// Options configure a single [Parser].
// The zero value is a lenient parser with default limits.
type Options struct {
	// Strict enables validation of escapes in literals and references.
	// See [Unquote] and [URIQuote].
	Strict bool

	// FreshBlankNodes replaces each blank node label with a newly generated identifier.
	// The same label maps to the same identifier within one parse.
	FreshBlankNodes bool

	// URIValidator, if non-nil, is called with the text of every decoded reference.
	// A non-nil error rejects the reference.
	URIValidator func(uri string) error

	// MaxLineBytes is the maximal number of bytes in a line.
	// Zero means DefaultMaxLineBytes, a negative value disables the limit.
	MaxLineBytes int
}

func (opts Options) maxLineBytes() int {
	switch {
	case opts.MaxLineBytes == 0:
		return DefaultMaxLineBytes
	case opts.MaxLineBytes < 0:
		return math.MaxInt
	default:
		return opts.MaxLineBytes
	}
}

// Parser parses N-Triples and forwards the triples to a [Sink].
//
// All state of a parse is local to the respective call.
// A Parser may thus be used concurrently, provided Sink is safe for concurrent use.
type Parser struct {
	Options

	// Sink receives parsed triples.
	// When nil, each parse uses a new [*Counter].
	Sink Sink
}

func (p *Parser) sink() Sink {
	if p.Sink != nil {
		return p.Sink
	}
	return new(Counter)
}

// Parse is like ParseContext, but uses [context.Background].
func (p *Parser) Parse(r io.Reader) (Sink, error) {
	return p.ParseContext(context.Background(), r)
}

// ParseContext reads N-Triples from r line by line.
// Lines may be terminated by "\r\n", "\r" or "\n"; the final line need not be terminated.
// Blank lines and comment lines are skipped.
//
// Parsing stops at the first line that does not parse, returning a [*ParseError]
// with the line number and content attached.
// Errors from the reader, the sink or ctx are returned wrapped.
//
// On success, the sink that received the triples is returned.
func (p *Parser) ParseContext(ctx context.Context, r io.Reader) (Sink, error) {
	sink := p.sink()
	s := newSession(p.Options)

	scanner := bufio.NewScanner(r)
	limit := p.maxLineBytes()
	scanner.Buffer(nil, bufferSize(limit))
	scanner.Split(scanLines)

	var number int
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parse canceled before line %d: %w", number+1, err)
		}

		number++
		line := scanner.Text()
		if len(line) > limit {
			return nil, &ParseError{Line: number, Reason: "line too long"}
		}

		triple, skip, err := s.statement(line)
		if err != nil {
			return nil, atLine(err, number, line)
		}
		if skip {
			continue
		}

		if err := sink.Triple(triple.Subject, triple.Predicate, triple.Object); err != nil {
			return nil, fmt.Errorf("sink failed on line %d: %w", number, err)
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Line: number + 1, Reason: "line too long"}
		}
		return nil, fmt.Errorf("failed to read line %d: %w", number+1, err)
	}

	return sink, nil
}

// ParseFile opens the file at path and parses it using Parse.
// The file is closed before ParseFile returns.
func (p *Parser) ParseFile(path string) (sink Sink, e error) {
	file, err := os.Open(path) // #nosec G304 -- explicit parameter
	if err != nil {
		return nil, fmt.Errorf("failed to open path: %w", err)
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

	return p.Parse(file)
}

// ParseText parses in-memory text.
// text must be a string or a []byte; other values result in a [*ParseError]
// without being converted.
func (p *Parser) ParseText(text any) (Sink, error) {
	switch text := text.(type) {
	case string:
		return p.Parse(strings.NewReader(text))
	case []byte:
		return p.Parse(bytes.NewReader(text))
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("item to parse must be text, got %T", text)}
	}
}

// bufferSize returns the scanner buffer size needed for lines of up to limit bytes.
// The buffer also has to hold a "\r\n" terminator.
func bufferSize(limit int) int {
	if limit > math.MaxInt-2 {
		return math.MaxInt
	}
	return limit + 2
}

// scanLines is a [bufio.SplitFunc] splitting lines terminated by "\r\n", "\r" or "\n".
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		switch {
		case data[i] == '\n':
			return i + 1, data[:i], nil
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		default:
			// a '\r' at the end of the buffer might be followed by '\n'
			return 0, nil, nil
		}
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

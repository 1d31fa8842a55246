package ntriples_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/FAU-CDI/ntparse/pkg/ntriples"
)

// cspell:words Räksm ksm

const testDocument = `# people
<http://example.org/alice> <http://xmlns.com/foaf/0.1/name> "Alice"@en .
<http://example.org/alice> <http://xmlns.com/foaf/0.1/knows> _:bob .

_:bob <http://xmlns.com/foaf/0.1/name> "Bob" .
_:bob <http://xmlns.com/foaf/0.1/age> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/alice> <http://example.org/motto> "tab\there \"quoted\" back\\slash" .
<http://example.org/alice> <http://example.org/lunch> "R\u00E4ksm\u00F6rg\u00E5s" .
<http://example.org/alice> <http://example.org/mood> "\U0001F600\nline two" .
`

const testDocumentTriples = 7

func TestParser_ParseText(t *testing.T) {
	for _, strict := range []bool{false, true} {
		parser := ntriples.Parser{Options: ntriples.Options{Strict: strict}}
		sink, err := parser.ParseText(testDocument)
		if err != nil {
			t.Fatalf("ParseText(strict=%v) returned error %v", strict, err)
		}

		counter, ok := sink.(*ntriples.Counter)
		if !ok {
			t.Fatalf("ParseText() returned sink of type %T, want *Counter", sink)
		}
		if counter.Len() != testDocumentTriples {
			t.Errorf("ParseText(strict=%v) counted %d triples, want %d", strict, counter.Len(), testDocumentTriples)
		}
	}
}

func TestParser_ParseText_bytes(t *testing.T) {
	var parser ntriples.Parser
	sink, err := parser.ParseText([]byte(testDocument))
	if err != nil {
		t.Fatalf("ParseText() returned error %v", err)
	}
	if got := sink.(*ntriples.Counter).Len(); got != testDocumentTriples {
		t.Errorf("ParseText() counted %d triples, want %d", got, testDocumentTriples)
	}
}

func TestParser_ParseText_nonText(t *testing.T) {
	var parser ntriples.Parser
	sink, err := parser.ParseText(3)
	if sink != nil {
		t.Errorf("ParseText() returned sink %v", sink)
	}
	var pe *ntriples.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ParseText() error = %v, want a *ParseError", err)
	}
	if !strings.Contains(pe.Reason, "int") {
		t.Errorf("ParseError.Reason = %q, want the type to be mentioned", pe.Reason)
	}
}

func TestParser_badLine(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n" +
		"<http://example.org/resource32> 3 <http://example.org/datatype1> .\n" +
		"<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"

	var collector ntriples.Collector
	parser := ntriples.Parser{Sink: &collector}

	_, err := parser.ParseText(input)
	pe, ok := ntriples.AsParseError(err)
	if !ok {
		t.Fatalf("ParseText() error = %v, want a *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("ParseError.Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(pe.Statement, "resource32") {
		t.Errorf("ParseError.Statement = %q, want the offending line", pe.Statement)
	}
	if collector.Len() != 1 {
		t.Errorf("sink received %d triples before the error, want 1", collector.Len())
	}
}

func TestParser_lineEndings(t *testing.T) {
	line := `<http://example.org/s> <http://example.org/p> "o" .`
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"lf", line + "\n" + line + "\n", 2},
		{"crlf", line + "\r\n" + line + "\r\n", 2},
		{"cr", line + "\r" + line + "\r", 2},
		{"mixed", line + "\r\n\n" + line + "\r\r" + line + "\n", 3},
		{"unterminated", line + "\n" + line, 2},
		{"only comments", "# one\r\n# two\r\n\r\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parser ntriples.Parser
			sink, err := parser.ParseText(tt.input)
			if err != nil {
				t.Fatalf("ParseText() returned error %v", err)
			}
			if got := sink.(*ntriples.Counter).Len(); got != tt.want {
				t.Errorf("ParseText() counted %d triples, want %d", got, tt.want)
			}
		})
	}
}

func TestParser_strictness(t *testing.T) {
	input := `<http://example.org/s> <http://example.org/p> "R\\u00E4ksm\u00F6rg\u00E5s" .`

	lenient := ntriples.Parser{}
	strict := ntriples.Parser{Options: ntriples.Options{Strict: true}}

	// strictness is a property of each parser, not of the process
	const rounds = 8
	errs := make(chan error, 2*rounds)

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := lenient.ParseText(input); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := strict.ParseText(input); err == nil {
				errs <- errors.New("strict parser accepted ambiguous escape")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestParser_MaxLineBytes(t *testing.T) {
	line := `<http://example.org/s> <http://example.org/p> "o" .`

	parser := ntriples.Parser{Options: ntriples.Options{MaxLineBytes: 16}}
	_, err := parser.ParseText(line + "\n")
	pe, ok := ntriples.AsParseError(err)
	if !ok {
		t.Fatalf("ParseText() error = %v, want a *ParseError", err)
	}
	if pe.Line != 1 {
		t.Errorf("ParseError.Line = %d, want 1", pe.Line)
	}

	parser.MaxLineBytes = -1
	if _, err := parser.ParseText(line + "\n"); err != nil {
		t.Errorf("ParseText() without limit returned error %v", err)
	}
}

func TestParser_MaxLineBytes_exact(t *testing.T) {
	line := `<http://example.org/s> <http://example.org/p> "o" .`

	tests := []struct {
		name    string
		limit   int
		text    string
		wantErr bool
	}{
		{"lf", len(line), line + "\n", false},
		{"crlf", len(line), line + "\r\n", false},
		{"cr", len(line), line + "\r", false},
		{"unterminated", len(line), line, false},
		{"one byte over", len(line) - 1, line + "\n", true},
		{"one byte over unterminated", len(line) - 1, line, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := ntriples.Parser{Options: ntriples.Options{MaxLineBytes: tt.limit}}
			_, err := parser.ParseText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if pe, ok := ntriples.AsParseError(err); !ok || pe.Line != 1 {
					t.Errorf("ParseText() error = %v, want a *ParseError on line 1", err)
				}
			}
		})
	}
}

func TestParser_invalidUTF8(t *testing.T) {
	for _, strict := range []bool{false, true} {
		parser := ntriples.Parser{Options: ntriples.Options{Strict: strict}}
		_, err := parser.ParseText("<http://example.org/s> <http://example.org/p> \"a\xffb\" .\n")
		if _, ok := ntriples.AsParseError(err); !ok {
			t.Errorf("ParseText(strict=%v) error = %v, want a *ParseError", strict, err)
		}
	}
}

func TestParser_sinkError(t *testing.T) {
	errStop := errors.New("stop")

	var calls int
	parser := ntriples.Parser{
		Sink: ntriples.SinkFunc(func(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) error {
			calls++
			if calls == 2 {
				return errStop
			}
			return nil
		}),
	}

	_, err := parser.ParseText(testDocument)
	if !errors.Is(err, errStop) {
		t.Fatalf("ParseText() error = %v, want %v", err, errStop)
	}
	if _, ok := ntriples.AsParseError(err); ok {
		t.Error("sink error was reported as a *ParseError")
	}
	if calls != 2 {
		t.Errorf("sink was called %d times, want 2", calls)
	}
}

func TestParser_ParseContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var parser ntriples.Parser
	_, err := parser.ParseContext(ctx, strings.NewReader(testDocument))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ParseContext() error = %v, want %v", err, context.Canceled)
	}
	if err != nil && !strings.Contains(err.Error(), "line 1") {
		t.Errorf("ParseContext() error = %q does not name the line", err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.nt")
	if err := os.WriteFile(path, []byte(testDocument), 0o600); err != nil {
		t.Fatal(err)
	}

	var collector ntriples.Collector
	parser := ntriples.Parser{Sink: &collector}
	if _, err := parser.ParseFile(path); err != nil {
		t.Fatalf("ParseFile() returned error %v", err)
	}
	if collector.Len() != testDocumentTriples {
		t.Errorf("ParseFile() collected %d triples, want %d", collector.Len(), testDocumentTriples)
	}

	_, err := parser.ParseFile(filepath.Join(dir, "missing.nt"))
	if err == nil {
		t.Fatal("ParseFile() on missing file did not return an error")
	}
	if _, ok := ntriples.AsParseError(err); ok {
		t.Error("missing file was reported as a *ParseError")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile() error = %v, want %v", err, os.ErrNotExist)
	}
}

func TestParser_roundTrip(t *testing.T) {
	for _, strict := range []bool{false, true} {
		var first ntriples.Collector
		parser := ntriples.Parser{Options: ntriples.Options{Strict: strict}, Sink: &first}
		if _, err := parser.ParseText(testDocument); err != nil {
			t.Fatalf("ParseText(strict=%v) returned error %v", strict, err)
		}

		var serialized strings.Builder
		for _, triple := range first.Triples {
			serialized.WriteString(triple.String())
			serialized.WriteByte('\n')
		}

		var second ntriples.Collector
		parser.Sink = &second
		if _, err := parser.ParseText(serialized.String()); err != nil {
			t.Fatalf("ParseText(strict=%v) of serialized triples returned error %v", strict, err)
		}

		if !reflect.DeepEqual(first.Triples, second.Triples) {
			t.Errorf("round trip (strict=%v) changed triples:\n%v\n%v", strict, first.Triples, second.Triples)
		}
	}
}

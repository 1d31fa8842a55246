//spellchecker:words progress
package progress_test

//spellchecker:words strings github ntparse progress
import (
	"fmt"
	"io"
	"strings"

	"github.com/FAU-CDI/ntparse/pkg/progress"
)

func ExampleReader() {
	source := strings.NewReader("hello\nworld\n")
	var builder strings.Builder

	reader := &progress.Reader{
		Reader: source,

		Rewritable: progress.Rewritable{
			FlushInterval: 0,
			Writer:        &builder,
		},
	}

	_, _ = reader.Read(make([]byte, 6))
	_, _ = reader.Read(make([]byte, 6))

	// replace all the '\r's with '\n's for testing
	fmt.Println(strings.ReplaceAll(builder.String(), "\r", "\n"))

	// Output: Read 6 B (1 lines)
	// Read 12 B (2 lines)
}

func ExampleWriter() {
	var builder strings.Builder

	writer := &progress.Writer{
		Writer: io.Discard,

		Rewritable: progress.Rewritable{
			FlushInterval: 0,
			Writer:        &builder,
		},
	}

	_, _ = writer.Write([]byte("hello"))
	_, _ = writer.Write([]byte(" world"))

	// replace all the '\r's with '\n's for testing
	fmt.Println(strings.ReplaceAll(builder.String(), "\r", "\n"))

	// Output: Wrote 5 B
	// Wrote 11 B
}

func ExampleCounter() {
	var builder strings.Builder

	counter := &progress.Counter{
		Noun: "triples",

		Rewritable: progress.Rewritable{
			FlushInterval: 0,
			Writer:        &builder,
		},
	}

	counter.Add(999)
	counter.Add(1)

	// replace all the '\r's with '\n's for testing
	fmt.Println(strings.ReplaceAll(builder.String(), "\r", "\n"))

	// Output: 999 triples
	// 1,000 triples
}

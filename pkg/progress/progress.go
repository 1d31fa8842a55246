// Package progress provides Reader and Writer
package progress

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Reader consistently writes the number of bytes and lines read to a Rewritable.
type Reader struct {
	io.Reader       // Reader to read from
	Bytes     int64 // total number of bytes read (so far)
	Lines     int64 // total number of newline characters read (so far)

	Rewritable
}

func (cr *Reader) Read(p []byte) (int, error) {
	count, err := cr.Reader.Read(p)
	cr.Bytes += int64(count)
	cr.Lines += int64(bytes.Count(p[:count], []byte{'\n'}))
	cr.Rewritable.Write(fmt.Sprintf("Read %s (%s lines)", humanize.Bytes(uint64(cr.Bytes)), humanize.Comma(cr.Lines)))
	return count, err
}

// Writer consistently writes the number of bytes written to a Rewritable.
type Writer struct {
	io.Writer       // Writer to write to
	Bytes     int64 // Total number of bytes written

	Rewritable
}

func (cw *Writer) Write(p []byte) (int, error) {
	count, err := cw.Writer.Write(p)
	cw.Bytes += int64(count)
	cw.Rewritable.Write(fmt.Sprintf("Wrote %s", humanize.Bytes(uint64(cw.Bytes))))
	return count, err
}

// DefaultFlushInterval is a reasonable default flush interval
const DefaultFlushInterval = time.Second / 30

// Rewritable represents a single line of output that is continuously replaced.
// A Rewritable with a nil Writer discards all output.
type Rewritable struct {
	Writer io.Writer

	FlushInterval  time.Duration // minimum time between flushes of the progress
	lastFlush      time.Time     // last time we flushed
	longestContent int           // longest content ever flushed
	content        string        // current content
}

// Write replaces the content of the line.
// The line is only flushed if FlushInterval has passed since the last flush.
func (rw *Rewritable) Write(value string) {
	rw.content = value
	rw.Flush(false)
}

// Flush writes the current content to the underlying writer.
func (rw *Rewritable) Flush(force bool) {
	if rw.Writer == nil {
		return
	}
	if !(force || time.Since(rw.lastFlush) > rw.FlushInterval) {
		return
	}

	if len(rw.content) >= rw.longestContent {
		rw.longestContent = len(rw.content)
	}

	// blank out whatever remains of longer content
	blank := strings.Repeat(" ", rw.longestContent-len(rw.content))
	fmt.Fprintf(rw.Writer, "\r%s%s", rw.content, blank)

	rw.lastFlush = time.Now()
}

// Close clears the line and moves the cursor back to its start.
func (rw *Rewritable) Close() {
	if rw.Writer == nil {
		return
	}
	rw.content = ""
	rw.Flush(true)
	_, _ = rw.Writer.Write([]byte("\r"))
}

// Counter is like a Reader, but reports how many items were processed.
type Counter struct {
	Noun  string // what is being counted, e.g. "triples"
	Count int64  // number of items counted (so far)

	Rewritable
}

// Add adds delta items to the count and updates the line.
func (ct *Counter) Add(delta int64) {
	ct.Count += delta
	ct.Rewritable.Write(fmt.Sprintf("%s %s", humanize.Comma(ct.Count), ct.Noun))
}

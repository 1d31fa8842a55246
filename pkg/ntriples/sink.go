package ntriples

import "sync/atomic"

// Sink consumes triples produced by a [Parser].
//
// Triple is called exactly once per statement, in input order.
// A non-nil error aborts the parse and is returned to the caller.
type Sink interface {
	Triple(subject Term, predicate Reference, object Term) error
}

// SinkFunc implements [Sink] using a function.
type SinkFunc func(subject Term, predicate Reference, object Term) error

func (sf SinkFunc) Triple(subject Term, predicate Reference, object Term) error {
	return sf(subject, predicate, object)
}

// Counter is a [Sink] that only counts the number of triples it receives.
// It is the default sink of a parser.
//
// The zero Counter is ready to use, and may be used concurrently.
type Counter struct {
	count atomic.Int64
}

func (counter *Counter) Triple(Term, Reference, Term) error {
	counter.count.Add(1)
	return nil
}

// Len returns the number of triples received so far.
func (counter *Counter) Len() int {
	return int(counter.count.Load())
}

// Collector is a [Sink] that stores all triples it receives in order.
type Collector struct {
	Triples []Triple
}

func (collector *Collector) Triple(subject Term, predicate Reference, object Term) error {
	collector.Triples = append(collector.Triples, Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	})
	return nil
}

// Len returns the number of triples collected.
func (collector *Collector) Len() int {
	return len(collector.Triples)
}

// MultiSink forwards each triple to every contained sink in order.
// Forwarding stops at the first sink returning an error.
type MultiSink []Sink

func (ms MultiSink) Triple(subject Term, predicate Reference, object Term) error {
	for _, sink := range ms {
		if err := sink.Triple(subject, predicate, object); err != nil {
			return err
		}
	}
	return nil
}

// Package store implements a deduplicating triple store that can be used as a parser sink.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/FAU-CDI/ntparse/pkg/imap"
	"github.com/FAU-CDI/ntparse/pkg/ntriples"
	"github.com/tkw1536/pkglib/iterator"
	"golang.org/x/exp/maps"
)

// Store holds a set of distinct triples in the order they were first received.
// It implements [ntriples.Sink] and is safe for concurrent use.
//
// Terms are stored by their N-Triples representation.
// Blank nodes are stored by label, so blank nodes from different parses with the same label are identical.
type Store struct {
	m sync.RWMutex

	terms   imap.IMap
	triples imap.KeyValueStore[imap.ID, Key]
	index   imap.KeyValueStore[Key, imap.ID]

	last  imap.ID // position of the last triple
	stats Stats
}

var _ ntriples.Sink = (*Store)(nil)

// New creates a new empty store using the given engine.
func New(engine Engine) (*Store, error) {
	store := &Store{
		stats: Stats{Predicates: make(map[ntriples.Reference]int)},
	}

	if err := store.terms.Reset(engine); err != nil {
		return nil, fmt.Errorf("failed to create term map: %w", err)
	}

	var err error
	store.triples, err = engine.Triples()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create triple storage: %w", err), store.terms.Close())
	}

	store.index, err = engine.Index()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create index storage: %w", err), store.triples.Close(), store.terms.Close())
	}

	return store, nil
}

// Triple adds a triple to this store.
// Triples that already exist are counted as duplicates and otherwise ignored.
func (store *Store) Triple(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) error {
	store.m.Lock()
	defer store.m.Unlock()

	return store.add(subject, predicate, object)
}

// Add adds several triples to this store at once, as if by calling Triple for each.
// No other triple is added in between.
func (store *Store) Add(triples ...ntriples.Triple) error {
	store.m.Lock()
	defer store.m.Unlock()

	for _, triple := range triples {
		if err := store.add(triple.Subject, triple.Predicate, triple.Object); err != nil {
			return err
		}
	}
	return nil
}

// add implements Triple.
// store.m must be held for writing.
func (store *Store) add(subject ntriples.Term, predicate ntriples.Reference, object ntriples.Term) error {
	var key Key
	for i, term := range [3]ntriples.Term{subject, predicate, object} {
		id, err := store.addTerm(term)
		if err != nil {
			return err
		}
		key[i] = id
	}

	exists, err := store.index.Has(key)
	if err != nil {
		return fmt.Errorf("failed to check for triple: %w", err)
	}
	if exists {
		store.stats.Duplicates++
		return nil
	}

	position := store.last
	position.Inc()

	if err := store.triples.Set(position, key); err != nil {
		return fmt.Errorf("failed to store triple: %w", err)
	}
	if err := store.index.Set(key, position); err != nil {
		return fmt.Errorf("failed to index triple: %w", err)
	}

	store.last = position
	store.stats.Triples++
	store.stats.Predicates[predicate]++
	return nil
}

// addTerm adds term to the term map and counts it if it is new.
// store.m must be held for writing.
func (store *Store) addTerm(term ntriples.Term) (imap.ID, error) {
	if term == nil {
		return imap.ID{}, errNilTerm
	}

	id, old, err := store.terms.AddNew(term.String())
	if err != nil {
		return id, fmt.Errorf("failed to add term: %w", err)
	}
	if old {
		return id, nil
	}

	store.stats.Terms++
	switch term.(type) {
	case ntriples.Reference:
		store.stats.References++
	case ntriples.BlankNode:
		store.stats.BlankNodes++
	case ntriples.Literal:
		store.stats.Literals++
	}
	return id, nil
}

var (
	errNilTerm       = errors.New("term must not be nil")
	errMissingTriple = errors.New("missing triple")
	errMissingTerm   = errors.New("missing term")
	errNotAReference = errors.New("predicate is not a reference")
	errStopIteration = errors.New("iteration stopped")
)

// Len returns the number of distinct triples in this store.
func (store *Store) Len() int {
	store.m.RLock()
	defer store.m.RUnlock()

	return store.stats.Triples
}

// Stats returns a copy of the statistics of this store.
func (store *Store) Stats() Stats {
	store.m.RLock()
	defer store.m.RUnlock()

	stats := store.stats
	stats.Predicates = maps.Clone(store.stats.Predicates)
	return stats
}

// Iterate calls f for every triple in this store, in the order they were first added.
// When f returns a non-nil error, iteration stops and the error is returned.
//
// f must not add triples to this store.
func (store *Store) Iterate(f func(triple ntriples.Triple) error) error {
	store.m.RLock()
	defer store.m.RUnlock()

	var position imap.ID
	for position.Less(store.last) {
		position.Inc()

		triple, err := store.get(position)
		if err != nil {
			return err
		}
		if err := f(triple); err != nil {
			return err
		}
	}
	return nil
}

// Triples returns an iterator over the triples in this store, in the order they were first added.
// The store is locked for reading until the iterator is exhausted or closed.
func (store *Store) Triples() iterator.Iterator[ntriples.Triple] {
	return iterator.New(func(sender iterator.Generator[ntriples.Triple]) {
		defer sender.Return()

		err := store.Iterate(func(triple ntriples.Triple) error {
			if sender.Yield(triple) {
				return errStopIteration
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			sender.YieldError(err)
		}
	})
}

// Export forwards every triple in this store to sink, in the order they were first added.
func (store *Store) Export(sink ntriples.Sink) error {
	return store.Iterate(func(triple ntriples.Triple) error {
		return sink.Triple(triple.Subject, triple.Predicate, triple.Object)
	})
}

// get decodes the triple at the given position.
// store.m must be held for reading.
func (store *Store) get(position imap.ID) (triple ntriples.Triple, err error) {
	key, ok, err := store.triples.Get(position)
	if err != nil {
		return triple, fmt.Errorf("failed to load triple %s: %w", position, err)
	}
	if !ok {
		return triple, fmt.Errorf("%w %s", errMissingTriple, position)
	}

	var terms [3]ntriples.Term
	for i, id := range key {
		if terms[i], err = store.term(id); err != nil {
			return triple, err
		}
	}

	predicate, ok := terms[1].(ntriples.Reference)
	if !ok {
		return triple, fmt.Errorf("triple %s: %w", position, errNotAReference)
	}

	return ntriples.Triple{Subject: terms[0], Predicate: predicate, Object: terms[2]}, nil
}

// term decodes the term with the given id.
func (store *Store) term(id imap.ID) (ntriples.Term, error) {
	label, ok, err := store.terms.Reverse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load term %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w %s", errMissingTerm, id)
	}

	term, err := ntriples.ParseTerm(label, false)
	if err != nil {
		return nil, fmt.Errorf("failed to decode term %s: %w", id, err)
	}
	return term, nil
}

// Finalize indicates that no more triples will be added, and compacts the underlying storages.
func (store *Store) Finalize() error {
	store.m.Lock()
	defer store.m.Unlock()

	return errors.Join(
		store.terms.Finalize(),
		store.triples.Compact(),
		store.index.Compact(),
	)
}

// Close closes all storages associated with this store.
func (store *Store) Close() error {
	store.m.Lock()
	defer store.m.Unlock()

	var errs [3]error
	errs[0] = store.terms.Close()
	if store.triples != nil {
		errs[1] = store.triples.Close()
		store.triples = nil
	}
	if store.index != nil {
		errs[2] = store.index.Close()
		store.index = nil
	}
	return errors.Join(errs[:]...)
}

// Package imap implements a bidirectional dictionary between labels and IDs.
package imap

import (
	"errors"
	"sync"
	"sync/atomic"
)

// IMap holds forward and reverse mappings from labels to IDs.
// Each distinct label is assigned a distinct valid ID, starting at 1, in insertion order.
//
// An IMap may be read concurrently; however any operations which change internal state are not safe to access concurrently.
//
// The zero map is not ready for use; it should be initialized using a call to [Reset].
type IMap struct {
	finalized atomic.Bool

	forward KeyValueStore[string, ID]
	reverse KeyValueStore[ID, string]

	id ID // last id inserted
}

// ErrFinalized is returned when attempting to modify a finalized IMap
var ErrFinalized = errors.New("IMap is finalized")

// Reset resets this IMap to be empty, closing any previously opened stores.
func (mp *IMap) Reset(engine Map) error {
	if err := mp.Close(); err != nil {
		return err
	}

	forward, err := engine.Forward()
	if err != nil {
		return err
	}

	reverse, err := engine.Reverse()
	if err != nil {
		return errors.Join(err, forward.Close())
	}

	mp.forward = forward
	mp.reverse = reverse
	mp.id.Reset()
	mp.finalized.Store(false)
	return nil
}

// Add inserts label into this IMap and returns the corresponding id.
// When label already exists in this IMap, returns the existing id.
func (mp *IMap) Add(label string) (ID, error) {
	id, _, err := mp.AddNew(label)
	return id, err
}

// AddNew behaves like Add, except additionally returns a boolean indicating if the returned id existed previously.
func (mp *IMap) AddNew(label string) (id ID, old bool, err error) {
	if mp.finalized.Load() {
		return id, false, ErrFinalized
	}

	id, old, err = mp.forward.Get(label)
	if err != nil || old {
		return id, old, err
	}

	id = mp.id.Inc()
	if err := mp.forward.Set(label, id); err != nil {
		return ID{}, false, err
	}
	if err := mp.reverse.Set(id, label); err != nil {
		return ID{}, false, err
	}
	return id, false, nil
}

// Forward returns the id corresponding to the given label.
// ok indicates if the label is contained in this map.
func (mp *IMap) Forward(label string) (id ID, ok bool, err error) {
	return mp.forward.Get(label)
}

// Reverse returns the label corresponding to the given id.
// ok indicates if the id is contained in this map.
func (mp *IMap) Reverse(id ID) (label string, ok bool, err error) {
	return mp.reverse.Get(id)
}

// Last returns the most recently assigned id.
// Every id between 1 and Last (inclusive) is contained in this map.
func (mp *IMap) Last() ID {
	return mp.id
}

// Len returns the number of labels in this map.
func (mp *IMap) Len() int {
	return int(mp.id.Uint32())
}

// Compact indicates to the implementation to perform any optimization of internal data structures.
func (mp *IMap) Compact() error {
	var errs [2]error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		errs[0] = mp.forward.Compact()
	}()

	go func() {
		defer wg.Done()
		errs[1] = mp.reverse.Compact()
	}()

	wg.Wait()
	return errors.Join(errs[:]...)
}

// Finalize indicates that no more labels will be added.
// Further calls to Add or AddNew return [ErrFinalized].
func (mp *IMap) Finalize() error {
	if mp.finalized.Swap(true) {
		return ErrFinalized
	}
	return mp.Compact()
}

// Close closes any storages related to this IMap.
//
// Calling close multiple times results in err = nil.
func (mp *IMap) Close() error {
	var errs [2]error

	if mp.forward != nil {
		errs[0] = mp.forward.Close()
		mp.forward = nil
	}
	if mp.reverse != nil {
		errs[1] = mp.reverse.Close()
		mp.reverse = nil
	}

	return errors.Join(errs[:]...)
}

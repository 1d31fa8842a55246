package imap

import "golang.org/x/exp/maps"

// MemoryMap holds forward and reverse mappings in memory.
// It implements Map.
type MemoryMap struct {
	FStorage MemoryStorage[string, ID]
	RStorage MemoryStorage[ID, string]
}

var _ Map = (*MemoryMap)(nil)

func (mm *MemoryMap) Forward() (KeyValueStore[string, ID], error) {
	if mm.FStorage == nil {
		mm.FStorage = make(MemoryStorage[string, ID])
	}
	return &mm.FStorage, nil
}

func (mm *MemoryMap) Reverse() (KeyValueStore[ID, string], error) {
	if mm.RStorage == nil {
		mm.RStorage = make(MemoryStorage[ID, string])
	}
	return &mm.RStorage, nil
}

// MemoryStorage implements KeyValueStore as an in-memory map
type MemoryStorage[Key comparable, Value any] map[Key]Value

// NewMemoryStorage creates a new empty MemoryStorage.
func NewMemoryStorage[Key comparable, Value any]() *MemoryStorage[Key, Value] {
	ms := make(MemoryStorage[Key, Value])
	return &ms
}

func (ms *MemoryStorage[Key, Value]) Set(key Key, value Value) error {
	(*ms)[key] = value
	return nil
}

// Get returns the given value if it exists
func (ms *MemoryStorage[Key, Value]) Get(key Key) (Value, bool, error) {
	value, ok := (*ms)[key]
	return value, ok, nil
}

// GetZero returns the value associated with Key, or the zero value otherwise.
func (ms *MemoryStorage[Key, Value]) GetZero(key Key) (Value, error) {
	return (*ms)[key], nil
}

func (ms *MemoryStorage[Key, Value]) Has(key Key) (bool, error) {
	_, ok := (*ms)[key]
	return ok, nil
}

// Delete deletes the given key from this storage
func (ms *MemoryStorage[Key, Value]) Delete(key Key) error {
	delete(*ms, key)
	return nil
}

// Iterate calls f for all entries in Storage.
// There is no guarantee on order.
//
// The set of keys is fixed when Iterate is called,
// so f may modify the storage.
func (ms *MemoryStorage[Key, Value]) Iterate(f func(Key, Value) error) error {
	for _, key := range maps.Keys(*ms) {
		value, ok := (*ms)[key]
		if !ok {
			continue
		}
		if err := f(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Close closes this MemoryStorage, deleting all values
func (ms *MemoryStorage[Key, Value]) Close() error {
	*ms = nil
	return nil
}

func (ms *MemoryStorage[Key, Value]) Count() (uint64, error) {
	return uint64(len(*ms)), nil
}

// Compact does nothing
func (ms *MemoryStorage[Key, Value]) Compact() error {
	return nil
}

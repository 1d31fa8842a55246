package imap

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// DiskMap represents a map that persistently stores data on disk.
// It implements Map.
type DiskMap struct {
	Path string
}

var _ Map = DiskMap{}

func (dm DiskMap) Forward() (KeyValueStore[string, ID], error) {
	ds, err := NewDiskStorage[string, ID](filepath.Join(dm.Path, "forward.leveldb"))
	if err != nil {
		return nil, err
	}

	ds.MarshalKey = MarshalString
	ds.UnmarshalKey = UnmarshalString
	ds.MarshalValue = MarshalID
	ds.UnmarshalValue = UnmarshalID

	return ds, nil
}

func (dm DiskMap) Reverse() (KeyValueStore[ID, string], error) {
	ds, err := NewDiskStorage[ID, string](filepath.Join(dm.Path, "reverse.leveldb"))
	if err != nil {
		return nil, err
	}

	ds.MarshalKey = MarshalID
	ds.UnmarshalKey = UnmarshalID
	ds.MarshalValue = MarshalString
	ds.UnmarshalValue = UnmarshalString

	return ds, nil
}

// MarshalString encodes a string as a slice of bytes.
func MarshalString(value string) ([]byte, error) {
	return []byte(value), nil
}

// UnmarshalString decodes a string from a slice of bytes.
func UnmarshalString(dest *string, src []byte) error {
	*dest = string(src)
	return nil
}

// NewDiskStorage creates a new disk-based storage at the given path.
// If the path already exists, it is deleted.
//
// Keys and values are encoded as json, unless the respective Marshal and Unmarshal fields are replaced.
func NewDiskStorage[Key comparable, Value any](path string) (*DiskStorage[Key, Value], error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.RemoveAll(path); err != nil {
			return nil, err
		}
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}

	storage := &DiskStorage[Key, Value]{
		DB: db,

		MarshalKey: func(key Key) ([]byte, error) {
			return json.Marshal(key)
		},
		UnmarshalKey: func(dest *Key, src []byte) error {
			return json.Unmarshal(src, dest)
		},
		MarshalValue: func(value Value) ([]byte, error) {
			return json.Marshal(value)
		},
		UnmarshalValue: func(dest *Value, src []byte) error {
			return json.Unmarshal(src, dest)
		},
	}
	return storage, nil
}

// DiskStorage implements KeyValueStore using a leveldb database.
//
// Iterate visits keys in the order of their encoded bytes.
type DiskStorage[Key comparable, Value any] struct {
	DB *leveldb.DB

	MarshalKey     func(key Key) ([]byte, error)
	UnmarshalKey   func(dest *Key, src []byte) error
	MarshalValue   func(value Value) ([]byte, error)
	UnmarshalValue func(dest *Value, src []byte) error
}

func (ds *DiskStorage[Key, Value]) Set(key Key, value Value) error {
	keyB, err := ds.MarshalKey(key)
	if err != nil {
		return err
	}
	valueB, err := ds.MarshalValue(value)
	if err != nil {
		return err
	}

	return ds.DB.Put(keyB, valueB, nil)
}

// Get returns the given value if it exists
func (ds *DiskStorage[Key, Value]) Get(key Key) (v Value, b bool, err error) {
	keyB, err := ds.MarshalKey(key)
	if err != nil {
		return v, b, err
	}

	valueB, err := ds.DB.Get(keyB, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, b, err
	}

	if err := ds.UnmarshalValue(&v, valueB); err != nil {
		return v, b, err
	}

	return v, true, nil
}

// GetZero returns the value associated with Key, or the zero value otherwise.
func (ds *DiskStorage[Key, Value]) GetZero(key Key) (Value, error) {
	value, _, err := ds.Get(key)
	return value, err
}

func (ds *DiskStorage[Key, Value]) Has(key Key) (bool, error) {
	keyB, err := ds.MarshalKey(key)
	if err != nil {
		return false, err
	}
	return ds.DB.Has(keyB, nil)
}

// Delete deletes the given key from this storage
func (ds *DiskStorage[Key, Value]) Delete(key Key) error {
	keyB, err := ds.MarshalKey(key)
	if err != nil {
		return err
	}
	return ds.DB.Delete(keyB, nil)
}

// Iterate calls f for all entries in Storage, ordered by their encoded key.
func (ds *DiskStorage[Key, Value]) Iterate(f func(Key, Value) error) error {
	it := ds.DB.NewIterator(nil, nil)
	defer it.Release()

	for it.Next() {
		var key Key
		if err := ds.UnmarshalKey(&key, it.Key()); err != nil {
			return err
		}
		var value Value
		if err := ds.UnmarshalValue(&value, it.Value()); err != nil {
			return err
		}
		if err := f(key, value); err != nil {
			return err
		}
	}
	return it.Error()
}

// Compact compacts the entire underlying database.
func (ds *DiskStorage[Key, Value]) Compact() error {
	return ds.DB.CompactRange(util.Range{})
}

func (ds *DiskStorage[Key, Value]) Close() error {
	var err error
	if ds.DB != nil {
		err = ds.DB.Close()
	}
	ds.DB = nil
	return err
}

// Count returns the number of objects in this DiskStorage.
func (ds *DiskStorage[Key, Value]) Count() (count uint64, err error) {
	it := ds.DB.NewIterator(nil, nil)
	defer it.Release()

	for it.Next() {
		count++
	}
	if err := it.Error(); err != nil {
		return 0, err
	}
	return count, nil
}

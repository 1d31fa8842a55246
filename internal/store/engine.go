package store

import (
	"path/filepath"

	"github.com/FAU-CDI/ntparse/pkg/imap"
)

// Key identifies a triple by the ids of its subject, predicate and object.
type Key [3]imap.ID

// MarshalKey encodes a key as a slice of bytes.
func MarshalKey(key Key) ([]byte, error) {
	return imap.EncodeIDs(key[:]...), nil
}

// UnmarshalKey decodes a key encoded with MarshalKey.
func UnmarshalKey(dest *Key, src []byte) error {
	return imap.UnmarshalIDs(src, &dest[0], &dest[1], &dest[2])
}

// Engine creates the storages used by a [Store].
type Engine interface {
	imap.Map

	// Triples maps the position of each triple to its key
	Triples() (imap.KeyValueStore[imap.ID, Key], error)

	// Index maps the key of each triple to its position
	Index() (imap.KeyValueStore[Key, imap.ID], error)
}

// NewEngine returns a DiskEngine at path, or a MemoryEngine if path is empty.
func NewEngine(path string) Engine {
	if path == "" {
		return &MemoryEngine{}
	}
	return DiskEngine{DiskMap: imap.DiskMap{Path: path}}
}

// MemoryEngine keeps everything in memory.
type MemoryEngine struct {
	imap.MemoryMap
}

func (*MemoryEngine) Triples() (imap.KeyValueStore[imap.ID, Key], error) {
	return imap.NewMemoryStorage[imap.ID, Key](), nil
}

func (*MemoryEngine) Index() (imap.KeyValueStore[Key, imap.ID], error) {
	return imap.NewMemoryStorage[Key, imap.ID](), nil
}

// DiskEngine keeps everything in leveldb databases inside a directory.
type DiskEngine struct {
	imap.DiskMap
}

func (de DiskEngine) Triples() (imap.KeyValueStore[imap.ID, Key], error) {
	ds, err := imap.NewDiskStorage[imap.ID, Key](filepath.Join(de.Path, "triples.leveldb"))
	if err != nil {
		return nil, err
	}

	ds.MarshalKey = imap.MarshalID
	ds.UnmarshalKey = imap.UnmarshalID
	ds.MarshalValue = MarshalKey
	ds.UnmarshalValue = UnmarshalKey

	return ds, nil
}

func (de DiskEngine) Index() (imap.KeyValueStore[Key, imap.ID], error) {
	ds, err := imap.NewDiskStorage[Key, imap.ID](filepath.Join(de.Path, "index.leveldb"))
	if err != nil {
		return nil, err
	}

	ds.MarshalKey = MarshalKey
	ds.UnmarshalKey = UnmarshalKey
	ds.MarshalValue = imap.MarshalID
	ds.UnmarshalValue = imap.UnmarshalID

	return ds, nil
}

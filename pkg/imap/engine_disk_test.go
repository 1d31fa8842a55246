package imap

import (
	"testing"
)

func TestDiskMap(t *testing.T) {
	dir := t.TempDir()
	mapTest(t, DiskMap{
		Path: dir,
	}, 10_000)
}

func TestDiskStorage_Iterate(t *testing.T) {
	ds, err := NewDiskStorage[ID, string](t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	ds.MarshalKey = MarshalID
	ds.UnmarshalKey = UnmarshalID

	// insert in reverse order
	const N = 1000
	var id ID
	for i := N; i > 0; i-- {
		if err := ds.Set(*id.SetUint32(uint32(i)), "value"); err != nil {
			t.Fatal(err)
		}
	}

	count, err := ds.Count()
	if err != nil || count != N {
		t.Errorf("Count() = %d, %v, want %d", count, err, N)
	}

	// iteration must be in order of ids
	var last ID
	if err := ds.Iterate(func(key ID, value string) error {
		if !last.Less(key) {
			t.Errorf("Iterate() visited %s after %s", key, last)
		}
		last = key
		return nil
	}); err != nil {
		t.Errorf("Iterate() returned error %s", err)
	}
	if last.Uint32() != N {
		t.Errorf("Iterate() ended at %s", last)
	}
}

package imap

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func ExampleIMap() {
	var mp IMap
	if err := mp.Reset(&MemoryMap{}); err != nil {
		panic(err)
	}
	defer mp.Close()

	add := func(label string) {
		id, old, err := mp.AddNew(label)
		fmt.Println("add", label, id, old, err)
	}

	add("hello")
	add("world")
	add("hello")

	id, ok, _ := mp.Forward("world")
	fmt.Println("forward", id, ok)

	label, ok, _ := mp.Reverse(id)
	fmt.Println("reverse", label, ok)

	_, ok, _ = mp.Forward("earth")
	fmt.Println("forward earth", ok)

	// Output: add hello ID(1) false <nil>
	// add world ID(2) false <nil>
	// add hello ID(1) true <nil>
	// forward ID(2) true
	// reverse world true
	// forward earth false
}

// mapTest performs a test for a given engine
func mapTest(t *testing.T, engine Map, N int) {
	t.Helper()

	var mp IMap
	if err := mp.Reset(engine); err != nil {
		t.Fatalf("Reset() returned error %s", err)
	}
	defer mp.Close()

	// add every label twice
	for round := 0; round < 2; round++ {
		for i := 0; i < N; i++ {
			id, old, err := mp.AddNew(strconv.Itoa(i))
			if err != nil {
				t.Fatalf("AddNew() returned error %s", err)
			}
			if old != (round == 1) {
				t.Errorf("AddNew(%d) in round %d returned old = %v", i, round, old)
			}
			if got, want := id.Uint32(), uint32(i+1); got != want {
				t.Errorf("AddNew(%d) got id = %d, want = %d", i, got, want)
			}
		}
	}

	if mp.Len() != N {
		t.Errorf("Len() = %d, want %d", mp.Len(), N)
	}

	// check that reverse mappings work
	var id ID
	for i := 1; i <= N; i++ {
		got, ok, err := mp.Reverse(*id.SetUint32(uint32(i)))
		if err != nil {
			t.Errorf("Reverse() returned error %s", err)
		}
		if want := strconv.Itoa(i - 1); !ok || got != want {
			t.Errorf("Reverse(%d) got = %q, %v, want = %q", i, got, ok, want)
		}
	}

	if err := mp.Finalize(); err != nil {
		t.Fatalf("Finalize() returned error %s", err)
	}
	if _, err := mp.Add("new"); !errors.Is(err, ErrFinalized) {
		t.Errorf("Add() after Finalize() returned error %v, want %v", err, ErrFinalized)
	}
	if _, ok, err := mp.Forward("0"); err != nil || !ok {
		t.Errorf("Forward() after Finalize() returned %v, %v", ok, err)
	}
}

func TestMemoryMap(t *testing.T) {
	mapTest(t, &MemoryMap{}, 10_000)
}

package imap

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ID identifies a single term inside an [IMap].
// Not all IDs are valid, see [Valid].
//
// Internally, an ID is a big endian encoded uint32.
// Users should not rely on the exact size of this type.
type ID [4]byte

// IDLen is the length of the ID type
const IDLen = len(ID{})

// Valid checks if this ID is valid, that is non-zero.
func (id ID) Valid() bool {
	return id != ID{}
}

// Reset resets this id to the invalid zero value
func (id *ID) Reset() {
	*id = ID{}
}

// Inc increments this ID, returning a copy of the new value.
// It is the equivalent of the "++" operator.
//
// When Inc() exceeds the maximum possible value for an ID, panics.
func (id *ID) Inc() ID {
	value := id.Uint32() + 1
	if value == 0 {
		panic("Inc: Overflow")
	}
	id.SetUint32(value)
	return *id
}

// Uint32 returns the numerical value of this id.
func (id ID) Uint32() uint32 {
	return binary.BigEndian.Uint32(id[:])
}

// SetUint32 sets the numerical value of this id.
// The ID is returned for convenience.
func (id *ID) SetUint32(value uint32) *ID {
	binary.BigEndian.PutUint32(id[:], value)
	return id
}

// Compare compares two ids, returning -1, 0 or +1.
// It can be passed to [slices.SortFunc].
func (id ID) Compare(other ID) int {
	left, right := id.Uint32(), other.Uint32()
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

// Less checks if id was produced by fewer calls to Inc than other.
func (id ID) Less(other ID) bool {
	return id.Compare(other) < 0
}

// String formats this id for debugging.
func (id ID) String() string {
	return fmt.Sprintf("ID(%d)", id.Uint32())
}

// Encode writes id into dest, which must be of at least size [IDLen].
//
// Comparing two encoded ids with [bytes.Compare] produces the same result as [Compare].
func (id ID) Encode(dest []byte) {
	_ = dest[IDLen-1] // boundary hint to compiler
	copy(dest, id[:])
}

// Decode sets this id to the value encoded at the start of src.
// src must be of at least size IDLen, or a runtime panic occurs.
func (id *ID) Decode(src []byte) {
	_ = src[IDLen-1] // boundary hint to compiler
	copy(id[:], src)
}

// EncodeIDs encodes ids sequentially into a new slice of bytes.
func EncodeIDs(ids ...ID) []byte {
	bytes := make([]byte, len(ids)*IDLen)
	for i, id := range ids {
		id.Encode(bytes[i*IDLen:])
	}
	return bytes
}

// DecodeIDs decodes ids encoded with [EncodeIDs].
// Trailing bytes not making up a full id are ignored.
func DecodeIDs(src []byte) []ID {
	ids := make([]ID, len(src)/IDLen)
	for i := range ids {
		ids[i].Decode(src[i*IDLen:])
	}
	return ids
}

// MarshalID encodes a single id into a new slice of bytes.
func MarshalID(id ID) ([]byte, error) {
	return EncodeIDs(id), nil
}

var errUnmarshal = errors.New("UnmarshalID: invalid length")

// UnmarshalID behaves like [dest.Decode], but returns an error
// when src holds too few bytes.
func UnmarshalID(dest *ID, src []byte) error {
	return UnmarshalIDs(src, dest)
}

// UnmarshalIDs is like UnmarshalID but decodes into every destination passed.
func UnmarshalIDs(src []byte, dests ...*ID) error {
	if len(src) < len(dests)*IDLen {
		return errUnmarshal
	}
	for i, dest := range dests {
		dest.Decode(src[i*IDLen:])
	}
	return nil
}

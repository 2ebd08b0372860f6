package stablehash

import (
	"fmt"
	"math/big"

	"github.com/shabbyrobe/go-num"
)

// List hashes an ordered sequence: each element at a freshly derived child
// address, then the element count at the list's own address. The trailing
// count is mandatory even though it is itself default-skippable, because
// without it a sequence ending in default values would collide with a
// shorter one ([1, 2, 0] versus [1, 2]). An empty list writes nothing.
type List[T Hashable] []T

func (l List[T]) StableHash(addr FieldAddress, hasher StableHasher) {
	for _, item := range l {
		item.StableHash(addr.NextChild(), hasher)
	}

	U64(len(l)).StableHash(addr, hasher)
}

// Map hashes an unordered key/value collection through the unordered
// aggregation protocol; iteration order of the native map never leaks into
// the digest. Keys go through [ToHashable] and panic when unsupported. An
// empty map writes nothing, hashing identically to an absent field.
type Map[K comparable, V Hashable] map[K]V

func (m Map[K, V]) StableHash(addr FieldAddress, hasher StableHasher) {
	if len(m) == 0 {
		return
	}

	unordered := NewUnordered(addr, hasher)
	for k, v := range m {
		unordered.Add(mapEntry{key: mustToHashable(k), value: v})
	}

	unordered.Fold(hasher)
}

// MapUnsafe is [Map] for maps of plain Go values; both keys and values go
// through [ToHashable] at hashing time and panic when unsupported.
type MapUnsafe[K comparable, V any] map[K]V

func (m MapUnsafe[K, V]) StableHash(addr FieldAddress, hasher StableHasher) {
	if len(m) == 0 {
		return
	}

	unordered := NewUnordered(addr, hasher)
	for k, v := range m {
		unordered.Add(mapEntry{key: mustToHashable(k), value: mustToHashable(v)})
	}

	unordered.Fold(hasher)
}

// Set hashes an unordered collection of unique members; members go through
// [ToHashable] and panic when unsupported. An empty set writes nothing.
type Set[T comparable] map[T]struct{}

func (s Set[T]) StableHash(addr FieldAddress, hasher StableHasher) {
	if len(s) == 0 {
		return
	}

	unordered := NewUnordered(addr, hasher)
	for member := range s {
		unordered.Add(mustToHashable(member))
	}

	unordered.Fold(hasher)
}

// mapEntry is one member of a map aggregate, a (key, value) pair at
// successive children of the shared member address.
type mapEntry struct {
	key   Hashable
	value Hashable
}

func (e mapEntry) StableHash(addr FieldAddress, hasher StableHasher) {
	e.key.StableHash(addr.NextChild(), hasher)
	e.value.StableHash(addr.NextChild(), hasher)
}

type Tuple2[T0, T1 Hashable] struct {
	Zero T0
	One  T1
}

func (t Tuple2[T0, T1]) StableHash(addr FieldAddress, hasher StableHasher) {
	t.Zero.StableHash(addr.NextChild(), hasher)
	t.One.StableHash(addr.NextChild(), hasher)
}

type Tuple3[T0, T1, T2 Hashable] struct {
	Zero T0
	One  T1
	Two  T2
}

func (t Tuple3[T0, T1, T2]) StableHash(addr FieldAddress, hasher StableHasher) {
	t.Zero.StableHash(addr.NextChild(), hasher)
	t.One.StableHash(addr.NextChild(), hasher)
	t.Two.StableHash(addr.NextChild(), hasher)
}

// ToHashable adapts a plain Go value to its stable hashing wrapper. Returns
// nil when the value's type has no adapter.
func ToHashable(value any) Hashable {
	switch v := value.(type) {
	case Hashable:
		return v
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case []byte:
		return Bytes(v)
	case uint8:
		return U8(v)
	case uint16:
		return U16(v)
	case uint32:
		return U32(v)
	case uint64:
		return U64(v)
	case uint:
		return Uint(v)
	case int8:
		return I8(v)
	case int16:
		return I16(v)
	case int32:
		return I32(v)
	case int64:
		return I64(v)
	case int:
		return Int(v)
	case num.U128:
		return U128(v)
	case *big.Int:
		return (*BigInt)(v)
	default:
		return nil
	}
}

func mustToHashable(value any) Hashable {
	out := ToHashable(value)
	if out == nil {
		panic(fmt.Errorf("value of type %T is not stable hashable", value))
	}

	return out
}

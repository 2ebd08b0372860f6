package stablehash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Both backends must uphold the same structural guarantees, every property
// below runs against the two of them.
var backends = map[string]func(Hashable) string{
	"fast": func(value Hashable) string {
		return FastHash(value).String()
	},
	"crypto": func(value Hashable) string {
		digest := CryptoHash(value)
		return hex.EncodeToString(digest[:])
	},
}

func forEachBackend(t *testing.T, test func(t *testing.T, hash func(Hashable) string)) {
	for name, hash := range backends {
		t.Run(name, func(t *testing.T) {
			test(t, hash)
		})
	}
}

// The digests below are part of the wire format: they were computed once and
// must never change. Any drift in the address arithmetic, the mixing
// constants, the payload framing or the serialized accumulator layout fails
// here before anything else does.
func TestCompat_PinnedDigests(t *testing.T) {
	value := &One[U32]{One: U32(5)}

	assert.Equal(t, "105083035535231802413532266965720569289", backends["fast"](value))
	assert.Equal(t, "639576f792406b6cbc0f66182f84ed09b84bdf887c9e489589c86fa0bde61966", backends["crypto"](value))
}

func TestCompat_Determinism(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		value := &Two[String]{One: "alpha", Two: "beta"}

		assert.Equal(t, hash(value), hash(value))
	})
}

func TestCompat_AddOptionalField(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		one := &One[U32]{One: U32(5)}
		two := &TwoOptional{One: U32(5), Two: None[U32]()}

		assert.Equal(t, hash(one), hash(two))
	})
}

func TestCompat_AddDefaultField(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		one := &One[String]{One: String("one")}
		two := &Two[String]{One: String("one"), Two: String("")}

		assert.Equal(t, hash(one), hash(two))
	})
}

func TestCompat_AddNonDefaultFieldChanges(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		one := &One[String]{One: String("one")}
		two := &Two[String]{One: String("one"), Two: String("x")}

		assert.NotEqual(t, hash(one), hash(two))
	})
}

func TestCompat_TupleOfEquivalentShapes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		one := &One[U32]{One: U32(5)}
		two := &TwoOptional{One: U32(5), Two: None[U32]()}

		left := Tuple2[*One[U32], *TwoOptional]{Zero: one, One: two}
		right := Tuple2[*TwoOptional, *One[U32]]{Zero: two, One: one}

		assert.Equal(t, hash(left), hash(right))
	})
}

func TestCompat_SomeDefaultIsNotNone(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		some := &One[Optional[U32]]{One: Some(U32(0))}
		none := &One[Optional[U32]]{One: None[U32]()}

		assert.NotEqual(t, hash(some), hash(none))
	})
}

func TestCompat_SkippedFieldKeepsLaterAddresses(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		elided := &SecondOnly{Two: U32(5)}
		defaulted := &Two[U32]{One: U32(0), Two: U32(5)}

		assert.Equal(t, hash(elided), hash(defaulted))
	})
}

func TestCompat_IntWidthIndependence(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		assert.Equal(t, hash(&One[U16]{One: U16(256)}), hash(&One[U64]{One: U64(256)}))
		assert.Equal(t, hash(&One[I8]{One: I8(-4)}), hash(&One[I64]{One: I64(-4)}))
		assert.NotEqual(t, hash(&One[I64]{One: I64(-4)}), hash(&One[I64]{One: I64(4)}))
	})
}

func TestCompat_BigIntMatchesFixedWidth(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		assert.Equal(t, hash(&One[Hashable]{One: NewBigInt(907)}), hash(&One[Hashable]{One: I64(907)}))
		assert.Equal(t, hash(&One[Hashable]{One: NewBigInt(-907)}), hash(&One[Hashable]{One: I64(-907)}))
		assert.Equal(t, hash(&One[Hashable]{One: NewBigInt(0)}), hash(&One[Hashable]{One: I64(0)}))
	})
}

func TestCompat_ListDefaultTail(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		// The trailing element count separates a sequence ending in defaults
		// from the truncated sequence.
		assert.NotEqual(t,
			hash(&One[List[U32]]{One: List[U32]{1, 2, 0}}),
			hash(&One[List[U32]]{One: List[U32]{1, 2}}),
		)

		// While positions separate permutations involving defaults.
		assert.NotEqual(t,
			hash(&One[List[U32]]{One: List[U32]{1, 0, 2}}),
			hash(&One[List[U32]]{One: List[U32]{0, 1, 2}}),
		)
	})
}

func TestCompat_ListWidthIndependence(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		assert.Equal(t,
			hash(&One[List[U16]]{One: List[U16]{1, 2, 3}}),
			hash(&One[List[U64]]{One: List[U64]{1, 2, 3}}),
		)
	})
}

func TestCompat_EmptyListIsDefault(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		one := &One[String]{One: String("one")}
		two := &TwoList{One: String("one")}

		assert.Equal(t, hash(one), hash(two))
	})
}

func TestCompat_MapOrderIndependent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		first := MapUnsafe[uint32, string]{1: "one", 2: "two", 3: "three"}
		second := MapUnsafe[uint32, string]{3: "three", 1: "one", 2: "two"}

		assert.Equal(t, hash(first), hash(second))
	})
}

func TestCompat_MapNotEqualCount(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		first := MapUnsafe[uint32, string]{1: "one", 2: "two", 3: "three", 0: ""}
		second := MapUnsafe[uint32, string]{3: "three", 1: "one", 2: "two"}

		assert.NotEqual(t, hash(first), hash(second))
	})
}

func TestCompat_MapNotEqualKey(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		first := MapUnsafe[uint32, string]{1: "one", 2: "two", 3: "three"}
		second := MapUnsafe[uint32, string]{9: "one", 2: "two", 3: "three"}

		assert.NotEqual(t, hash(first), hash(second))
	})
}

func TestCompat_MapNotEqualValue(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		first := MapUnsafe[uint32, string]{1: "X", 2: "two", 3: "three"}
		second := MapUnsafe[uint32, string]{1: "one", 2: "two", 3: "three"}

		assert.NotEqual(t, hash(first), hash(second))
	})
}

func TestCompat_MapNotEqualSwap(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		first := MapUnsafe[uint32, string]{1: "one", 2: "two"}
		second := MapUnsafe[uint32, string]{1: "two", 2: "one"}

		assert.NotEqual(t, hash(first), hash(second))
	})
}

func TestCompat_SetDuplicateSensitive(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		single := UnorderedStrings{"x"}
		double := UnorderedStrings{"x", "x"}

		assert.NotEqual(t, hash(single), hash(double))
	})
}

type One[T Hashable] struct {
	One T
}

func (o *One[T]) StableHash(addr FieldAddress, hasher StableHasher) {
	o.One.StableHash(addr.NextChild(), hasher)
}

type Two[T Hashable] struct {
	One T
	Two T
}

func (o *Two[T]) StableHash(addr FieldAddress, hasher StableHasher) {
	o.One.StableHash(addr.NextChild(), hasher)
	o.Two.StableHash(addr.NextChild(), hasher)
}

type TwoOptional struct {
	One U32
	Two Optional[U32]
}

func (o *TwoOptional) StableHash(addr FieldAddress, hasher StableHasher) {
	o.One.StableHash(addr.NextChild(), hasher)
	o.Two.StableHash(addr.NextChild(), hasher)
}

type TwoList struct {
	One String
	Two List[U32]
}

func (o *TwoList) StableHash(addr FieldAddress, hasher StableHasher) {
	o.One.StableHash(addr.NextChild(), hasher)
	o.Two.StableHash(addr.NextChild(), hasher)
}

// SecondOnly is Two with the first field removed from the schema, its number
// skipped to keep the second field's address.
type SecondOnly struct {
	Two U32
}

func (o *SecondOnly) StableHash(addr FieldAddress, hasher StableHasher) {
	addr.Skip(1)
	o.Two.StableHash(addr.NextChild(), hasher)
}

// UnorderedStrings hashes its members as an unordered collection, duplicates
// included.
type UnorderedStrings []String

func (s UnorderedStrings) StableHash(addr FieldAddress, hasher StableHasher) {
	unordered := NewUnordered(addr, hasher)
	for _, member := range s {
		unordered.Add(member)
	}

	unordered.Fold(hasher)
}

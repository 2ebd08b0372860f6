package stablehash

import "github.com/shabbyrobe/go-num"

// FastHash computes the non-cryptographic 128-bit stable digest of value.
// The digest does not depend on the process, the platform or the iteration
// order of native collections, and it is tolerant to limited schema
// evolution: fields holding their type's default value (0, false, "", empty
// collection, None) contribute nothing, so adding such a field does not
// change existing digests, and widening an integer's storage type does not
// either.
func FastHash(value Hashable) num.U128 {
	hasher := NewFastHasher()
	value.StableHash(NewFastAddress(), hasher)

	return hasher.Finish()
}

// CryptoHash computes the cryptographically strong 256-bit stable digest of
// value, suitable for identities verified across untrusted parties. It obeys
// the same determinism and schema evolution rules as [FastHash].
func CryptoHash(value Hashable) [32]byte {
	hasher := NewCryptoHasher()
	value.StableHash(NewBlake3SeqNo(), hasher)

	return hasher.Finish()
}

// Hashable is implemented by any value that can contribute to a stable
// digest. Implementations must be pure functions of the value's logical
// content, must not write anything when the value is its type's default, and
// must derive one child address per logical field, in an order that never
// changes across versions of the type (new fields go at the end, numbers of
// removed fields are skipped with [FieldAddress.Skip], never reused).
//
// Values are assumed to form a tree: hashing a cyclic structure is the
// caller's responsibility to break, for example by hashing a stable
// identifier instead of recursing.
type Hashable interface {
	StableHash(addr FieldAddress, hasher StableHasher)
}

// FieldAddress identifies where a value sits inside its containing value
// tree, so that omitted default fields cannot make differently shaped values
// collide. Addresses are derived incrementally: each call to NextChild
// advances a strictly increasing per-level ordinal and returns the address of
// that child's subtree. A StableHash call consumes the address it is given;
// callers that need to reuse one must Clone it first.
type FieldAddress interface {
	// NextChild returns the address of the next child at this nesting level
	// and advances the level's ordinal. Panics if the ordinal would overflow.
	NextChild() FieldAddress
	// Skip advances the ordinal past count children without deriving them,
	// preserving the addresses of later fields when earlier ones are elided.
	Skip(count uint64)
	// Clone returns an independent copy sharing no mutable state.
	Clone() FieldAddress

	String() string
}

// StableHasher accumulates writes into a digest that is stable across
// builds, platforms and processes. Each backend pairs with its own
// FieldAddress implementation; passing a mismatched address panics.
//
// A hasher is owned by a single goroutine; independent top-level hashes are
// safe concurrently because nothing is shared between hasher instances.
type StableHasher interface {
	// New returns a fresh hasher of the same backend.
	New() StableHasher
	// Write contributes one leaf field at the given address.
	Write(addr FieldAddress, bytes []byte)
	// Mixin merges the accumulated state of other into this hasher. The
	// operation is commutative and associative, which is what makes
	// unordered aggregation order-independent.
	Mixin(other StableHasher)
	// Unmix removes a previously mixed-in state, the exact inverse of Mixin.
	Unmix(other StableHasher)
	// ToBytes serializes the accumulator state. The layout is stable: the
	// fixed-width accumulator vector followed by the little-endian write
	// counter (32 bytes for the fast backend, 40 for the crypto one).
	ToBytes() []byte
}

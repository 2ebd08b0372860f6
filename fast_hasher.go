package stablehash

import (
	"fmt"

	"github.com/shabbyrobe/go-num"
	"github.com/zeebo/xxh3"
)

var _ StableHasher = (*FastHasher)(nil)

// FastHasher is the non-cryptographic backend: one mixing accumulator plus a
// write counter. It pairs with [FastAddress].
type FastHasher struct {
	mixer FldMix
	count uint64
}

func NewFastHasher() *FastHasher {
	return &FastHasher{
		mixer: NewFldMix(),
		count: 0,
	}
}

// NewFastHasherFromBytes restores a hasher from its 32-byte serialized state,
// as produced by ToBytes.
func NewFastHasherFromBytes(bytes []byte) (*FastHasher, error) {
	if len(bytes) != 32 {
		return nil, fmt.Errorf("accepting exactly 32 bytes, got %d", len(bytes))
	}

	mixer, err := NewFldMixFromBytes(bytes[0:24])
	if err != nil {
		return nil, fmt.Errorf("invalid mixer bytes: %w", err)
	}

	return &FastHasher{
		mixer: mixer,
		count: le.Uint64(bytes[24:32]),
	}, nil
}

// New implements StableHasher
func (*FastHasher) New() StableHasher {
	return NewFastHasher()
}

// Write implements StableHasher.
//
// The payload is hashed through xxh3-128, a stable, portable algorithm with
// no weaknesses listed on SMHasher (language-default hashers are randomized
// per process and can never be used here). The hash is keyed by the low half
// of the address rollup so that equal payloads at different structural
// positions stay distinct, and mixed in at the position tag taken from the
// high half.
func (h *FastHasher) Write(addr FieldAddress, bytes []byte) {
	address, ok := addr.(*FastAddress)
	if !ok {
		panic(fmt.Errorf("this hasher only accepts addresses of type *FastAddress, got %T", addr))
	}

	low, high := address.LowHigh()
	hash := hash128Seed(bytes, low)
	h.mixer.Mix(hash, high)
	h.count += 1
}

// Mixin implements StableHasher
func (h *FastHasher) Mixin(other StableHasher) {
	o := h.mustSameBackend(other)
	h.mixer.Mixin(&o.mixer)
	h.count += o.count
}

// Unmix implements StableHasher
func (h *FastHasher) Unmix(other StableHasher) {
	o := h.mustSameBackend(other)
	h.mixer.Unmix(&o.mixer)
	h.count -= o.count
}

// ToBytes implements StableHasher, 24 accumulator bytes then the write
// counter, all little endian.
func (h *FastHasher) ToBytes() (out []byte) {
	out = make([]byte, 32)
	copy(out[0:24], h.mixer.ToBytes())
	le.PutUint64(out[24:32], h.count)

	return
}

// Finish produces the final 128-bit digest. The write counter seeds the
// final hash so that an accumulator driven back to identity by cancelling
// mixes still differs from one that never saw a write.
func (h *FastHasher) Finish() num.U128 {
	return hash128Seed(h.mixer.ToBytes(), h.count)
}

func (h *FastHasher) mustSameBackend(other StableHasher) *FastHasher {
	o, ok := other.(*FastHasher)
	if !ok {
		panic(fmt.Errorf("this hasher only combines with *FastHasher, got %T", other))
	}

	return o
}

func hash128Seed(bytes []byte, seed uint64) num.U128 {
	hash := xxh3.Hash128Seed(bytes, seed)
	return num.U128FromRaw(hash.Hi, hash.Lo)
}

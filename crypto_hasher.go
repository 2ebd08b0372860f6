package stablehash

import (
	"encoding/binary"
	"fmt"

	"lukechampine.com/blake3"
)

var _ FieldAddress = (*Blake3SeqNo)(nil)

// Blake3SeqNo is the crypto backend's sequence number. Instead of an integer
// rollup it carries a whole blake3 hash state: deriving a child clones the
// parent's state and feeds the child's ordinal into the clone, so every
// position in the value tree owns a distinct hash state that already commits
// to the full path leading to it. Cloning is cheap because the blake3 hasher
// is a plain value, and a captured address can be reused for many operations
// within its subtree.
//
// The child ordinal is strictly positive: 0 is reserved for the payload
// marker written at finalization, which keeps "child ordinal" and "leaf
// payload" streams injective with respect to each other.
type Blake3SeqNo struct {
	hasher blake3.Hasher
	child  uint64
}

func NewBlake3SeqNo() FieldAddress {
	return &Blake3SeqNo{
		hasher: *blake3.New(32, nil),
		child:  1,
	}
}

// NextChild implements FieldAddress
func (s *Blake3SeqNo) NextChild() FieldAddress {
	child := s.child
	s.child++
	if s.child == 0 {
		panic("stablehash: child ordinal overflow")
	}

	clone := s.hasher

	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], child)
	clone.Write(buf[:n])

	return &Blake3SeqNo{
		hasher: clone,
		child:  1,
	}
}

// Skip implements FieldAddress
func (s *Blake3SeqNo) Skip(count uint64) {
	next := s.child + count
	if next < s.child {
		panic("stablehash: child ordinal overflow")
	}

	s.child = next
}

// Clone implements FieldAddress
func (s *Blake3SeqNo) Clone() FieldAddress {
	copied := *s
	return &copied
}

func (s *Blake3SeqNo) String() string {
	return fmt.Sprintf("blake3-seq-no/%d", s.child)
}

// finish consumes a copy of the address state over the payload: a 0x00
// marker byte (disjoint from every child ordinal varint), then the payload,
// finalized through the extendable-output function.
func (s *Blake3SeqNo) finish(payload []byte) (out [32]byte) {
	clone := s.hasher
	clone.Write([]byte{0})
	clone.Write(payload)
	clone.XOF().Read(out[:])

	return
}

var _ StableHasher = (*CryptoHasher)(nil)

// CryptoHasher is the cryptographically strong backend. Each write finalizes
// the field's blake3 address state over the payload into an independent
// 32-byte member digest, and the digests are aggregated lane-wise into four
// 64-bit wrapping sums. Hash contexts themselves are not invertible, but the
// lane sums form a group, which is what lets this backend support the same
// incremental Mixin/Unmix editing as the fast one.
type CryptoHasher struct {
	lanes [4]uint64
	count uint64
}

func NewCryptoHasher() *CryptoHasher {
	return &CryptoHasher{}
}

// NewCryptoHasherFromBytes restores a hasher from its 40-byte serialized
// state, as produced by ToBytes.
func NewCryptoHasherFromBytes(bytes []byte) (*CryptoHasher, error) {
	if len(bytes) != 40 {
		return nil, fmt.Errorf("accepting exactly 40 bytes, got %d", len(bytes))
	}

	out := &CryptoHasher{}
	for i := range out.lanes {
		out.lanes[i] = le.Uint64(bytes[i*8 : (i+1)*8])
	}
	out.count = le.Uint64(bytes[32:40])

	return out, nil
}

// New implements StableHasher
func (*CryptoHasher) New() StableHasher {
	return NewCryptoHasher()
}

// Write implements StableHasher
func (h *CryptoHasher) Write(addr FieldAddress, bytes []byte) {
	seqNo, ok := addr.(*Blake3SeqNo)
	if !ok {
		panic(fmt.Errorf("this hasher only accepts addresses of type *Blake3SeqNo, got %T", addr))
	}

	digest := seqNo.finish(bytes)
	for i := range h.lanes {
		h.lanes[i] += le.Uint64(digest[i*8 : (i+1)*8])
	}
	h.count += 1
}

// Mixin implements StableHasher
func (h *CryptoHasher) Mixin(other StableHasher) {
	o := h.mustSameBackend(other)
	for i := range h.lanes {
		h.lanes[i] += o.lanes[i]
	}
	h.count += o.count
}

// Unmix implements StableHasher
func (h *CryptoHasher) Unmix(other StableHasher) {
	o := h.mustSameBackend(other)
	for i := range h.lanes {
		h.lanes[i] -= o.lanes[i]
	}
	h.count -= o.count
}

// ToBytes implements StableHasher, 32 lane bytes then the write counter, all
// little endian.
func (h *CryptoHasher) ToBytes() (out []byte) {
	out = make([]byte, 40)
	for i, lane := range h.lanes {
		le.PutUint64(out[i*8:(i+1)*8], lane)
	}
	le.PutUint64(out[32:40], h.count)

	return
}

// Finish produces the final 256-bit digest by hashing the serialized
// accumulator (write counter included, for the same degenerate-cancellation
// reason as the fast backend) through the blake3 XOF.
func (h *CryptoHasher) Finish() (out [32]byte) {
	final := blake3.New(32, nil)
	final.Write(h.ToBytes())
	final.XOF().Read(out[:])

	return
}

func (h *CryptoHasher) mustSameBackend(other StableHasher) *CryptoHasher {
	o, ok := other.(*CryptoHasher)
	if !ok {
		panic(fmt.Errorf("this hasher only combines with *CryptoHasher, got %T", other))
	}

	return o
}

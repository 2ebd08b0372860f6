package stablehash

import "github.com/shabbyrobe/go-num"

// Adapters for primitive values. Every adapter writes nothing at all when
// the value is its type's default, which is what makes adding defaulted
// fields to a struct backward compatible.

type Bool bool

func (b Bool) StableHash(addr FieldAddress, hasher StableHasher) {
	if b {
		hasher.Write(addr, nil)
	}
}

type String string

func (s String) StableHash(addr FieldAddress, hasher StableHasher) {
	Bytes(s).StableHash(addr, hasher)
}

type Bytes []byte

func (b Bytes) StableHash(addr FieldAddress, hasher StableHasher) {
	if len(b) != 0 {
		hasher.Write(addr, b)
	}
}

// Some wraps a present optional value.
func Some[T Hashable](in T) Optional[T] {
	return Optional[T]{t: &in}
}

// None is the absent optional value; it hashes identically to the field not
// existing at all.
func None[T Hashable]() Optional[T] {
	return Optional[T]{t: nil}
}

// Optional hashes a presence flag at its first child, then the contained
// value at the optional's own address. The flag is what separates
// Some(default) from None, while None stays byte-for-byte identical to an
// absent field.
type Optional[T Hashable] struct {
	t *T
}

func (u Optional[T]) IsSome() bool {
	return u.t != nil
}

func (u Optional[T]) IsNone() bool {
	return u.t == nil
}

func (u Optional[T]) StableHash(addr FieldAddress, hasher StableHasher) {
	Bool(u.IsSome()).StableHash(addr.NextChild(), hasher)
	if u.IsSome() {
		(*u.t).StableHash(addr, hasher)
	}
}

type (
	U8   uint8
	U16  uint16
	U32  uint32
	U64  uint64
	Uint uint

	I8  int8
	I16 int16
	I32 int32
	I64 int64
	Int int
)

func (u U8) StableHash(addr FieldAddress, hasher StableHasher)   { hashUnsigned(uint64(u), addr, hasher) }
func (u U16) StableHash(addr FieldAddress, hasher StableHasher)  { hashUnsigned(uint64(u), addr, hasher) }
func (u U32) StableHash(addr FieldAddress, hasher StableHasher)  { hashUnsigned(uint64(u), addr, hasher) }
func (u U64) StableHash(addr FieldAddress, hasher StableHasher)  { hashUnsigned(uint64(u), addr, hasher) }
func (u Uint) StableHash(addr FieldAddress, hasher StableHasher) { hashUnsigned(uint64(u), addr, hasher) }

func (i I8) StableHash(addr FieldAddress, hasher StableHasher)  { hashSigned(int64(i), addr, hasher) }
func (i I16) StableHash(addr FieldAddress, hasher StableHasher) { hashSigned(int64(i), addr, hasher) }
func (i I32) StableHash(addr FieldAddress, hasher StableHasher) { hashSigned(int64(i), addr, hasher) }
func (i I64) StableHash(addr FieldAddress, hasher StableHasher) { hashSigned(int64(i), addr, hasher) }
func (i Int) StableHash(addr FieldAddress, hasher StableHasher) { hashSigned(int64(i), addr, hasher) }

type U128 num.U128

func (u U128) StableHash(addr FieldAddress, hasher StableHasher) {
	hi, lo := num.U128(u).Raw()

	var buf [16]byte
	le.PutUint64(buf[0:8], lo)
	le.PutUint64(buf[8:16], hi)

	hashInt(false, buf[:], addr, hasher)
}

func hashUnsigned(value uint64, addr FieldAddress, hasher StableHasher) {
	var buf [8]byte
	le.PutUint64(buf[:], value)

	hashInt(false, buf[:], addr, hasher)
}

func hashSigned(value int64, addr FieldAddress, hasher StableHasher) {
	negative := value < 0
	magnitude := uint64(value)
	if negative {
		// Wrapping negation, so the most negative value keeps its own bytes.
		magnitude = uint64(-value)
	}

	var buf [8]byte
	le.PutUint64(buf[:], magnitude)

	hashInt(negative, buf[:], addr, hasher)
}

// hashInt encodes sign and magnitude separately: the sign as a
// default-skippable bool at the first child, the magnitude as its
// little-endian bytes with trailing zeros trimmed at the integer's own
// address. Trimming is what makes widening an integer's storage type a
// digest-preserving change, and zero magnitudes write nothing at all.
func hashInt(negative bool, littleEndian []byte, addr FieldAddress, hasher StableHasher) {
	Bool(negative).StableHash(addr.NextChild(), hasher)

	canonical := trimZeros(littleEndian)
	if len(canonical) > 0 {
		hasher.Write(addr, canonical)
	}
}

func trimZeros(bytes []byte) []byte {
	end := len(bytes)
	for end != 0 && bytes[end-1] == 0 {
		end -= 1
	}

	return bytes[0:end]
}

func reverseBytesInPlace(bytes []byte) []byte {
	for i, j := 0, len(bytes)-1; i < j; i, j = i+1, j-1 {
		bytes[i], bytes[j] = bytes[j], bytes[i]
	}

	return bytes
}

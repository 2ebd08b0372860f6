package stablehash

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/shabbyrobe/go-num"
)

// FldMix aggregates an unordered, duplicate-permitting collection of 128-bit
// hashes into one 192-bit value. The combination rule
//
//	u(x, y) = P + Q*(x + y) + R*x*y  (mod 2^192)
//
// is commutative and associative with identity I, and every accumulator state
// has an exact inverse, so members can be added in any order and removed
// again without recomputing the whole aggregate. A plain sum or xor of member
// hashes would lose duplicate counts and be trivial to cancel; the polynomial
// keeps the group structure while entangling the seed-derived position tag
// with the member hash.
type FldMix U192

var (
	FLDMIX_P = U192{2305843009213693959, 2305843009213693950, 0}
	FLDMIX_Q = U192{18446744073709551609, 0, 0}
	FLDMIX_R = U192{8, 0, 0}
	FLDMIX_I = U192{
		16140901064495857665,
		18446744073709551615,
		18446744073709551615,
	}
)

var le = binary.LittleEndian

func NewFldMix() FldMix {
	return FldMix(FLDMIX_I)
}

func NewFldMixFromBytes(bytes []byte) (FldMix, error) {
	if len(bytes) != 24 {
		return FldMix{}, fmt.Errorf("accepting exactly 24 bytes, got %d", len(bytes))
	}

	v0 := le.Uint64(bytes[0:8])
	v1 := le.Uint64(bytes[8:16])
	v2 := le.Uint64(bytes[16:24])

	return FldMix(U192{v0, v1, v2}), nil
}

// Mix folds one externally computed 128-bit hash into the accumulator. The
// seed is the position tag derived from the field address; its top bit is
// masked off so the injected element always stays below the group modulus
// headroom used by the identity.
func (m *FldMix) Mix(value num.U128, seed uint64) {
	hi, low := value.Raw()

	v0 := seed & (math.MaxUint64 >> 1)
	v1 := low
	v2 := hi

	self := (*U192)(m)
	*self = fldmix_u(U192(*m), U192{v0, v1, v2})
}

// Mixin merges another accumulator into this one (the group operation).
func (m *FldMix) Mixin(value *FldMix) {
	self := (*U192)(m)
	*self = fldmix_u(U192(*m), U192(*value))
}

// Unmix removes a previously mixed-in accumulator, the exact inverse of
// Mixin: for any a and b, a.Mixin(b) followed by a.Unmix(b) leaves a
// unchanged.
//
// Solving u(x, y) = z for x gives x = (z - P - Q*y) / (Q + R*y); the divisor
// is always odd (Q is odd, R is even) so the inverse modulo 2^192 exists.
func (m *FldMix) Unmix(value *FldMix) {
	z := U192(*m)
	y := U192(*value)

	numerator := z.Sub(FLDMIX_P).Sub(FLDMIX_Q.Mul(y))
	divisor := FLDMIX_Q.Add(FLDMIX_R.Mul(y))

	self := (*U192)(m)
	*self = numerator.Mul(divisor.Invert())
}

func (m *FldMix) ToBytes() (out []byte) {
	data := (*U192)(m)
	out = make([]byte, 24)
	le.PutUint64(out[0:8], data[0])
	le.PutUint64(out[8:16], data[1])
	le.PutUint64(out[16:24], data[2])

	return
}

func (m *FldMix) combine(value FldMix) {
	self := (*U192)(m)
	*self = fldmix_u(U192(*m), U192(value))
}

func fldmix_u(x, y U192) U192 {
	qMulXPlusY := FLDMIX_Q.Mul(x.Add(y))
	rMulXMulY := FLDMIX_R.Mul(x.Mul(y))

	return FLDMIX_P.Add(qMulXPlusY.Add(rMulXMulY))
}

package stablehash

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shabbyrobe/go-num"
	"golang.org/x/exp/constraints"
)

// MAX_U192 is the max value of type U192 equivalent to 6277101735386680763835789423207666416102355444464034512895
var MAX_U192 = U192{math.MaxUint64, math.MaxUint64, math.MaxUint64}

// U192 is an unsigned 192-bit integer with wrapping arithmetic, stored as
// three little-endian 64-bit limbs. It only implements what the mixing
// accumulator needs.
type U192 [3]uint64

func NewU192() (out U192) {
	return out
}

func NewU192FromString(x string) (out U192, err error) {
	number := big.Int{}
	_, success := number.SetString(x, 0)
	if !success {
		return out, fmt.Errorf("invalid input %q", x)
	}

	return NewU192FromBigInt(&number)
}

func MustNewU192FromString(x string) (out U192) {
	out, err := NewU192FromString(x)
	if err != nil {
		panic(fmt.Errorf("invalid string for U192: %w", err))
	}

	return out
}

var _ big.Word = big.Word(18446744073709551615)

func NewU192FromBigInt(x *big.Int) (out U192, err error) {
	if x == nil {
		return out, fmt.Errorf("cannot be nil")
	}

	if x.Sign() <= -1 {
		return out, fmt.Errorf("only unsigned integer accepted, got %q", x)
	}

	if bitCount := x.BitLen(); bitCount > 192 {
		return out, fmt.Errorf("has %d bits but U192 accepts a maximum of 192 bits", bitCount)
	}

	words := x.Bits()
	switch len(words) {
	case 0:
		break

	case 1:
		out[0] = uint64(words[0])

	case 2:
		out[0] = uint64(words[0])
		out[1] = uint64(words[1])

	case 3:
		out[0] = uint64(words[0])
		out[1] = uint64(words[1])
		out[2] = uint64(words[2])

	default:
		// This can happen only on 32 bits platform
		panic(fmt.Errorf("32 bits platform not supported"))
	}

	return
}

func MustNewU192FromBigInt(x *big.Int) (out U192) {
	out, err := NewU192FromBigInt(x)
	if err != nil {
		panic(fmt.Errorf("invalid *big.Int for U192: %w", err))
	}

	return out
}

func (left U192) Mul(right U192) U192 {
	multAt := func(l int, r int) (uint64, uint64) {
		v := num.U128From64(left[l]).Mul64(right[r])
		hi, low := v.Raw()
		return low, hi
	}

	r0, r1 := multAt(0, 0)
	low, hi0 := multAt(1, 0)
	r1, overflow0 := overflowingAdd(low, r1)
	low, hi1 := multAt(0, 1)
	r1, overflow1 := overflowingAdd(low, r1)

	// Limb 2 wraps, every cross product above it falls off the top.
	r2 := (hi0 + bool_to_uint64(overflow0)) +
		(hi1 + bool_to_uint64(overflow1)) +
		(left[2] * right[0]) +
		(left[1] * right[1]) +
		(left[0] * right[2])

	return U192{r0, r1, r2}
}

func (left U192) Add(right U192) U192 {
	r0, overflow0 := overflowingAdd(left[0], right[0])
	res, overflow1a := overflowingAdd(left[1], right[1])
	r1, overflow1b := overflowingAdd(res, bool_to_uint64(overflow0))

	r2 := left[2] + right[2] + (bool_to_uint64(overflow1a) + bool_to_uint64(overflow1b))

	return U192{r0, r1, r2}
}

func (left U192) Sub(right U192) U192 {
	r0, overflow0 := overflowingSub(left[0], right[0])
	res, overflow1a := overflowingSub(left[1], right[1])
	r1, overflow1b := overflowingSub(res, bool_to_uint64(overflow0))

	r2 := left[2] - right[2] - (bool_to_uint64(overflow1a) + bool_to_uint64(overflow1b))

	return U192{r0, r1, r2}
}

var u192Two = U192{2, 0, 0}

// Invert returns the multiplicative inverse of left modulo 2^192. The
// receiver must be odd (even numbers have no inverse in this ring).
//
// Newton iteration doubles the number of correct low bits each round: for an
// odd a, a is its own inverse modulo 8, and six rounds lift 3 correct bits to
// 192.
func (left U192) Invert() U192 {
	if left[0]&1 == 0 {
		panic(fmt.Errorf("U192 %s is even, no inverse modulo 2^192", left))
	}

	x := left
	for i := 0; i < 6; i++ {
		x = x.Mul(u192Two.Sub(left.Mul(x)))
	}

	return x
}

func (left U192) String() string {
	return left.asBigInt().String()
}

func (left U192) asBigInt() *big.Int {
	return (&big.Int{}).SetBits([]big.Word{big.Word(left[0]), big.Word(left[1]), big.Word(left[2])})
}

func overflowingAdd[T constraints.Unsigned](a T, b T) (c T, overflow bool) {
	c = a + b
	return c, c < a
}

func overflowingSub[T constraints.Unsigned](a T, b T) (c T, overflow bool) {
	c = a - b
	return c, b > a
}

func bool_to_uint64(x bool) uint64 {
	if x {
		return 1
	}

	return 0
}

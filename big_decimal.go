package stablehash

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Max significant digits accepted by `graph-node`
//
// See https://github.com/graphprotocol/graph-node/blob/9d013f75f2a565e3d126737593e3a30d1b2f212e/graph/src/data/store/scalar.rs#L46
const MAX_SIGNIFICANT_DIGITS = uint64(34)

var bigZero = big.NewInt(0)
var bigOne = big.NewInt(1)
var bigTwo = big.NewInt(2)
var bigFive = big.NewInt(5)
var bigTen = big.NewInt(10)

// BigInt hashes an arbitrary-precision integer exactly like the fixed-width
// signed adapters, so a value that fits in an I64 hashes the same through
// either type.
type BigInt big.Int

func NewBigInt(value int64) *BigInt {
	return (*BigInt)(big.NewInt(value))
}

func NewBigIntFromString(s string) (*BigInt, error) {
	out, ok := (&big.Int{}).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal integer %q", s)
	}

	return (*BigInt)(out), nil
}

func (b *BigInt) String() string {
	return (*big.Int)(b).String()
}

func (b *BigInt) StableHash(addr FieldAddress, hasher StableHasher) {
	i := (*big.Int)(b)

	// Bytes() is the big-endian magnitude without leading zeros, reversed it
	// is exactly the canonical little-endian form hashInt expects.
	hashInt(i.Sign() < 0, reverseBytesInPlace(i.Bytes()), addr, hasher)
}

// BigDecimal replicates `graph-node` way of representing, parsing and
// normalizing big decimal values.
//
// The goal of this type is not for **arithmetic** at all. Its sole purpose is
// to parse a number just like `graph-node` would do it for deterministic
// stable hashing purposes.
type BigDecimal struct {
	Int   *big.Int
	Scale int64
}

func NewBigDecimalFromString(s string) (BigDecimal, error) {
	base_part, exponent_value := s, int64(0)
	if loc := strings.IndexAny(s, "eE"); loc != -1 {
		// slice up to `loc` and 1 after to skip the 'e' char, a leading '+'
		// on the exponent is accepted but meaningless
		base, expRaw := s[:loc], strings.TrimPrefix(s[loc+1:], "+")

		exp, err := strconv.ParseInt(expRaw, 0, 64)
		if err != nil {
			return BigDecimal{}, fmt.Errorf("invalid exponent value %q: %w", expRaw, err)
		}

		base_part = base
		exponent_value = exp
	}

	if base_part == "" {
		return BigDecimal{}, fmt.Errorf("failed to parse empty string")
	}

	digits, decimal_offset := base_part, int64(0)
	if loc := strings.IndexAny(base_part, "."); loc != -1 {
		// copy leading characters + trailing characters after '.' into the
		// digits string
		lead, trail := base_part[:loc], base_part[loc+1:]

		digits = lead + trail
		decimal_offset = int64(len(trail))
	}

	scale := decimal_offset - exponent_value
	big_int, ok := (&big.Int{}).SetString(digits, 10)
	if !ok {
		return BigDecimal{}, fmt.Errorf("invalid digits part %q", digits)
	}

	out := BigDecimal{Int: big_int, Scale: scale}
	out.normalizeInPlace()

	return out, nil
}

func (b BigDecimal) String() string {
	if b.Scale <= 0 {
		unscaled := (&big.Int{}).Mul(b.Int, ten_to_the(uint64(-b.Scale)))
		return unscaled.String()
	}

	sign, digits := "", b.Int.String()
	if b.Int.Sign() < 0 {
		sign, digits = "-", digits[1:]
	}

	if int64(len(digits)) <= b.Scale {
		return sign + "0." + strings.Repeat("0", int(b.Scale)-len(digits)) + digits
	}

	split := int64(len(digits)) - b.Scale
	return sign + digits[:split] + "." + digits[split:]
}

// StableHash writes the scale at the first child and the normalized
// coefficient at the decimal's own address, so 10, 10.0 and 1e1 all hash
// identically and a whole decimal hashes differently from the bare integer
// of its coefficient only through the scale child.
func (b BigDecimal) StableHash(addr FieldAddress, hasher StableHasher) {
	normalized := BigDecimal{Int: (&big.Int{}).Set(b.Int), Scale: b.Scale}
	normalized.normalizeInPlace()

	I64(normalized.Scale).StableHash(addr.NextChild(), hasher)
	(*BigInt)(normalized.Int).StableHash(addr, hasher)
}

func (b *BigDecimal) isZero() bool {
	// The `Sign` call on big.Int returns 0 if number is equal 0 (-1 or 1 otherwise)
	return b.Scale == 0 && b.Int.Sign() == 0
}

func (b *BigDecimal) normalizeInPlace() {
	if b.isZero() {
		return
	}

	// Round to the maximum significant digits.
	b.withPrecisionInPlace(MAX_SIGNIFICANT_DIGITS)

	bigint, exp := b.Int, b.Scale
	trace("normalized: as bigint and exponent (bigint %s, exp %d)", bigint, exp)

	sign, digits := bigint.Sign(), bigint.Abs(bigint).String()
	trace("normalized: decimal digits (sign %s, digits (str) %s)", Sign(sign), digits)

	digits, trailingCount := trailingZeroTruncated(digits)
	trace("normalized: trailing_count %d", trailingCount)
	trace("normalized: digits truncated %s", digits)

	b.Int, _ = (&big.Int{}).SetString(digits, 10)
	if sign == -1 {
		b.Int = b.Int.Neg(b.Int)
	}
	trace("normalized: int_val %s", b.Int)

	b.Scale = exp - trailingCount
	trace("normalized: scale %d", b.Scale)
}

func trailingZeroTruncated(in string) (string, int64) {
	out := strings.TrimRight(in, "0")
	return out, int64(len(in) - len(out))
}

func (b *BigDecimal) withPrecisionInPlace(prec uint64) {
	digits := b.digits()
	trace("with_prec: digits %d", digits)

	if digits > prec {
		trace("with_prec: digits > prec")

		diff := digits - prec
		p := ten_to_the(diff)

		var q *big.Int
		q, r := (&big.Int{}).QuoRem(b.Int, p, &big.Int{})
		trace("with_prec: digits > prec (q %s, r %s)", q, r)

		// check for "leading zero" in remainder term; otherwise round
		tenTimesR := (&big.Int{}).Mul(bigTen, r)
		if p.Cmp(tenTimesR) == -1 {
			roundingTerm := get_rounding_term(r)
			q = q.Add(q, roundingTerm)
			trace("with_prec: digits > prec adding rounding term %s", roundingTerm)
		}

		b.Int = q
		b.Scale = b.Scale - int64(diff)
		trace("with_prec: digits > prec got (bigint %s, exp %d)", b.Int, b.Scale)

		return
	}

	if digits < prec {
		trace("with_prec: digits < prec")

		diff := prec - digits
		p := ten_to_the(diff)

		b.Int = (p).Mul(b.Int, p)
		b.Scale = b.Scale + int64(diff)
		trace("with_prec: digits < prec got (bigint %s, exp %d)", b.Int, b.Scale)

		return
	}

	trace("with_prec: digits == prec")
}

// digits gives number of digits in the non-scaled integer representation
func (b *BigDecimal) digits() uint64 {
	bInt := b.Int
	if bInt.Sign() == 0 {
		return 1
	}

	// guess number of digits based on number of bits, 2^10 being roughly
	// 10^3, then correct upward
	bits := uint(bInt.BitLen())
	trace("digits: bits %d", bits)

	digits := uint64(float64(bits) / 3.3219280949)
	trace("digits: guess digits %d", digits)

	num := ten_to_the(digits)
	trace("digits: num %s", num)

	for bInt.Cmp(num) >= 0 {
		num = num.Mul(num, bigTen)
		digits += 1
		trace("digits: add one digit")
	}

	trace("digits: final digits %d", digits)
	return digits
}

func ten_to_the(pow uint64) *big.Int {
	return (&big.Int{}).Exp(bigTen, big.NewInt(int64(pow)), nil)
}

func get_rounding_term(num *big.Int) *big.Int {
	if num.Sign() == 0 {
		return bigZero
	}

	bits := uint(num.BitLen()) - num.TrailingZeroBits()
	digits := uint64(float64(bits) / 3.3219280949)

	n := ten_to_the(digits)

	for {
		if num.Cmp(n) == -1 {
			return bigOne
		}

		n = n.Mul(n, bigFive)
		if num.Cmp(n) == -1 {
			return bigZero
		}

		n = n.Mul(n, bigTwo)
	}
}

type Sign int

func (s Sign) String() string {
	if s <= -1 {
		return "SignMinus"
	}

	if s >= 1 {
		return "SignPlus"
	}

	return "NoSign"
}

// DEBUG_BIGDECIMAL the logging tracer is so heavy if activated by default that it's worth
// putting all the tracing support behind a manually activated flag.
//
// **Important** Don't forget to set it back to false once you have debugged enough
const DEBUG_BIGDECIMAL = false

// trace traces the following print statement through `zlog` logger if [DEBUG_BIGDECIMAL]
// in-code static variable is set to `true` (needs to be manually changed and program re-compiled
// to have an effect) and if `tracer` is enabled.
func trace(msg string, args ...any) {
	if DEBUG_BIGDECIMAL && tracer.Enabled() {
		zlog.Debug(fmt.Sprintf(msg, args...))
	}
}

package stablehash

import (
	"fmt"

	"github.com/shabbyrobe/go-num"
)

var _ FieldAddress = (*FastAddress)(nil)

// FastAddress is the fast backend's sequence number. The rollup is a 128-bit
// path accumulator: each derived child folds its ordinal into the parent's
// rollup, so two different paths through a value tree land on different
// rollups. The low 64 bits seed the per-write keyed hash, the high 64 bits
// select the mixing position (see FastHasher.Write).
type FastAddress struct {
	rollup num.U128
	child  uint64
}

const fastAddressPrime = 486_187_739

func NewFastAddress() FieldAddress {
	return &FastAddress{
		rollup: num.U128From64(17),
		child:  1,
	}
}

// NextChild implements FieldAddress
func (a *FastAddress) NextChild() FieldAddress {
	child := a.child
	a.child++
	if a.child == 0 {
		panic("stablehash: child ordinal overflow")
	}

	return &FastAddress{
		rollup: a.rollup.Mul64(fastAddressPrime).Add64(child),
		child:  1,
	}
}

// Skip implements FieldAddress
func (a *FastAddress) Skip(count uint64) {
	next := a.child + count
	if next < a.child {
		panic("stablehash: child ordinal overflow")
	}

	a.child = next
}

// Clone implements FieldAddress
func (a *FastAddress) Clone() FieldAddress {
	copied := *a
	return &copied
}

func (a *FastAddress) LowHigh() (low, high uint64) {
	high, low = a.rollup.Raw()
	return
}

func (a *FastAddress) String() string {
	return fmt.Sprintf("%s/%d", a.rollup.String(), a.child)
}

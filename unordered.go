package stablehash

import "fmt"

// Unordered folds an unordered, duplicate-permitting collection of members
// into one structural contribution, independent of insertion order. Every
// member is hashed through its own fresh hasher at a clone of a single
// shared member address: sharing the address is what keeps the collection
// unordered, while the independent hasher severs any relationship between
// one member's internal addresses and its siblings'. The per-member states
// are merged into a running accumulator through the backend's group
// operation, so members can also be removed again in O(1), which is what
// long-lived, incrementally maintained sets need.
//
// An Unordered is created against the field address of the collection; Fold
// writes the aggregate into an outer hasher as that field. The accumulator
// can be persisted with ToBytes and revived later with NewUnorderedFromBytes
// to continue editing across process restarts.
type Unordered struct {
	rollup    FieldAddress
	member    FieldAddress
	countAddr FieldAddress

	acc   StableHasher
	count uint64
}

// NewUnordered derives the three addresses the aggregate needs (rollup,
// shared member address, cardinality) up front from addr, so they stay
// stable no matter how many members are added later. The hasher only serves
// as the backend prototype, it is not written to.
func NewUnordered(addr FieldAddress, hasher StableHasher) *Unordered {
	return &Unordered{
		rollup:    addr.NextChild(),
		member:    addr.NextChild(),
		countAddr: addr.NextChild(),
		acc:       hasher.New(),
	}
}

// NewUnorderedFromBytes revives a persisted aggregate. The accumulator bytes
// must come from the same backend as hasher, and count must be the member
// count the aggregate held when it was serialized.
func NewUnorderedFromBytes(addr FieldAddress, hasher StableHasher, accumulator []byte, count uint64) (*Unordered, error) {
	out := NewUnordered(addr, hasher)

	switch hasher.(type) {
	case *FastHasher:
		acc, err := NewFastHasherFromBytes(accumulator)
		if err != nil {
			return nil, fmt.Errorf("invalid fast accumulator: %w", err)
		}
		out.acc = acc

	case *CryptoHasher:
		acc, err := NewCryptoHasherFromBytes(accumulator)
		if err != nil {
			return nil, fmt.Errorf("invalid crypto accumulator: %w", err)
		}
		out.acc = acc

	default:
		return nil, fmt.Errorf("unknown hasher backend %T", hasher)
	}

	out.count = count
	return out, nil
}

// Add mixes one member into the aggregate.
func (u *Unordered) Add(member Hashable) {
	u.acc.Mixin(u.hashMember(member))
	u.count++
}

// Remove unmixes a previously added member. Removing a member that was never
// added corrupts the aggregate silently for the accumulator itself, but an
// empty aggregate refuses to go negative.
func (u *Unordered) Remove(member Hashable) {
	if u.count == 0 {
		panic("stablehash: removing a member from an empty unordered aggregate")
	}

	u.acc.Unmix(u.hashMember(member))
	u.count--
}

// Count returns the current member count.
func (u *Unordered) Count() uint64 {
	return u.count
}

// ToBytes serializes the running accumulator; pair it with Count when
// persisting.
func (u *Unordered) ToBytes() []byte {
	return u.acc.ToBytes()
}

// Fold writes the aggregate into hasher as the collection field this
// Unordered was created for: the accumulator state at the rollup address and
// the cardinality at the count address. The cardinality always contributes
// here (count is at least one: empty collections are default-skipped by the
// adapters before an aggregate is ever folded), so a one-member collection
// can never collide with a differently sized one.
func (u *Unordered) Fold(hasher StableHasher) {
	hasher.Write(u.rollup.Clone(), u.acc.ToBytes())
	U64(u.count).StableHash(u.countAddr.Clone(), hasher)
}

func (u *Unordered) hashMember(member Hashable) StableHasher {
	tmp := u.acc.New()
	member.StableHash(u.member.Clone(), tmp)

	return tmp
}

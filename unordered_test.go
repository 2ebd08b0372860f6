package stablehash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnordered_MatchesSetAdapter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		set := Set[string]{"one": {}, "two": {}, "three": {}}

		incremental := UnorderedStrings{"three", "one", "two"}

		assert.Equal(t, hash(set), hash(incremental))
	})
}

func TestUnordered_RemoveUndoesAdd(t *testing.T) {
	hasher := NewFastHasher()
	addr := NewFastAddress()

	reference := NewUnordered(addr.Clone(), hasher)
	reference.Add(String("one"))
	reference.Add(String("three"))

	edited := NewUnordered(addr.Clone(), hasher)
	edited.Add(String("one"))
	edited.Add(String("two"))
	edited.Add(String("three"))
	edited.Remove(String("two"))

	require.Equal(t, reference.Count(), edited.Count())
	assert.Equal(t, reference.ToBytes(), edited.ToBytes())

	folded := func(u *Unordered) string {
		out := NewFastHasher()
		u.Fold(out)
		return out.Finish().String()
	}
	assert.Equal(t, folded(reference), folded(edited))
}

func TestUnordered_RemoveFromEmptyPanics(t *testing.T) {
	unordered := NewUnordered(NewFastAddress(), NewFastHasher())

	assert.Panics(t, func() {
		unordered.Remove(String("one"))
	})
}

func TestUnordered_PersistenceRoundtrip(t *testing.T) {
	addr := NewFastAddress()

	live := NewUnordered(addr.Clone(), NewFastHasher())
	live.Add(String("one"))
	live.Add(String("two"))

	revived, err := NewUnorderedFromBytes(addr.Clone(), NewFastHasher(), live.ToBytes(), live.Count())
	require.NoError(t, err)

	live.Add(String("three"))
	revived.Add(String("three"))

	require.Equal(t, live.Count(), revived.Count())
	assert.Equal(t, live.ToBytes(), revived.ToBytes())
}

func TestUnordered_PersistenceRoundtripCrypto(t *testing.T) {
	addr := NewBlake3SeqNo()

	live := NewUnordered(addr.Clone(), NewCryptoHasher())
	live.Add(String("one"))
	live.Add(String("two"))
	live.Remove(String("one"))

	revived, err := NewUnorderedFromBytes(addr.Clone(), NewCryptoHasher(), live.ToBytes(), live.Count())
	require.NoError(t, err)

	require.Equal(t, live.Count(), revived.Count())
	assert.Equal(t, live.ToBytes(), revived.ToBytes())
}

package stablehash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigDecimal_Parse(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantInt   string
		wantScale int64
	}{
		{"integer", "10", "1", -1},
		{"trailing_fraction_zero", "10.0", "1", -1},
		{"positive_exponent", "1e1", "1", -1},
		{"explicit_plus_exponent", "1e+1", "1", -1},
		{"one", "1", "1", 0},
		{"fraction", "0.1", "1", 1},
		{"negative_fraction", "-0.5", "-5", 1},
		{"zero", "0", "0", 0},
		{"exponent_and_fraction", "1.23e3", "123", -1},
		{"negative_exponent", "123e-2", "123", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decimal, err := NewBigDecimalFromString(tt.in)
			require.NoError(t, err)

			assert.Equal(t, tt.wantInt, decimal.Int.String())
			assert.Equal(t, tt.wantScale, decimal.Scale)
		})
	}
}

func TestBigDecimal_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"empty_base", "e10"},
		{"bad_exponent", "1ex"},
		{"bad_digits", "12x3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBigDecimalFromString(tt.in)
			require.Error(t, err)
		})
	}
}

func TestBigDecimal_SignificantDigitsRounding(t *testing.T) {
	// 35 significant digits round down to 34, the last kept digit rounding up
	// on a remainder of 5.
	decimal, err := NewBigDecimalFromString("0.12345678901234567890123456789012345")
	require.NoError(t, err)

	assert.Equal(t, "0.1234567890123456789012345678901235", decimal.String())
}

func TestBigDecimal_String(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"integer", "10", "10"},
		{"normalized_exponent", "1.23e3", "1230"},
		{"fraction", "0.1", "0.1"},
		{"leading_zeros", "0.005", "0.005"},
		{"negative", "-0.5", "-0.5"},
		{"zero", "0", "0"},
		{"mixed", "12.34", "12.34"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decimal, err := NewBigDecimalFromString(tt.in)
			require.NoError(t, err)

			assert.Equal(t, tt.want, decimal.String())
		})
	}
}

func TestBigDecimal_StableHashEquivalences(t *testing.T) {
	decimal := func(in string) BigDecimal {
		out, err := NewBigDecimalFromString(in)
		require.NoError(t, err)
		return out
	}

	forEachBackend(t, func(t *testing.T, hash func(Hashable) string) {
		// All spellings of the same number hash identically.
		assert.Equal(t, hash(decimal("10")), hash(decimal("1e1")))
		assert.Equal(t, hash(decimal("10")), hash(decimal("10.0")))
		assert.Equal(t, hash(decimal("0.1")), hash(decimal("1e-1")))

		assert.NotEqual(t, hash(decimal("10")), hash(decimal("1")))
		assert.NotEqual(t, hash(decimal("0.5")), hash(decimal("-0.5")))

		// A decimal with scale zero degrades to its bare coefficient.
		assert.Equal(t, hash(&One[Hashable]{One: decimal("1")}), hash(&One[Hashable]{One: I64(1)}))
	})
}

func TestBigInt_Parse(t *testing.T) {
	out, err := NewBigIntFromString("-907")
	require.NoError(t, err)
	assert.Equal(t, "-907", out.String())

	_, err = NewBigIntFromString("12x")
	require.Error(t, err)
}

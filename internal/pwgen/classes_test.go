package pwgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ClassSet
		want ClassSet
	}{
		{"digits alone", Digits, Digits},
		{"alphanumeric absorbs digits and hex", Alphanumeric | Digits | Hex, Alphanumeric},
		{"hex absorbs digits", Hex | Digits, Hex},
		{"special untouched", Special | Digits, Special | Digits},
		{"syllables with alphanumeric", Syllables | Alphanumeric, Syllables | Digits},
		{"syllables with hex", Syllables | Hex | Special, Syllables | Digits | Special},
		{"syllables alone", Syllables, Syllables},
		{"empty", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	for s := ClassSet(0); s < 32; s++ {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "mask %05b", s)
	}
}

func TestParseClasses(t *testing.T) {
	t.Parallel()

	s, err := ParseClasses("adhs")
	require.NoError(t, err)
	assert.Equal(t, Alphanumeric|Special, s)
	assert.Equal(t, "as", s.String())

	s, err = ParseClasses("yd")
	require.NoError(t, err)
	assert.Equal(t, "dy", s.String())

	_, err = ParseClasses("ax")
	assert.ErrorIs(t, err, pwerrors.ErrInvalidRequest)

	_, err = ParseClasses("")
	assert.ErrorIs(t, err, pwerrors.ErrInvalidRequest)
}

func TestCatalogTablesAreUniform(t *testing.T) {
	t.Parallel()

	for _, c := range Catalog() {
		counts := make(map[string]int)
		for _, sym := range c.Primary {
			if sym != "" {
				counts[sym]++
			}
		}
		require.NotEmpty(t, counts, c.Name)

		// Every valid symbol must be equally likely once absent slots are redrawn.
		var first int
		for _, n := range counts {
			first = n
			break
		}
		for sym, n := range counts {
			assert.Equal(t, first, n, "%s: symbol %q", c.Name, sym)
		}

		want := math.Log2(float64(len(counts)))
		if c.TwoStage() {
			want += math.Log2(float64(len(c.Secondary)))
		}
		assert.InDelta(t, want, c.Bits, 0.01, c.Name)
	}
}

func TestEnhancementSymbolsAreDistinct(t *testing.T) {
	t.Parallel()

	seen := make(map[rune]bool)
	for _, r := range EnhancementSymbols {
		assert.False(t, seen[r], "duplicate %q", r)
		seen[r] = true
	}
	assert.Len(t, seen, 36)
}

func TestStrategyNames(t *testing.T) {
	t.Parallel()

	for _, s := range []Strategy{StrategyDiceware, StrategyRaw, StrategyKoremutake, StrategyASCII} {
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStrategy("rot13")
	assert.ErrorIs(t, err, pwerrors.ErrInvalidRequest)
	assert.Equal(t, "unknown", Strategy(99).String())
}

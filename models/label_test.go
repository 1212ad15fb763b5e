package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	require.Equal(t, "i", FirstLabel.String())
	require.Equal(t, "", NoLabel.String())
	require.Equal(t, 2, Label('k').Index())
	require.True(t, Label('t').Valid())
	require.False(t, Label('u').Valid())
	require.False(t, Label('h').Valid())
	require.Equal(t, Label('m'), LabelAt(4))
}

func TestLabelAddress(t *testing.T) {
	require.Equal(t, AddressBase, Label('i').Address())
	require.Equal(t, AddressBase+8, Label('k').Address())
	require.Equal(t, 0x102c, Label('t').Address())
}

func TestParseLabel(t *testing.T) {
	t.Run("label in domain is parsed", func(t *testing.T) {
		l, ok := ParseLabel("j")
		require.True(t, ok)
		require.Equal(t, Label('j'), l)
	})

	t.Run("label outside domain is refused", func(t *testing.T) {
		_, ok := ParseLabel("z")
		require.False(t, ok)

		_, ok = ParseLabel("ij")
		require.False(t, ok)
	})
}

func TestLowestFreeLabel(t *testing.T) {
	t.Run("returns the first gap", func(t *testing.T) {
		used := map[Label]bool{'i': true, 'k': true}
		l, ok := lowestFreeLabel(func(l Label) bool { return used[l] })
		require.True(t, ok)
		require.Equal(t, Label('j'), l)
	})

	t.Run("returns nothing when all slots are used", func(t *testing.T) {
		_, ok := lowestFreeLabel(func(Label) bool { return true })
		require.False(t, ok)
	})
}

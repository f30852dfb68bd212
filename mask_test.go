package qampsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitPowersSorted(t *testing.T) {
	powers, mask := bitPowersSorted([]int{4, 0, 2})
	assert.Equal(t, []uint64{1, 4, 16}, powers)
	assert.Equal(t, uint64(21), mask)
}

func TestExpandIndexOpensGaps(t *testing.T) {
	// Excluding bits 1 and 3 maps the 2-bit enumeration space onto bits 0
	// and 2 of the full index.
	skip := []uint64{2, 8}
	assert.Equal(t, uint64(0), expandIndex(0, skip))
	assert.Equal(t, uint64(1), expandIndex(1, skip))
	assert.Equal(t, uint64(4), expandIndex(2, skip))
	assert.Equal(t, uint64(5), expandIndex(3, skip))
}

func TestExpandIndexCoversComplement(t *testing.T) {
	// Every expanded index must be unique and have zeroes at the skipped
	// positions.
	skip := []uint64{1, 8}
	seen := map[uint64]bool{}
	for lcv := uint64(0); lcv < 16; lcv++ {
		i := expandIndex(lcv, skip)
		require.Zero(t, i&(1|8), "expanded index %b has a skipped bit set", i)
		require.False(t, seen[i], "expanded index %d repeated", i)
		seen[i] = true
	}
	assert.Len(t, seen, 16)
}

func TestMaskSkipPowers(t *testing.T) {
	// mask 0b10100: zero bits below the top set bit are 0, 1 and 3.
	assert.Equal(t, []uint64{1, 2, 8}, maskSkipPowers(0b10100))
	// Contiguous low mask has no gaps to jump.
	assert.Empty(t, maskSkipPowers(0b111))
}

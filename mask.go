package qampsim

import "sort"

// bitPower returns the mask isolating one qubit's bit within a permutation
// index.
func bitPower(qubit int) uint64 {
	return uint64(1) << uint(qubit)
}

// bitPowersSorted converts qubit indices to bit powers sorted ascending, the
// order expandIndex needs to open gaps low bit first. The second return value
// is the union mask of all powers.
func bitPowersSorted(qubits []int) ([]uint64, uint64) {
	powers := make([]uint64, len(qubits))
	var mask uint64
	for i, q := range qubits {
		powers[i] = bitPower(q)
		mask |= powers[i]
	}
	sort.Slice(powers, func(a, b int) bool { return powers[a] < powers[b] })
	return powers, mask
}

// expandIndex maps an enumeration value of the reduced index space back to a
// full permutation index with zeroes at every skipped bit position. For each
// skipped power (ascending), the running index is split at that bit, the high
// part shifted left by one to open a gap, and the parts recombined. Fixed bit
// values for the skipped positions are ORed in by the caller.
func expandIndex(lcv uint64, skipPowers []uint64) uint64 {
	iHigh := lcv
	var i uint64
	for _, p := range skipPowers {
		iLow := iHigh & (p - 1)
		i |= iLow
		iHigh = (iHigh ^ iLow) << 1
		if iHigh == 0 {
			break
		}
	}
	return i | iHigh
}

// maskSkipPowers returns the bit powers of the zero bits of mask that sit
// below its highest set bit, ascending. These are the positions a pattern
// enumeration over mask's set bits has to jump across.
func maskSkipPowers(mask uint64) []uint64 {
	var skip []uint64
	v := ^mask
	for v != 0 {
		oldV := v
		v &= v - 1 // clear the least significant bit set
		power := (v ^ oldV) & oldV
		if power > mask {
			break
		}
		skip = append(skip, power)
	}
	return skip
}

package qampsim

import "sort"

// Apply2x2 is the single choke point for unitary application. It iterates the
// reduced index space of size maxQPower >> len(qPowersSorted), reconstructs
// for each enumeration value the two full permutation indices lcv|offset1 and
// lcv|offset2, and applies mtrx to that amplitude pair. Bits of control qubits
// are baked into both offsets, which restricts the transform to the matching
// control pattern and leaves the complementary subspace untouched.
//
// qPowersSorted must hold the bit powers of every participating qubit
// (targets and controls), ascending. When doCalcNorm is set the pass also
// accumulates the total squared magnitude of the touched amplitudes into the
// running norm, which is only meaningful when the pass touches every
// amplitude (no controls).
func (e *Engine) Apply2x2(offset1, offset2 uint64, mtrx Matrix2x2, qPowersSorted []uint64, doCalcNorm bool) {
	items := e.maxQPower >> uint(len(qPowersSorted))
	sv := e.state

	var partials []float64
	if doCalcNorm {
		partials = make([]float64, e.workers)
	}

	e.parFor(items, func(w int, start, end uint64) {
		var nrm float64
		for lcv := start; lcv < end; lcv++ {
			i := expandIndex(lcv, qPowersSorted)
			y0 := sv.Read(i | offset1)
			y1 := sv.Read(i | offset2)
			if y0 == 0 && y1 == 0 {
				continue
			}
			o0 := mtrx[0]*y0 + mtrx[1]*y1
			o1 := mtrx[2]*y0 + mtrx[3]*y1
			sv.Write2(i|offset1, o0, i|offset2, o1)
			if doCalcNorm {
				nrm += ampNorm(o0) + ampNorm(o1)
			}
		}
		if doCalcNorm {
			partials[w] += nrm
		}
	})

	gateApplications.Inc()

	if doCalcNorm {
		var total float64
		for _, p := range partials {
			total += p
		}
		e.setRunningNorm(total)
	}
}

// ApplySingleBit applies a 2x2 unitary to one target qubit.
func (e *Engine) ApplySingleBit(mtrx Matrix2x2, doCalcNorm bool, qubit int) {
	e.checkQubit(qubit)
	qPowers := []uint64{bitPower(qubit)}
	e.Apply2x2(0, qPowers[0], mtrx, qPowers, doCalcNorm)
}

// ApplyControlledSingleBit applies mtrx to target only where every control
// qubit reads 1. Zero controls reduce to the plain single-bit path.
func (e *Engine) ApplyControlledSingleBit(controls []int, target int, mtrx Matrix2x2) {
	if len(controls) == 0 {
		e.ApplySingleBit(mtrx, true, target)
		return
	}
	e.applyControlled2x2(controls, target, mtrx, false)
	if e.doNormalize {
		e.UpdateRunningNorm()
	}
}

// ApplyAntiControlledSingleBit applies mtrx to target only where every
// control qubit reads 0.
func (e *Engine) ApplyAntiControlledSingleBit(controls []int, target int, mtrx Matrix2x2) {
	if len(controls) == 0 {
		e.ApplySingleBit(mtrx, true, target)
		return
	}
	e.applyAntiControlled2x2(controls, target, mtrx, false)
	if e.doNormalize {
		e.UpdateRunningNorm()
	}
}

func (e *Engine) applyControlled2x2(controls []int, target int, mtrx Matrix2x2, doCalcNorm bool) {
	e.checkQubit(target)
	qPowersSorted := make([]uint64, 0, len(controls)+1)
	var controlMask uint64
	for _, c := range controls {
		e.checkQubit(c)
		p := bitPower(c)
		controlMask |= p
		qPowersSorted = append(qPowersSorted, p)
	}
	targetPower := bitPower(target)
	qPowersSorted = append(qPowersSorted, targetPower)
	sort.Slice(qPowersSorted, func(a, b int) bool { return qPowersSorted[a] < qPowersSorted[b] })
	e.Apply2x2(controlMask, controlMask|targetPower, mtrx, qPowersSorted, doCalcNorm)
}

func (e *Engine) applyAntiControlled2x2(controls []int, target int, mtrx Matrix2x2, doCalcNorm bool) {
	e.checkQubit(target)
	qPowersSorted := make([]uint64, 0, len(controls)+1)
	for _, c := range controls {
		e.checkQubit(c)
		qPowersSorted = append(qPowersSorted, bitPower(c))
	}
	targetPower := bitPower(target)
	qPowersSorted = append(qPowersSorted, targetPower)
	sort.Slice(qPowersSorted, func(a, b int) bool { return qPowersSorted[a] < qPowersSorted[b] })
	// Control bits stay out of the offsets, so the transform lands on the
	// control=0 branch while the controls still partition the index space.
	e.Apply2x2(0, targetPower, mtrx, qPowersSorted, doCalcNorm)
}

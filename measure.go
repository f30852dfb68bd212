package qampsim

import (
	"fmt"
	"math"
	"math/bits"

	"gonum.org/v1/gonum/floats"
)

// Prob returns the probability that a qubit reads 1.
func (e *Engine) Prob(qubit int) float64 {
	e.checkQubit(qubit)
	p := bitPower(qubit)
	return e.ProbMask(p, p)
}

// ProbAll fills out, which must have MaxQPower entries, with the probability
// of every permutation in index order.
func (e *Engine) ProbAll(out []float64) {
	e.state.GetProbs(out)
}

// ProbReg returns the probability that the contiguous register window of
// length qubits starting at start reads the given permutation.
func (e *Engine) ProbReg(start, length int, permutation uint64) float64 {
	mask := ((uint64(1) << uint(length)) - 1) << uint(start)
	return e.ProbMask(mask, permutation<<uint(start))
}

// ProbMask sums the probability of every permutation whose bits under mask
// equal pattern. The set bits of mask are excluded from the free-running
// iteration and pattern is ORed back in, so the pass costs one read per
// consistent amplitude rather than a scan of the whole container.
func (e *Engine) ProbMask(mask, pattern uint64) float64 {
	if sparse, ok := e.state.(*SparseStateVector); ok {
		var total float64
		sparse.Range(func(i uint64, a Amplitude) {
			if i&mask == pattern {
				total += ampNorm(a)
			}
		})
		return total
	}

	skipPowers := make([]uint64, 0, bits.OnesCount64(mask))
	for v := mask; v != 0; {
		oldV := v
		v &= v - 1
		skipPowers = append(skipPowers, (v^oldV)&oldV)
	}

	items := e.maxQPower >> uint(len(skipPowers))
	partials := make([]float64, e.workers)
	sv := e.state
	e.parFor(items, func(w int, start, end uint64) {
		var nrm float64
		for lcv := start; lcv < end; lcv++ {
			nrm += ampNorm(sv.Read(expandIndex(lcv, skipPowers) | pattern))
		}
		partials[w] += nrm
	})
	return floats.Sum(partials)
}

// ProbMaskAll computes ProbMask for every pattern consistent with mask. The
// slot for enumeration value lcv holds the probability of the pattern whose
// p-th bit maps to the p-th lowest set bit of mask; out must have
// 2^popcount(mask) entries.
func (e *Engine) ProbMaskAll(mask uint64, out []float64) {
	length := bits.OnesCount64(mask)
	skipPowers := maskSkipPowers(mask)

	lengthPower := uint64(1) << uint(length)
	for lcv := uint64(0); lcv < lengthPower; lcv++ {
		out[lcv] = e.ProbMask(mask, expandIndex(lcv, skipPowers))
	}
}

// ProbRegAll computes the probability of every value of a contiguous register
// window; out must have 2^length entries.
func (e *Engine) ProbRegAll(start, length int, out []float64) {
	lengthPower := uint64(1) << uint(length)
	for lcv := uint64(0); lcv < lengthPower; lcv++ {
		out[lcv] = e.ProbReg(start, length, lcv)
	}
}

// ApplyM collapses the register to the subspace consistent with pattern under
// mask: inconsistent amplitudes are zeroed and survivors are rescaled by nrm,
// the engine-supplied reference phase over the square root of the survival
// probability.
func (e *Engine) ApplyM(mask, pattern uint64, nrm Amplitude) {
	if sparse, ok := e.state.(*SparseStateVector); ok {
		var indices []uint64
		var amps []Amplitude
		sparse.Range(func(i uint64, a Amplitude) {
			indices = append(indices, i)
			amps = append(amps, a)
		})
		for k, i := range indices {
			if i&mask == pattern {
				sparse.Write(i, nrm*amps[k])
			} else {
				sparse.Write(i, 0)
			}
		}
	} else {
		sv := e.state
		e.parFor(e.maxQPower, func(_ int, start, end uint64) {
			for i := start; i < end; i++ {
				if i&mask == pattern {
					sv.Write(i, nrm*sv.Read(i))
				} else {
					sv.Write(i, 0)
				}
			}
		})
	}
	e.runningNorm = 1
	e.dirty = false
}

// ForceM measures one qubit. When doForce is set the outcome is the supplied
// result; otherwise the outcome is sampled against the qubit's
// one-probability. Either way the state collapses to the outcome's subspace
// and survivors are renormalized. Forcing an outcome of zero probability is a
// precondition violation.
func (e *Engine) ForceM(qubit int, result bool, doForce bool) bool {
	e.checkQubit(qubit)
	e.normalizeIfPending()

	oneChance := e.Prob(qubit)
	if !doForce {
		result = e.rand.Float64() < oneChance && oneChance > 0
	}

	nrmlzr := oneChance
	if !result {
		nrmlzr = 1 - oneChance
	}
	if nrmlzr <= 0 {
		panic(fmt.Sprintf("qampsim: forced measurement of qubit %d to impossible outcome", qubit))
	}

	qPower := bitPower(qubit)
	var pattern uint64
	if result {
		pattern = qPower
	}
	e.ApplyM(qPower, pattern, e.nonunitaryPhase()/complex(math.Sqrt(nrmlzr), 0))

	measurements.Inc()
	e.log.Debug().Int("qubit", qubit).Bool("result", result).Bool("forced", doForce).Msg("measured qubit")
	return result
}

// M measures one qubit stochastically.
func (e *Engine) M(qubit int) bool {
	return e.ForceM(qubit, false, false)
}

// ForceMBits measures an arbitrary set of qubits jointly, returning the
// surviving permutation restricted to those qubits' bit positions. When
// values is non-nil every outcome is forced and the normalizer is the exact
// joint probability of that pattern. When values is nil the outcome is
// sampled from the joint distribution over all 2^len(qubits) patterns by
// walking cumulative probability against a uniform draw; if floating-point
// truncation exhausts the walk the highest-probability pattern seen wins,
// which is a pragmatic tie-break rather than an exact sampling guarantee.
func (e *Engine) ForceMBits(qubits []int, values []bool) uint64 {
	if values != nil && len(values) != len(qubits) {
		panic("qampsim: values length does not match qubit list")
	}

	// Single bit operations are better optimized for this special case.
	if len(qubits) == 1 {
		result := false
		if values == nil {
			result = e.M(qubits[0])
		} else {
			result = e.ForceM(qubits[0], values[0], true)
		}
		if result {
			return bitPower(qubits[0])
		}
		return 0
	}

	e.normalizeIfPending()

	for _, q := range qubits {
		e.checkQubit(q)
	}
	qPowers, regMask := bitPowersSorted(qubits)
	phase := e.nonunitaryPhase()

	if values != nil {
		var result uint64
		for j, v := range values {
			if v {
				result |= bitPower(qubits[j])
			}
		}
		nrmlzr := e.ProbMask(regMask, result)
		if nrmlzr <= 0 {
			panic("qampsim: forced joint measurement to impossible outcome")
		}
		e.ApplyM(regMask, result, phase/complex(math.Sqrt(nrmlzr), 0))
		measurements.Inc()
		return result
	}

	lengthPower := uint64(1) << uint(len(qubits))
	probArray := make([]float64, lengthPower)
	e.ProbMaskAll(regMask, probArray)

	result, nrmlzr := sampleDistribution(probArray, e.rand.Float64())

	// Re-expand the winning enumeration index into real bit positions.
	var perm uint64
	for p := 0; p < len(qubits); p++ {
		if result&(uint64(1)<<uint(p)) != 0 {
			perm |= qPowers[p]
		}
	}

	e.ApplyM(regMask, perm, phase/complex(math.Sqrt(nrmlzr), 0))
	measurements.Inc()
	e.log.Debug().Uint64("permutation", perm).Msg("measured qubit set")
	return perm
}

// ForceMReg measures a contiguous register window, returning the outcome
// relative to the window (not shifted to absolute bit positions). doForce
// selects the supplied result instead of sampling.
func (e *Engine) ForceMReg(start, length int, result uint64, doForce bool) uint64 {
	// Single bit operations are better optimized for this special case.
	if length == 1 {
		if e.ForceM(start, result&1 == 1, doForce) {
			return 1
		}
		return 0
	}

	e.checkQubit(start)
	e.checkQubit(start + length - 1)
	e.normalizeIfPending()

	phase := e.nonunitaryPhase()
	lengthPower := uint64(1) << uint(length)
	regMask := (lengthPower - 1) << uint(start)
	probArray := make([]float64, lengthPower)
	e.ProbRegAll(start, length, probArray)

	var nrmlzr float64
	if doForce {
		nrmlzr = probArray[result]
		if nrmlzr <= 0 {
			panic("qampsim: forced register measurement to impossible outcome")
		}
	} else {
		result, nrmlzr = sampleDistribution(probArray, e.rand.Float64())
	}

	e.ApplyM(regMask, result<<uint(start), phase/complex(math.Sqrt(nrmlzr), 0))
	measurements.Inc()
	e.log.Debug().Uint64("result", result).Int("start", start).Int("length", length).Msg("measured register")
	return result
}

// MReg measures a contiguous register window stochastically.
func (e *Engine) MReg(start, length int) uint64 {
	return e.ForceMReg(start, length, 0, false)
}

// Reset forces a qubit back to |0> by measuring it and flipping away a 1
// outcome.
func (e *Engine) Reset(qubit int) {
	if e.M(qubit) {
		e.X(qubit)
	}
}

// sampleDistribution walks cumulative probability until it exceeds the drawn
// threshold and returns the selected index with its probability. If the
// cumulative sum never reaches the threshold the highest-probability index
// seen so far is kept, so a degenerate all-zero row cannot divide by zero.
func sampleDistribution(probArray []float64, draw float64) (uint64, float64) {
	if draw <= 0 {
		// A zero draw must still land on the first nonzero pattern.
		draw = math.SmallestNonzeroFloat64
	}
	lengthPower := uint64(len(probArray))
	result := lengthPower - 1
	nrmlzr := 1.0

	lcv := uint64(0)
	lowerProb := 0.0
	largestProb := 0.0
	for lowerProb < draw && lcv < lengthPower {
		lowerProb += probArray[lcv]
		if largestProb <= probArray[lcv] {
			largestProb = probArray[lcv]
			nrmlzr = largestProb
			result = lcv
		}
		lcv++
	}
	if lcv < lengthPower {
		lcv--
		result = lcv
		nrmlzr = probArray[lcv]
	}
	return result, nrmlzr
}

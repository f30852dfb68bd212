package qampsim

import (
	"math/bits"
	"math/cmplx"
)

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal distribution of every qubit in one
// pass over the container.
func (e *Engine) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, e.qubitCount)

	accumulate := func(i uint64, p float64) {
		for q := 0; q < e.qubitCount; q++ {
			if i&bitPower(q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}

	if sparse, ok := e.state.(*SparseStateVector); ok {
		sparse.Range(func(i uint64, a Amplitude) {
			accumulate(i, ampNorm(a))
		})
		return probs
	}
	for i := uint64(0); i < e.maxQPower; i++ {
		accumulate(i, ampNorm(e.state.Read(i)))
	}
	return probs
}

// BasisState describes one nonzero permutation of the register.
type BasisState struct {
	Permutation uint64
	Amplitude   Amplitude
	Prob        float64
	Phase       float64
	Hamming     int
}

// basisStateFloor filters numeric dust out of NonzeroStates.
const basisStateFloor = 1e-10

// NonzeroStates returns every permutation carrying nonnegligible probability,
// in ascending permutation order for the dense backend and unspecified order
// for the sparse one.
func (e *Engine) NonzeroStates() []BasisState {
	var states []BasisState
	appendState := func(i uint64, a Amplitude) {
		p := ampNorm(a)
		if p <= basisStateFloor {
			return
		}
		states = append(states, BasisState{
			Permutation: i,
			Amplitude:   a,
			Prob:        p,
			Phase:       cmplx.Phase(a),
			Hamming:     bits.OnesCount64(i),
		})
	}

	if sparse, ok := e.state.(*SparseStateVector); ok {
		sparse.Range(appendState)
		return states
	}
	for i := uint64(0); i < e.maxQPower; i++ {
		appendState(i, e.state.Read(i))
	}
	return states
}

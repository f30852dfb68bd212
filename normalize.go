package qampsim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func (e *Engine) setRunningNorm(norm float64) {
	e.runningNorm = norm
	e.dirty = math.Abs(norm-1) > NormEpsilon
}

// RunningNorm returns the most recently tracked total probability.
func (e *Engine) RunningNorm() float64 { return e.runningNorm }

// IsDirty reports whether a normalization pass is pending.
func (e *Engine) IsDirty() bool { return e.dirty }

// UpdateRunningNorm recomputes the total probability across all amplitudes.
func (e *Engine) UpdateRunningNorm() {
	if sparse, ok := e.state.(*SparseStateVector); ok {
		var total float64
		sparse.Range(func(_ uint64, a Amplitude) {
			total += ampNorm(a)
		})
		e.setRunningNorm(total)
		return
	}

	partials := make([]float64, e.workers)
	sv := e.state
	e.parFor(e.maxQPower, func(w int, start, end uint64) {
		var nrm float64
		for i := start; i < end; i++ {
			nrm += ampNorm(sv.Read(i))
		}
		partials[w] += nrm
	})
	e.setRunningNorm(floats.Sum(partials))
}

// NormalizeState rescales every amplitude so the total probability returns to
// 1, pruning amplitudes whose probability falls below the zero neighborhood.
// A zero running norm leaves the state untouched; that only happens when the
// register was never initialized or collapse was driven with an impossible
// outcome.
func (e *Engine) NormalizeState() {
	if e.runningNorm <= 0 {
		e.dirty = false
		return
	}
	nrm := complex(1/math.Sqrt(e.runningNorm), 0)

	if sparse, ok := e.state.(*SparseStateVector); ok {
		var indices []uint64
		var amps []Amplitude
		sparse.Range(func(i uint64, a Amplitude) {
			indices = append(indices, i)
			amps = append(amps, a)
		})
		for k, i := range indices {
			a := amps[k] * nrm
			if ampNorm(a) < minNorm {
				a = 0
			}
			sparse.Write(i, a)
		}
	} else {
		sv := e.state
		e.parFor(e.maxQPower, func(_ int, start, end uint64) {
			for i := start; i < end; i++ {
				a := sv.Read(i) * nrm
				if ampNorm(a) < minNorm {
					a = 0
				}
				sv.Write(i, a)
			}
		})
	}

	normalizePasses.Inc()
	e.log.Debug().Float64("norm", e.runningNorm).Msg("normalized state")
	e.runningNorm = 1
	e.dirty = false
}

func (e *Engine) normalizeIfPending() {
	if e.doNormalize && e.dirty {
		e.UpdateRunningNorm()
		e.NormalizeState()
	}
}

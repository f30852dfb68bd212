package qampsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSampler replays a scripted sequence of uniform draws.
type fixedSampler struct {
	vals []float64
	next int
}

func (s *fixedSampler) Float64() float64 {
	v := s.vals[s.next%len(s.vals)]
	s.next++
	return v
}

func newTestEngine(t *testing.T, qubits int, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(qubits, opts...)
	require.NoError(t, err)
	return e
}

func dumpAmps(e *Engine) []Amplitude {
	out := make([]Amplitude, e.MaxQPower())
	e.State().CopyOut(out)
	return out
}

func assertAmpsEqual(t *testing.T, want, got []Amplitude, delta float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), delta, "real part of amplitude %d", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), delta, "imaginary part of amplitude %d", i)
	}
}

func TestHadamardSuperposition(t *testing.T) {
	e := newTestEngine(t, 2)
	e.H(0)

	assert.InDelta(t, 0.5, e.Prob(0), 1e-12)
	assert.InDelta(t, 0, e.Prob(1), 1e-12)

	invSqrt2 := 1 / math.Sqrt2
	assertAmpsEqual(t, []Amplitude{complex(invSqrt2, 0), complex(invSqrt2, 0), 0, 0}, dumpAmps(e), 1e-12)
}

func TestSwapMovesPermutationBits(t *testing.T) {
	e := newTestEngine(t, 3)
	e.SetPermutation(0b001)
	e.Swap(0, 2)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b100))
	assert.Equal(t, Amplitude(0), e.Amplitude(0b001))
}

func TestSwapSelfIsNoOp(t *testing.T) {
	e := newTestEngine(t, 2)
	e.H(0)
	before := dumpAmps(e)
	e.Swap(1, 1)
	e.SqrtSwap(0, 0)
	e.CSwap([]int{0}, 1, 1)
	assertAmpsEqual(t, before, dumpAmps(e), 0)
}

func TestSwapIdempotence(t *testing.T) {
	e := newTestEngine(t, 3)
	e.H(0)
	e.RY(1, 0.7)
	e.CNOT(0, 2)
	before := dumpAmps(e)

	e.Swap(0, 2)
	e.Swap(0, 2)
	assertAmpsEqual(t, before, dumpAmps(e), 1e-12)
}

func TestSqrtSwapSquaresToSwap(t *testing.T) {
	e1 := newTestEngine(t, 2)
	e1.H(0)
	e1.RX(1, 1.1)
	e2 := newTestEngine(t, 2)
	e2.H(0)
	e2.RX(1, 1.1)

	e1.SqrtSwap(0, 1)
	e1.SqrtSwap(0, 1)
	e2.Swap(0, 1)
	assertAmpsEqual(t, dumpAmps(e2), dumpAmps(e1), 1e-12)
}

func TestISqrtSwapInvertsSqrtSwap(t *testing.T) {
	e := newTestEngine(t, 2)
	e.H(0)
	e.RY(1, 0.3)
	before := dumpAmps(e)

	e.SqrtSwap(0, 1)
	e.ISqrtSwap(0, 1)
	assertAmpsEqual(t, before, dumpAmps(e), 1e-12)
}

func TestControlledSwapScenario(t *testing.T) {
	// Start with qubit0=1, qubit1=1, qubit2=0; swap qubits 1,2 controlled
	// on qubit 0. The resulting permutation has qubit1=0, qubit2=1.
	e := newTestEngine(t, 3)
	e.SetPermutation(0b011)
	e.CSwap([]int{0}, 1, 2)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b101))

	// With the control at 0 nothing moves.
	e.SetPermutation(0b010)
	e.CSwap([]int{0}, 1, 2)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b010))
}

func TestAntiControlledSwap(t *testing.T) {
	e := newTestEngine(t, 3)
	e.SetPermutation(0b010)
	e.AntiCSwap([]int{0}, 1, 2)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b100))

	e.SetPermutation(0b011)
	e.AntiCSwap([]int{0}, 1, 2)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b011))
}

func TestControlledSqrtSwapRoundTrip(t *testing.T) {
	e := newTestEngine(t, 3)
	e.SetPermutation(0b011)
	e.CSqrtSwap([]int{0}, 1, 2)
	e.CISqrtSwap([]int{0}, 1, 2)
	assertAmpsEqual(t, []Amplitude{0, 0, 0, 1, 0, 0, 0, 0}, dumpAmps(e), 1e-12)

	e.SetPermutation(0b010)
	e.AntiCSqrtSwap([]int{0}, 1, 2)
	e.AntiCISqrtSwap([]int{0}, 1, 2)
	assert.InDelta(t, 1, ampNorm(e.Amplitude(0b010)), 1e-12)
}

func TestSingleBitUnitarity(t *testing.T) {
	gates := map[string]Matrix2x2{
		"H":      matH,
		"X":      matPauliX,
		"Y":      matPauliY,
		"Z":      matPauliZ,
		"sqrtX":  matSqrtX,
		"iSqrtX": matISqrtX,
	}
	for name, mtrx := range gates {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, 3)
			e.H(0)
			e.RY(1, 0.9)
			e.CNOT(1, 2)
			before := dumpAmps(e)

			e.ApplySingleBit(mtrx, true, 1)
			e.ApplySingleBit(mtrx.Dagger(), true, 1)
			assertAmpsEqual(t, before, dumpAmps(e), 1e-12)
		})
	}
}

func TestControlledUnitarity(t *testing.T) {
	e := newTestEngine(t, 4)
	e.H(0)
	e.H(3)
	e.RX(2, 0.4)
	before := dumpAmps(e)

	controls := []int{0, 3}
	e.ApplyControlledSingleBit(controls, 1, matH)
	e.ApplyControlledSingleBit(controls, 1, matH.Dagger())
	assertAmpsEqual(t, before, dumpAmps(e), 1e-12)

	e.ApplyAntiControlledSingleBit(controls, 2, matSqrtX)
	e.ApplyAntiControlledSingleBit(controls, 2, matISqrtX)
	assertAmpsEqual(t, before, dumpAmps(e), 1e-12)
}

func TestControlledGateOnlyTouchesControlBranch(t *testing.T) {
	e := newTestEngine(t, 2)
	e.SetPermutation(0)
	e.CNOT(0, 1)
	assert.Equal(t, Amplitude(1), e.Amplitude(0))

	e.SetPermutation(0b01)
	e.CNOT(0, 1)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b11))

	e.SetPermutation(0)
	e.AntiCNOT(0, 1)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b10))
}

func TestToffoli(t *testing.T) {
	e := newTestEngine(t, 3)
	e.SetPermutation(0b011)
	e.CCNOT(0, 1, 2)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b111))

	e.SetPermutation(0b001)
	e.CCNOT(0, 1, 2)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b001))
}

func TestPhaseGateRelations(t *testing.T) {
	// S twice is Z, T twice is S, on the |1> branch.
	e1 := newTestEngine(t, 1)
	e1.H(0)
	e1.S(0)
	e1.S(0)
	e2 := newTestEngine(t, 1)
	e2.H(0)
	e2.Z(0)
	assertAmpsEqual(t, dumpAmps(e2), dumpAmps(e1), 1e-12)

	e3 := newTestEngine(t, 1)
	e3.H(0)
	e3.T(0)
	e3.Tdg(0)
	e4 := newTestEngine(t, 1)
	e4.H(0)
	assertAmpsEqual(t, dumpAmps(e4), dumpAmps(e3), 1e-12)
}

func TestNonContiguousControlsAndTargets(t *testing.T) {
	// Controls and target interleave across the register; the gate must
	// land only where both controls read 1.
	e := newTestEngine(t, 5)
	e.SetPermutation(0b10001) // controls at qubits 0 and 4
	e.ApplyControlledSingleBit([]int{0, 4}, 2, matPauliX)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b10101))

	e.SetPermutation(0b10000)
	e.ApplyControlledSingleBit([]int{0, 4}, 2, matPauliX)
	assert.Equal(t, Amplitude(1), e.Amplitude(0b10000))
}

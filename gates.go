package qampsim

import (
	"math"
	"math/cmplx"
	"sort"
)

// Fixed 2x2 matrices. The swap family applies these across the two-qubit
// subspace selected by both target bit powers.
var (
	matPauliX = Matrix2x2{0, 1, 1, 0}
	matPauliY = Matrix2x2{0, -1i, 1i, 0}
	matPauliZ = Matrix2x2{1, 0, 0, -1}
	matSqrtX  = Matrix2x2{0.5 + 0.5i, 0.5 - 0.5i, 0.5 - 0.5i, 0.5 + 0.5i}
	matISqrtX = Matrix2x2{0.5 - 0.5i, 0.5 + 0.5i, 0.5 + 0.5i, 0.5 - 0.5i}
	matH      = Matrix2x2{
		complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0),
		complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0),
	}
)

// applySwapFamily runs one of the swap-variant matrices over the pair
// subspace of qubit1/qubit2, optionally gated on control qubits. For plain
// controls the control bit powers join both offsets, so only the control=1
// branch transforms; anti-controls keep the powers out of the offsets and the
// transform lands on the control=0 branch instead.
func (e *Engine) applySwapFamily(controls []int, qubit1, qubit2 int, mtrx Matrix2x2, anti bool) {
	if qubit1 == qubit2 {
		return
	}
	e.checkQubit(qubit1)
	e.checkQubit(qubit2)

	qPowersSorted := make([]uint64, 0, len(controls)+2)
	var skipMask uint64
	for _, c := range controls {
		e.checkQubit(c)
		p := bitPower(c)
		qPowersSorted = append(qPowersSorted, p)
		if !anti {
			skipMask |= p
		}
	}
	p1, p2 := bitPower(qubit1), bitPower(qubit2)
	qPowersSorted = append(qPowersSorted, p1, p2)
	sort.Slice(qPowersSorted, func(a, b int) bool { return qPowersSorted[a] < qPowersSorted[b] })

	e.Apply2x2(skipMask|p1, skipMask|p2, mtrx, qPowersSorted, false)
}

// Swap exchanges the values of two qubits. Swap of a qubit with itself is a
// no-op.
func (e *Engine) Swap(qubit1, qubit2 int) {
	e.applySwapFamily(nil, qubit1, qubit2, matPauliX, false)
}

// SqrtSwap applies the square root of the swap gate.
func (e *Engine) SqrtSwap(qubit1, qubit2 int) {
	e.applySwapFamily(nil, qubit1, qubit2, matSqrtX, false)
}

// ISqrtSwap applies the inverse square root of the swap gate.
func (e *Engine) ISqrtSwap(qubit1, qubit2 int) {
	e.applySwapFamily(nil, qubit1, qubit2, matISqrtX, false)
}

// CSwap swaps qubit1 and qubit2 where every control qubit reads 1.
func (e *Engine) CSwap(controls []int, qubit1, qubit2 int) {
	e.applySwapFamily(controls, qubit1, qubit2, matPauliX, false)
}

// AntiCSwap swaps qubit1 and qubit2 where every control qubit reads 0.
func (e *Engine) AntiCSwap(controls []int, qubit1, qubit2 int) {
	e.applySwapFamily(controls, qubit1, qubit2, matPauliX, true)
}

// CSqrtSwap applies SqrtSwap gated on control qubits reading 1.
func (e *Engine) CSqrtSwap(controls []int, qubit1, qubit2 int) {
	e.applySwapFamily(controls, qubit1, qubit2, matSqrtX, false)
}

// AntiCSqrtSwap applies SqrtSwap gated on control qubits reading 0.
func (e *Engine) AntiCSqrtSwap(controls []int, qubit1, qubit2 int) {
	e.applySwapFamily(controls, qubit1, qubit2, matSqrtX, true)
}

// CISqrtSwap applies ISqrtSwap gated on control qubits reading 1.
func (e *Engine) CISqrtSwap(controls []int, qubit1, qubit2 int) {
	e.applySwapFamily(controls, qubit1, qubit2, matISqrtX, false)
}

// AntiCISqrtSwap applies ISqrtSwap gated on control qubits reading 0.
func (e *Engine) AntiCISqrtSwap(controls []int, qubit1, qubit2 int) {
	e.applySwapFamily(controls, qubit1, qubit2, matISqrtX, true)
}

// H applies the Hadamard gate.
func (e *Engine) H(qubit int) {
	e.ApplySingleBit(matH, true, qubit)
}

// X applies the Pauli X (NOT) gate.
func (e *Engine) X(qubit int) {
	e.ApplySingleBit(matPauliX, false, qubit)
}

// Y applies the Pauli Y gate.
func (e *Engine) Y(qubit int) {
	e.ApplySingleBit(matPauliY, false, qubit)
}

// Z applies the Pauli Z gate.
func (e *Engine) Z(qubit int) {
	e.ApplySingleBit(matPauliZ, false, qubit)
}

// S applies the quarter-turn phase gate; Sdg its adjoint.
func (e *Engine) S(qubit int)   { e.Phase(qubit, math.Pi/2) }
func (e *Engine) Sdg(qubit int) { e.Phase(qubit, -math.Pi/2) }

// T applies the eighth-turn phase gate; Tdg its adjoint.
func (e *Engine) T(qubit int)   { e.Phase(qubit, math.Pi/4) }
func (e *Engine) Tdg(qubit int) { e.Phase(qubit, -math.Pi/4) }

// Phase rotates the |1> amplitude of a qubit by the given angle.
func (e *Engine) Phase(qubit int, theta float64) {
	mtrx := Matrix2x2{1, 0, 0, cmplx.Exp(complex(0, theta))}
	e.ApplySingleBit(mtrx, false, qubit)
}

// RX rotates a qubit around the X axis of the Bloch sphere.
func (e *Engine) RX(qubit int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	e.ApplySingleBit(Matrix2x2{c, js, js, c}, true, qubit)
}

// RY rotates a qubit around the Y axis of the Bloch sphere.
func (e *Engine) RY(qubit int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	e.ApplySingleBit(Matrix2x2{c, -s, s, c}, true, qubit)
}

// RZ rotates a qubit around the Z axis of the Bloch sphere.
func (e *Engine) RZ(qubit int, theta float64) {
	phase := cmplx.Exp(complex(0, theta/2))
	e.ApplySingleBit(Matrix2x2{cmplx.Conj(phase), 0, 0, phase}, false, qubit)
}

// CNOT flips target where control reads 1.
func (e *Engine) CNOT(control, target int) {
	e.ApplyControlledSingleBit([]int{control}, target, matPauliX)
}

// AntiCNOT flips target where control reads 0.
func (e *Engine) AntiCNOT(control, target int) {
	e.ApplyAntiControlledSingleBit([]int{control}, target, matPauliX)
}

// CCNOT is the Toffoli gate: target flips where both controls read 1.
func (e *Engine) CCNOT(control1, control2, target int) {
	e.ApplyControlledSingleBit([]int{control1, control2}, target, matPauliX)
}

// CZ flips the phase of the |11> branch of control and target.
func (e *Engine) CZ(control, target int) {
	e.ApplyControlledSingleBit([]int{control}, target, matPauliZ)
}

// CH applies a Hadamard to target where control reads 1.
func (e *Engine) CH(control, target int) {
	e.ApplyControlledSingleBit([]int{control}, target, matH)
}

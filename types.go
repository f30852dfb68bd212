package qampsim

import "math/cmplx"

// Amplitude is the complex amplitude type for every permutation of the
// register. Permutation indices are uint64 throughout; both choices live here
// so switching precision or index width is a single edit.
type Amplitude = complex128

// Matrix2x2 is a 2x2 unitary in row-major order: m00, m01, m10, m11.
type Matrix2x2 [4]Amplitude

// Dagger returns the conjugate transpose.
func (m Matrix2x2) Dagger() Matrix2x2 {
	return Matrix2x2{
		cmplx.Conj(m[0]), cmplx.Conj(m[2]),
		cmplx.Conj(m[1]), cmplx.Conj(m[3]),
	}
}

// Mul returns m * other.
func (m Matrix2x2) Mul(other Matrix2x2) Matrix2x2 {
	return Matrix2x2{
		m[0]*other[0] + m[1]*other[2], m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2], m[2]*other[1] + m[3]*other[3],
	}
}

const (
	// minNorm is the probability neighborhood treated as exactly zero when
	// pruning amplitudes during normalization.
	minNorm = 1e-30

	// NormEpsilon is the tolerance within which the total probability of a
	// normalized register is considered 1.
	NormEpsilon = 1e-7

	// MaxQubits caps register width. A dense register of 62 qubits already
	// needs 2^66 bytes of amplitudes, so index width is never the limit.
	MaxQubits = 62
)

// ampNorm is |a|^2 without the sqrt round-trip of cmplx.Abs.
func ampNorm(a Amplitude) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}

// Package qampsim is an exact state-vector simulator for quantum registers.
//
// The engine stores 2^n complex amplitudes in a dense or sparse container and
// applies arbitrary 2x2 unitaries through a single bit-masked choke point,
// Apply2x2. Controlled and anti-controlled variants, the swap family, common
// named gates, and a full projective measurement layer (single qubit,
// arbitrary bit sets, contiguous registers, forced or sampled) are built on
// top of it. Large passes are partitioned across worker goroutines and
// normalization is tracked lazily.
package qampsim

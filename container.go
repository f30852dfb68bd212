package qampsim

import "sync"

// StateVector maps permutation indices in [0, capacity) to complex amplitudes.
// A container is owned by exactly one Engine; concurrent access is only valid
// through disjoint-index writes inside one engine pass. Indices at or beyond
// Capacity are a precondition violation and panic.
type StateVector interface {
	Read(i uint64) Amplitude
	Write(i uint64, a Amplitude)
	// Write2 stores both halves of a 2x2 application. It is only guaranteed
	// to store an entry if its old or new amplitude is nonzero; callers must
	// not rely on a write occurring for amplitudes that stay zero.
	Write2(i1 uint64, a1 Amplitude, i2 uint64, a2 Amplitude)
	Clear()
	CopyIn(src []Amplitude)
	CopyOut(dst []Amplitude)
	Copy(from StateVector)
	// GetProbs fills out with squared magnitudes in index order.
	GetProbs(out []float64)
	IsSparse() bool
	Capacity() uint64
}

// DenseStateVector backs the register with a contiguous amplitude buffer.
type DenseStateVector struct {
	amps []Amplitude
}

// NewDenseStateVector allocates a zeroed dense container of the given capacity.
func NewDenseStateVector(capacity uint64) *DenseStateVector {
	return &DenseStateVector{amps: make([]Amplitude, capacity)}
}

func (v *DenseStateVector) Read(i uint64) Amplitude     { return v.amps[i] }
func (v *DenseStateVector) Write(i uint64, a Amplitude) { v.amps[i] = a }

func (v *DenseStateVector) Write2(i1 uint64, a1 Amplitude, i2 uint64, a2 Amplitude) {
	v.amps[i1] = a1
	v.amps[i2] = a2
}

func (v *DenseStateVector) Clear() {
	clear(v.amps)
}

func (v *DenseStateVector) CopyIn(src []Amplitude) {
	copy(v.amps, src)
}

func (v *DenseStateVector) CopyOut(dst []Amplitude) {
	copy(dst, v.amps)
}

func (v *DenseStateVector) Copy(from StateVector) {
	if d, ok := from.(*DenseStateVector); ok {
		copy(v.amps, d.amps)
		return
	}
	from.CopyOut(v.amps)
}

func (v *DenseStateVector) GetProbs(out []float64) {
	for i, a := range v.amps {
		out[i] = ampNorm(a)
	}
}

func (v *DenseStateVector) IsSparse() bool   { return false }
func (v *DenseStateVector) Capacity() uint64 { return uint64(len(v.amps)) }

// sparseShardCount must be a power of two; shard selection masks the low
// index bits so neighbouring amplitude pairs land in different shards.
const sparseShardCount = 64

type sparseShard struct {
	mu   sync.RWMutex
	amps map[uint64]Amplitude
}

// SparseStateVector holds only nonzero amplitudes in sharded maps. The shard
// locks make disjoint-index writes from parallel engine passes safe; a plain
// Go map would not tolerate concurrent writers even on distinct keys.
type SparseStateVector struct {
	capacity uint64
	shards   [sparseShardCount]sparseShard
}

// NewSparseStateVector creates an empty sparse container of the given capacity.
func NewSparseStateVector(capacity uint64) *SparseStateVector {
	v := &SparseStateVector{capacity: capacity}
	for s := range v.shards {
		v.shards[s].amps = make(map[uint64]Amplitude)
	}
	return v
}

func (v *SparseStateVector) shardFor(i uint64) *sparseShard {
	return &v.shards[i&(sparseShardCount-1)]
}

func (v *SparseStateVector) checkBounds(i uint64) {
	if i >= v.capacity {
		panic("qampsim: sparse state vector index out of range")
	}
}

func (v *SparseStateVector) Read(i uint64) Amplitude {
	v.checkBounds(i)
	sh := v.shardFor(i)
	sh.mu.RLock()
	a := sh.amps[i]
	sh.mu.RUnlock()
	return a
}

func (v *SparseStateVector) Write(i uint64, a Amplitude) {
	v.checkBounds(i)
	sh := v.shardFor(i)
	sh.mu.Lock()
	if a == 0 {
		delete(sh.amps, i)
	} else {
		sh.amps[i] = a
	}
	sh.mu.Unlock()
}

func (v *SparseStateVector) Write2(i1 uint64, a1 Amplitude, i2 uint64, a2 Amplitude) {
	v.Write(i1, a1)
	v.Write(i2, a2)
}

func (v *SparseStateVector) Clear() {
	for s := range v.shards {
		sh := &v.shards[s]
		sh.mu.Lock()
		sh.amps = make(map[uint64]Amplitude)
		sh.mu.Unlock()
	}
}

func (v *SparseStateVector) CopyIn(src []Amplitude) {
	v.Clear()
	for i, a := range src {
		if a != 0 {
			v.Write(uint64(i), a)
		}
	}
}

func (v *SparseStateVector) CopyOut(dst []Amplitude) {
	clear(dst)
	v.Range(func(i uint64, a Amplitude) {
		dst[i] = a
	})
}

func (v *SparseStateVector) Copy(from StateVector) {
	v.Clear()
	if s, ok := from.(*SparseStateVector); ok {
		s.Range(func(i uint64, a Amplitude) {
			v.Write(i, a)
		})
		return
	}
	for i := uint64(0); i < from.Capacity(); i++ {
		if a := from.Read(i); a != 0 {
			v.Write(i, a)
		}
	}
}

func (v *SparseStateVector) GetProbs(out []float64) {
	clear(out)
	v.Range(func(i uint64, a Amplitude) {
		out[i] = ampNorm(a)
	})
}

func (v *SparseStateVector) IsSparse() bool   { return true }
func (v *SparseStateVector) Capacity() uint64 { return v.capacity }

// Range calls fn for every nonzero amplitude. The iteration order is
// unspecified. Range must not be invoked from inside a parallel write pass.
func (v *SparseStateVector) Range(fn func(i uint64, a Amplitude)) {
	for s := range v.shards {
		sh := &v.shards[s]
		sh.mu.RLock()
		for i, a := range sh.amps {
			fn(i, a)
		}
		sh.mu.RUnlock()
	}
}

package qampsim

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/rs/zerolog"
)

// Sampler supplies uniform random values in [0, 1) for stochastic
// measurement outcomes.
type Sampler interface {
	Float64() float64
}

// Engine applies local unitary operations and projective measurements to an
// amplitude container of size 2^n. One engine exclusively owns its container;
// engine methods must not be called concurrently with each other.
type Engine struct {
	qubitCount int
	maxQPower  uint64
	state      StateVector

	rand    Sampler
	log     zerolog.Logger
	workers int

	// Lazy normalization: generic unitary application marks the state dirty
	// and measurement paths renormalize before sampling.
	doNormalize bool
	dirty       bool
	runningNorm float64

	randGlobalPhase bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSparseState backs the register with the sparse map container instead of
// the dense buffer.
func WithSparseState() Option {
	return func(e *Engine) { e.state = NewSparseStateVector(e.maxQPower) }
}

// WithSampler replaces the uniform random source used by measurement.
func WithSampler(s Sampler) Option {
	return func(e *Engine) { e.rand = s }
}

// WithLogger attaches a structured logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log.With().Str("component", "engine").Logger() }
}

// WithWorkers sets the goroutine count for parallel passes.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithNormalization toggles lazy renormalization before measurement.
func WithNormalization(on bool) Option {
	return func(e *Engine) { e.doNormalize = on }
}

// WithRandomGlobalPhase randomizes the reference phase applied on collapse.
// The global phase of a pure state is unobservable, so this only affects the
// raw amplitudes, never probabilities.
func WithRandomGlobalPhase() Option {
	return func(e *Engine) { e.randGlobalPhase = true }
}

// NewEngine creates an engine of qubitCount qubits initialized to
// permutation 0.
func NewEngine(qubitCount int, opts ...Option) (*Engine, error) {
	if qubitCount < 1 {
		return nil, fmt.Errorf("qampsim: qubit count %d below 1", qubitCount)
	}
	if qubitCount > MaxQubits {
		return nil, fmt.Errorf("qampsim: qubit count %d exceeds maximum %d", qubitCount, MaxQubits)
	}
	e := &Engine{
		qubitCount:  qubitCount,
		maxQPower:   uint64(1) << uint(qubitCount),
		rand:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:         zerolog.Nop(),
		workers:     runtime.NumCPU(),
		doNormalize: true,
		runningNorm: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = NewDenseStateVector(e.maxQPower)
	}
	e.state.Write(0, 1)
	return e, nil
}

// QubitCount returns the register width in qubits.
func (e *Engine) QubitCount() int { return e.qubitCount }

// MaxQPower returns the number of permutations, 2^QubitCount.
func (e *Engine) MaxQPower() uint64 { return e.maxQPower }

// State exposes the amplitude container for inspection.
func (e *Engine) State() StateVector { return e.state }

// SetPermutation resets the register to a single basis state.
func (e *Engine) SetPermutation(perm uint64) {
	if perm >= e.maxQPower {
		panic("qampsim: permutation out of range")
	}
	e.state.Clear()
	e.state.Write(perm, e.nonunitaryPhase())
	e.dirty = false
	e.runningNorm = 1
}

// Amplitude returns the amplitude of one permutation.
func (e *Engine) Amplitude(perm uint64) Amplitude {
	return e.state.Read(perm)
}

// nonunitaryPhase is the reference phase for operations that fix an
// indeterminate global phase (collapse, SetPermutation).
func (e *Engine) nonunitaryPhase() Amplitude {
	if e.randGlobalPhase {
		angle := 2 * math.Pi * e.rand.Float64()
		return complex(math.Cos(angle), math.Sin(angle))
	}
	return 1
}

func (e *Engine) checkQubit(qubit int) {
	if qubit < 0 || qubit >= e.qubitCount {
		panic(fmt.Sprintf("qampsim: qubit %d out of range [0, %d)", qubit, e.qubitCount))
	}
}

package main

import (
	"fmt"

	"qampsim"
)

// simOptions configure the engines built for the preview and run paths.
type simOptions struct {
	workers int
	sparse  bool
	sampler qampsim.Sampler
}

func (o simOptions) engineOptions() []qampsim.Option {
	var opts []qampsim.Option
	if o.workers > 0 {
		opts = append(opts, qampsim.WithWorkers(o.workers))
	}
	if o.sparse {
		opts = append(opts, qampsim.WithSparseState())
	}
	if o.sampler != nil {
		opts = append(opts, qampsim.WithSampler(o.sampler))
	}
	return opts
}

// applyGate dispatches one circuit gate onto the engine. Measurements
// and resets are applied only when collapse is true; the preview path
// keeps the state unitary so the amplitude panel shows the full
// superposition.
func applyGate(eng *qampsim.Engine, g Gate, collapse bool, cbits []bool) error {
	theta := 0.0
	if len(g.Params) > 0 {
		theta = g.Params[0]
	}

	switch g.Type {
	case "BARRIER":
		return nil
	case "MEASURE":
		if collapse {
			bit := eng.M(g.Target)
			if g.Target < len(cbits) {
				cbits[g.Target] = bit
			}
		}
		return nil
	case "RESET":
		if collapse {
			eng.Reset(g.Target)
		}
		return nil
	}

	if len(g.Controls) >= 2 {
		switch g.Type {
		case "CCX", "TOFFOLI":
			eng.CCNOT(g.Controls[0], g.Controls[1], g.Target)
			return nil
		default:
			return fmt.Errorf("unsupported multi-controlled gate %q", g.Type)
		}
	}

	if g.Control >= 0 {
		switch g.Type {
		case "CX", "CNOT":
			eng.CNOT(g.Control, g.Target)
		case "CZ":
			eng.CZ(g.Control, g.Target)
		case "CH":
			eng.CH(g.Control, g.Target)
		case "SWAP":
			eng.Swap(g.Control, g.Target)
		case "SQSWAP":
			eng.SqrtSwap(g.Control, g.Target)
		default:
			return fmt.Errorf("unsupported controlled gate %q", g.Type)
		}
		return nil
	}

	switch g.Type {
	case "H":
		eng.H(g.Target)
	case "X":
		eng.X(g.Target)
	case "Y":
		eng.Y(g.Target)
	case "Z":
		eng.Z(g.Target)
	case "S":
		if g.IsDagger {
			eng.Sdg(g.Target)
		} else {
			eng.S(g.Target)
		}
	case "T":
		if g.IsDagger {
			eng.Tdg(g.Target)
		} else {
			eng.T(g.Target)
		}
	case "P", "U1":
		eng.Phase(g.Target, theta)
	case "RX":
		eng.RX(g.Target, theta)
	case "RY":
		eng.RY(g.Target, theta)
	case "RZ":
		eng.RZ(g.Target, theta)
	default:
		return fmt.Errorf("unsupported gate %q", g.Type)
	}
	return nil
}

// previewState simulates the circuit up to and including upToStep
// without collapsing measurements. A negative upToStep simulates the
// whole circuit. Gates the engine cannot express are skipped; the
// error from the last skipped gate is returned alongside the state so
// the status bar can surface it.
func previewState(c *Circuit, upToStep int, opts simOptions) (*qampsim.Engine, error) {
	numQubits := max(c.NumQubits, 1)
	eng, err := qampsim.NewEngine(numQubits, opts.engineOptions()...)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, gate := range c.sortedByStep() {
		if upToStep >= 0 && gate.Step > upToStep {
			break
		}
		if err := applyGate(eng, gate, false, nil); err != nil {
			lastErr = err
		}
	}
	return eng, lastErr
}

// runResult holds the outcome of executing a circuit end to end.
type runResult struct {
	eng   *qampsim.Engine
	cbits []bool
}

// runCircuit executes the full circuit including measurement collapse
// and resets. Measured values land in the classical register indexed
// by the measured qubit.
func runCircuit(c *Circuit, opts simOptions) (runResult, error) {
	numQubits := max(c.NumQubits, 1)
	eng, err := qampsim.NewEngine(numQubits, opts.engineOptions()...)
	if err != nil {
		return runResult{}, err
	}

	cbits := make([]bool, numQubits)
	for _, gate := range c.sortedByStep() {
		if err := applyGate(eng, gate, true, cbits); err != nil {
			return runResult{}, err
		}
	}
	return runResult{eng: eng, cbits: cbits}, nil
}

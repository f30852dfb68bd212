package main

import (
	"math"
	"testing"
)

// stepSampler replays a fixed sequence of draws.
type stepSampler struct {
	draws []float64
	next  int
}

func (s *stepSampler) Float64() float64 {
	if s.next >= len(s.draws) {
		return 0.5
	}
	d := s.draws[s.next]
	s.next++
	return d
}

func bellCircuit() *Circuit {
	c := &Circuit{NumQubits: 2}
	c.AddGate("H", 0, 0)
	c.AddGate("CX", 1, 1, 0)
	return c
}

func TestPreviewStateBellPair(t *testing.T) {
	c := bellCircuit()

	eng, err := previewState(c, -1, simOptions{})
	if err != nil {
		t.Fatalf("previewState error: %v", err)
	}

	probs := make([]float64, 4)
	eng.ProbAll(probs)
	for i, want := range []float64{0.5, 0, 0, 0.5} {
		if math.Abs(probs[i]-want) > 1e-12 {
			t.Errorf("P(%d) = %v, want %v", i, probs[i], want)
		}
	}
}

func TestPreviewStateStopsAtStep(t *testing.T) {
	c := bellCircuit()

	// Only the Hadamard has run at step 0, so qubit 1 is still |0⟩.
	eng, err := previewState(c, 0, simOptions{})
	if err != nil {
		t.Fatalf("previewState error: %v", err)
	}
	if p := eng.Prob(1); p != 0 {
		t.Errorf("P(q1=1) = %v, want 0 before CX", p)
	}
	if p := eng.Prob(0); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("P(q0=1) = %v, want 0.5 after H", p)
	}
}

func TestPreviewSkipsMeasurement(t *testing.T) {
	c := bellCircuit()
	c.AddGate("MEASURE", 0, 2)

	eng, err := previewState(c, -1, simOptions{})
	if err != nil {
		t.Fatalf("previewState error: %v", err)
	}

	// Superposition survives: both outcomes still present.
	if p := eng.Prob(0); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("preview collapsed the state: P(q0=1) = %v", p)
	}
}

func TestRunCircuitCollapsesBellPair(t *testing.T) {
	c := bellCircuit()
	c.AddGate("MEASURE", 0, 2)
	c.AddGate("MEASURE", 1, 3)

	// Draw below 0.5 forces the |11⟩ branch on the first measurement;
	// the second is then deterministic.
	res, err := runCircuit(c, simOptions{sampler: &stepSampler{draws: []float64{0.25, 0.9}}})
	if err != nil {
		t.Fatalf("runCircuit error: %v", err)
	}

	if res.cbits[0] != res.cbits[1] {
		t.Errorf("Bell pair measurements disagree: %v", res.cbits)
	}
	if p := res.eng.Prob(0); p != 0 && math.Abs(p-1) > 1e-12 {
		t.Errorf("state not collapsed: P(q0=1) = %v", p)
	}
}

func TestRunCircuitReset(t *testing.T) {
	c := &Circuit{NumQubits: 1}
	c.AddGate("X", 0, 0)
	c.AddReset(0, 1)

	res, err := runCircuit(c, simOptions{})
	if err != nil {
		t.Fatalf("runCircuit error: %v", err)
	}
	if p := res.eng.Prob(0); p != 0 {
		t.Errorf("P(1) after reset = %v, want 0", p)
	}
}

func TestApplyGateDispatch(t *testing.T) {
	c := &Circuit{NumQubits: 3}
	c.AddGate("X", 0, 0)
	c.AddGate("X", 1, 1)
	c.AddMultiControlGate("CCX", 2, 2, []int{0, 1})

	eng, err := previewState(c, -1, simOptions{})
	if err != nil {
		t.Fatalf("previewState error: %v", err)
	}
	if p := eng.Prob(2); math.Abs(p-1) > 1e-12 {
		t.Errorf("Toffoli did not fire: P(q2=1) = %v", p)
	}
}

func TestApplyGateDaggerPairs(t *testing.T) {
	c := &Circuit{NumQubits: 1}
	c.AddGate("H", 0, 0)
	c.AddGate("S", 0, 1)
	c.AddDaggerGate("S", 0, 2)
	c.AddGate("H", 0, 3)

	// H S S† H = I, so the state is back to |0⟩.
	eng, err := previewState(c, -1, simOptions{})
	if err != nil {
		t.Fatalf("previewState error: %v", err)
	}
	if p := eng.Prob(0); p > 1e-12 {
		t.Errorf("S·S† is not identity: P(1) = %v", p)
	}
}

func TestApplyGateUnsupported(t *testing.T) {
	c := &Circuit{NumQubits: 1}
	c.AddGate("FROB", 0, 0)

	_, err := previewState(c, -1, simOptions{})
	if err == nil {
		t.Error("expected error for unsupported gate")
	}
}

func TestRunCircuitSparseMatchesDense(t *testing.T) {
	build := func() *Circuit {
		c := &Circuit{NumQubits: 3}
		c.AddGate("H", 0, 0)
		c.AddGate("CX", 1, 1, 0)
		c.AddParameterizedGate("RY", 2, 2, []float64{math.Pi / 3})
		return c
	}

	dense, err := previewState(build(), -1, simOptions{})
	if err != nil {
		t.Fatalf("dense preview: %v", err)
	}
	sparse, err := previewState(build(), -1, simOptions{sparse: true})
	if err != nil {
		t.Fatalf("sparse preview: %v", err)
	}

	dp := make([]float64, 8)
	sp := make([]float64, 8)
	dense.ProbAll(dp)
	sparse.ProbAll(sp)
	for i := range dp {
		if math.Abs(dp[i]-sp[i]) > 1e-12 {
			t.Errorf("P(%d): dense %v, sparse %v", i, dp[i], sp[i])
		}
	}
}

func TestFormatCbits(t *testing.T) {
	if got := formatCbits([]bool{true, false, true}); got != "101" {
		t.Errorf("formatCbits = %q, want %q", got, "101")
	}
	if got := formatCbits(nil); got != "" {
		t.Errorf("formatCbits(nil) = %q", got)
	}
}

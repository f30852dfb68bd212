package main

import (
	"math"
	"strings"
	"testing"
)

func TestParseQASMBellPair(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

h q[0];
cx q[0], q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];`

	c := Circuit{}
	if err := c.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	if c.NumQubits != 2 {
		t.Fatalf("expected 2 qubits, got %d", c.NumQubits)
	}
	if len(c.Gates) != 4 {
		t.Fatalf("expected 4 gates, got %d", len(c.Gates))
	}

	if g := c.Gates[0]; g.Type != "H" || g.Target != 0 {
		t.Errorf("gate 0: expected H on q[0], got Type=%s Target=%d", g.Type, g.Target)
	}
	if g := c.Gates[1]; g.Type != "CX" || g.Control != 0 || g.Target != 1 {
		t.Errorf("gate 1: expected CX q[0],q[1], got Type=%s Control=%d Target=%d",
			g.Type, g.Control, g.Target)
	}
	if g := c.Gates[2]; g.Type != "MEASURE" || g.Target != 0 {
		t.Errorf("gate 2: expected MEASURE q[0], got Type=%s Target=%d", g.Type, g.Target)
	}
}

func TestParseQASMDaggerAndParams(t *testing.T) {
	qasm := `qreg q[2];
sdg q[0];
tdg q[1];
rx(pi/2) q[0];
p(3*pi/4) q[1];`

	c := Circuit{}
	if err := c.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	if len(c.Gates) != 4 {
		t.Fatalf("expected 4 gates, got %d", len(c.Gates))
	}

	if g := c.Gates[0]; g.Type != "S" || !g.IsDagger {
		t.Errorf("gate 0: expected S dagger, got Type=%s IsDagger=%v", g.Type, g.IsDagger)
	}
	if g := c.Gates[1]; g.Type != "T" || !g.IsDagger {
		t.Errorf("gate 1: expected T dagger, got Type=%s IsDagger=%v", g.Type, g.IsDagger)
	}

	g := c.Gates[2]
	if g.Type != "RX" || len(g.Params) != 1 || math.Abs(g.Params[0]-math.Pi/2) > 1e-10 {
		t.Errorf("gate 2: expected RX(pi/2), got Type=%s Params=%v", g.Type, g.Params)
	}
	g = c.Gates[3]
	if g.Type != "P" || len(g.Params) != 1 || math.Abs(g.Params[0]-3*math.Pi/4) > 1e-10 {
		t.Errorf("gate 3: expected P(3*pi/4), got Type=%s Params=%v", g.Type, g.Params)
	}
}

func TestParseQASMToffoliAndReset(t *testing.T) {
	qasm := `qreg q[3];
ccx q[0], q[1], q[2];
reset q[2];
barrier q[0], q[1], q[2];`

	c := Circuit{}
	if err := c.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	if len(c.Gates) != 3 {
		t.Fatalf("expected 3 gates, got %d", len(c.Gates))
	}

	g := c.Gates[0]
	if g.Type != "CCX" || g.Target != 2 || len(g.Controls) != 2 ||
		g.Controls[0] != 0 || g.Controls[1] != 1 {
		t.Errorf("gate 0: expected CCX with controls 0,1 target 2, got %+v", g)
	}
	if g := c.Gates[1]; g.Type != "RESET" || !g.IsReset || g.Target != 2 {
		t.Errorf("gate 1: expected RESET q[2], got %+v", g)
	}
	if g := c.Gates[2]; g.Type != "BARRIER" {
		t.Errorf("gate 2: expected BARRIER, got %+v", g)
	}
}

func TestRoundTripQASM(t *testing.T) {
	c := Circuit{NumQubits: 3}
	c.AddGate("H", 0, 0)
	c.AddGate("CX", 1, 1, 0)
	c.AddParameterizedGate("RZ", 2, 2, []float64{math.Pi / 4})
	c.AddDaggerGate("S", 1, 3)
	c.AddMultiControlGate("CCX", 2, 4, []int{0, 1})
	c.AddGate("MEASURE", 2, 5)

	qasm := c.ToQASM()

	for _, want := range []string{
		"qreg q[3];",
		"h q[0];",
		"cx q[0], q[1];",
		"rz(pi/4) q[2];",
		"sdg q[1];",
		"ccx q[0], q[1], q[2];",
		"measure q[2] -> c[2];",
	} {
		if !strings.Contains(qasm, want) {
			t.Errorf("QASM output missing %q:\n%s", want, qasm)
		}
	}

	c2 := Circuit{}
	if err := c2.ParseQASM(qasm); err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	if len(c2.Gates) != len(c.Gates) {
		t.Fatalf("round trip changed gate count: %d != %d", len(c2.Gates), len(c.Gates))
	}
	if g := c2.Gates[3]; g.Type != "S" || !g.IsDagger {
		t.Errorf("round trip lost dagger flag: %+v", g)
	}
}

func TestCanPlaceGateAt(t *testing.T) {
	c := Circuit{NumQubits: 3}
	c.AddGate("CX", 1, 0, 0)

	if c.CanPlaceGateAt(0, []int{0}) {
		t.Error("expected conflict on control qubit")
	}
	if c.CanPlaceGateAt(0, []int{1}) {
		t.Error("expected conflict on target qubit")
	}
	if !c.CanPlaceGateAt(0, []int{2}) {
		t.Error("expected qubit 2 to be free")
	}
	if !c.CanPlaceGateAt(1, []int{0, 1}) {
		t.Error("expected next step to be free")
	}
}

func TestRemoveGateAt(t *testing.T) {
	c := Circuit{NumQubits: 2}
	c.AddGate("H", 0, 0)
	c.AddGate("X", 1, 0)
	c.AddGate("CX", 1, 1, 0)

	// Removing by either endpoint drops the whole two-qubit gate.
	c.RemoveGateAt(1, 0)
	if len(c.Gates) != 2 {
		t.Fatalf("expected 2 gates after removal, got %d", len(c.Gates))
	}

	c.RemoveGateAt(0, 0)
	if len(c.Gates) != 1 || c.Gates[0].Type != "X" {
		t.Fatalf("expected only X to remain, got %+v", c.Gates)
	}
}

func TestParseParamExpr(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.5", 1.5, true},
		{"pi", math.Pi, true},
		{"pi/2", math.Pi / 2, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"-pi/2", -math.Pi / 2, true},
		{"2pi", 2 * math.Pi, true},
		{"3.14e-2", 0.0314, true},
		{"", 0, false},
		{"banana", 0, false},
	}

	for _, tc := range cases {
		got, ok := parseParamExpr(tc.in)
		if ok != tc.ok {
			t.Errorf("parseParamExpr(%q): ok=%v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && math.Abs(got-tc.want) > 1e-10 {
			t.Errorf("parseParamExpr(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatParamPiForms(t *testing.T) {
	if got := formatParam(math.Pi / 2); got != "pi/2" {
		t.Errorf("formatParam(pi/2) = %q", got)
	}
	if got := formatParam(-3 * math.Pi / 4); got != "-3*pi/4" {
		t.Errorf("formatParam(-3pi/4) = %q", got)
	}
	if got := formatParam(0.123); got != "0.123" {
		t.Errorf("formatParam(0.123) = %q", got)
	}
}

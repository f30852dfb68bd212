package main

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	threeQubitRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex         = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*(\w+)\[(\d+)\];?$`)
	resetRegex           = regexp.MustCompile(`^reset\s+q\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
	barrierRegex         = regexp.MustCompile(`^barrier\s+`)
)

// Gate represents a quantum gate placed on the circuit timeline.
type Gate struct {
	Type     string
	Target   int
	Control  int       // -1 if not a controlled gate
	Controls []int     // multiple control qubits (Toffoli)
	Step     int       // position in circuit timeline
	Params   []float64 // rotation/phase angles
	IsDagger bool
	IsReset  bool
}

// Circuit holds the gate timeline. It is the single source of truth
// for both the diagram and the QASM view.
type Circuit struct {
	NumQubits int
	Gates     []Gate
	MaxSteps  int
}

func (c *Circuit) bumpSteps(step int) {
	if step >= c.MaxSteps {
		c.MaxSteps = step + 1
	}
}

// AddGate appends a gate to the circuit.
func (c *Circuit) AddGate(gateType string, target, step int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.Gates = append(c.Gates, Gate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Step:    step,
	})
	c.bumpSteps(step)
}

// AddParameterizedGate appends a gate with rotation parameters.
func (c *Circuit) AddParameterizedGate(gateType string, target, step int, params []float64, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.Gates = append(c.Gates, Gate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Step:    step,
		Params:  params,
	})
	c.bumpSteps(step)
}

// AddMultiControlGate appends a gate with two or more control qubits.
func (c *Circuit) AddMultiControlGate(gateType string, target, step int, controls []int) {
	c.Gates = append(c.Gates, Gate{
		Type:     gateType,
		Target:   target,
		Control:  -1,
		Controls: controls,
		Step:     step,
	})
	c.bumpSteps(step)
}

// AddDaggerGate appends the adjoint of a named gate.
func (c *Circuit) AddDaggerGate(gateType string, target, step int) {
	c.Gates = append(c.Gates, Gate{
		Type:     gateType,
		Target:   target,
		Control:  -1,
		Step:     step,
		IsDagger: true,
	})
	c.bumpSteps(step)
}

// AddReset appends a reset operation.
func (c *Circuit) AddReset(target, step int) {
	c.Gates = append(c.Gates, Gate{
		Type:    "RESET",
		Target:  target,
		Control: -1,
		Step:    step,
		IsReset: true,
	})
	c.bumpSteps(step)
}

// AddBarrier appends a barrier spanning all qubits at the given step.
func (c *Circuit) AddBarrier(step int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.Step == step && g.Type == "BARRIER"
	})
	c.Gates = append(c.Gates, Gate{
		Type:    "BARRIER",
		Target:  -1, // spans all qubits
		Control: -1,
		Step:    step,
	})
	c.bumpSteps(step)
}

// gateReferences reports whether the gate touches the given qubit.
func (g Gate) gateReferences(qubit int) bool {
	if g.Target == qubit || g.Control == qubit {
		return true
	}
	return slices.Contains(g.Controls, qubit)
}

// RemoveGateAt removes any gate at the given step and qubit.
// Barriers at that step are removed too since they span all qubits.
func (c *Circuit) RemoveGateAt(step, qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		if g.Step == step && g.Type == "BARRIER" {
			return true
		}
		return g.Step == step && g.gateReferences(qubit)
	})
}

// RemoveGatesOnQubit removes all gates that reference the given qubit.
func (c *Circuit) RemoveGatesOnQubit(qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.gateReferences(qubit)
	})
}

// CanPlaceGateAt reports whether all the listed qubits are free at the step.
func (c *Circuit) CanPlaceGateAt(step int, qubits []int) bool {
	for _, g := range c.Gates {
		if g.Step != step {
			continue
		}
		for _, q := range qubits {
			if g.gateReferences(q) {
				return false
			}
		}
	}
	return true
}

// GetGateAt returns the gate at the given step and qubit, or nil.
func (c *Circuit) GetGateAt(step, qubit int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step == step && g.gateReferences(qubit) {
			return g
		}
	}
	return nil
}

// NumCbits returns the number of classical bits needed, derived from
// measurements. Returns 0 when no measurements exist.
func (c *Circuit) NumCbits() int {
	maxMeasureQubit := -1
	for _, gate := range c.Gates {
		if gate.Type == "MEASURE" {
			maxMeasureQubit = max(maxMeasureQubit, gate.Target)
		}
	}
	if maxMeasureQubit < 0 {
		return 0
	}
	return maxMeasureQubit + 1
}

// GetMeasureAtStep returns the qubit being measured at the step, or -1.
func (c *Circuit) GetMeasureAtStep(step int) int {
	for _, g := range c.Gates {
		if g.Step == step && g.Type == "MEASURE" {
			return g.Target
		}
	}
	return -1
}

// sortedByStep returns the gates ordered by timeline position.
func (c *Circuit) sortedByStep() []Gate {
	gates := make([]Gate, len(c.Gates))
	copy(gates, c.Gates)
	slices.SortStableFunc(gates, func(a, b Gate) int {
		return a.Step - b.Step
	})
	return gates
}

// ToQASM generates QASM 2.0 output from the circuit.
func (c *Circuit) ToQASM() string {
	maxQubit := -1
	maxMeasureQubit := -1
	for _, gate := range c.Gates {
		maxQubit = max(maxQubit, gate.Target, gate.Control)
		for _, ctrl := range gate.Controls {
			maxQubit = max(maxQubit, ctrl)
		}
		if gate.Type == "MEASURE" {
			maxMeasureQubit = max(maxMeasureQubit, gate.Target)
		}
	}

	numQubits := max(maxQubit+1, c.NumQubits, 1)
	numCbits := max(maxMeasureQubit+1, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numCbits)

	for _, gate := range c.sortedByStep() {
		switch {
		case gate.Type == "BARRIER":
			qubits := make([]string, numQubits)
			for q := range numQubits {
				qubits[q] = fmt.Sprintf("q[%d]", q)
			}
			fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
		case gate.IsReset:
			fmt.Fprintf(&sb, "reset q[%d];\n", gate.Target)
		case gate.Type == "MEASURE":
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", gate.Target, gate.Target)
		case len(gate.Controls) >= 2:
			fmt.Fprintf(&sb, "ccx q[%d], q[%d], q[%d];\n", gate.Controls[0], gate.Controls[1], gate.Target)
		case gate.Control >= 0:
			gateType := strings.ToLower(gate.Type)
			if len(gate.Params) > 0 {
				fmt.Fprintf(&sb, "%s(%s) q[%d], q[%d];\n", gateType, formatParam(gate.Params[0]), gate.Control, gate.Target)
			} else {
				fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", gateType, gate.Control, gate.Target)
			}
		default:
			gateType := strings.ToLower(gate.Type)
			switch {
			case len(gate.Params) > 0:
				fmt.Fprintf(&sb, "%s(%s) q[%d];\n", gateType, formatParam(gate.Params[0]), gate.Target)
			case gate.IsDagger:
				fmt.Fprintf(&sb, "%sdg q[%d];\n", gateType, gate.Target)
			default:
				fmt.Fprintf(&sb, "%s q[%d];\n", gateType, gate.Target)
			}
		}
	}

	return sb.String()
}

// ParseQASM parses QASM text and rebuilds the circuit from it.
// Unrecognized lines are skipped so the editor stays forgiving while
// the user is mid-edit.
func (c *Circuit) ParseQASM(qasm string) error {
	c.Gates = nil
	c.MaxSteps = 0
	step := 0

	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if matches := qregRegex.FindStringSubmatch(line); len(matches) > 2 {
				n, _ := strconv.Atoi(matches[2])
				c.NumQubits = n
			}
			continue
		}
		if strings.HasPrefix(line, "creg") {
			continue
		}
		if barrierRegex.MatchString(line) {
			c.AddBarrier(step)
			step++
			continue
		}

		// "measure q[0] -> c[0];"
		if matches := measureRegex.FindStringSubmatch(line); matches != nil {
			source, _ := strconv.Atoi(matches[1])
			c.AddGate("MEASURE", source, step)
			step++
			continue
		}

		// "reset q[0];"
		if matches := resetRegex.FindStringSubmatch(line); matches != nil {
			target, _ := strconv.Atoi(matches[1])
			c.AddReset(target, step)
			step++
			continue
		}

		// Two-qubit gates: cx, cz, ch, swap
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			qubit1, _ := strconv.Atoi(matches[2])
			qubit2, _ := strconv.Atoi(matches[3])
			c.AddGate(gateType, qubit2, step, qubit1)
			step++
			continue
		}

		// Toffoli: "ccx q[a], q[b], q[c];"
		if matches := threeQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			qubit1, _ := strconv.Atoi(matches[2])
			qubit2, _ := strconv.Atoi(matches[3])
			qubit3, _ := strconv.Atoi(matches[4])
			if gateType == "CCX" || gateType == "TOFFOLI" {
				c.AddMultiControlGate("CCX", qubit3, step, []int{qubit1, qubit2})
			}
			step++
			continue
		}

		// Parameterized single-qubit gates: rx, ry, rz, p, u1
		if matches := singleGateParamRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			param, ok := parseParamExpr(matches[2])
			target, _ := strconv.Atoi(matches[3])
			if ok {
				c.AddParameterizedGate(gateType, target, step, []float64{param})
			}
			step++
			continue
		}

		// Single-qubit gate, including dagger forms (sdg, tdg)
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			target, _ := strconv.Atoi(matches[2])

			if base, found := strings.CutSuffix(gateType, "DG"); found && base != "" {
				c.AddDaggerGate(base, target, step)
			} else {
				c.AddGate(gateType, target, step)
			}
			step++
			continue
		}
	}

	return nil
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate         *Gate
	isControl    bool
	isTarget     bool
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
	isBarrier    bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func (c *Circuit) getCellInfo(step, qubit int) cellInfo {
	var info cellInfo

	gate := c.GetGateAt(step, qubit)
	if gate != nil {
		info.gate = gate
		info.isControl = gate.Control == qubit || slices.Contains(gate.Controls, qubit)
		info.isTarget = gate.Target == qubit && (gate.Control >= 0 || len(gate.Controls) > 0)
	}

	for i := range c.Gates {
		if c.Gates[i].Step == step && c.Gates[i].Type == "BARRIER" {
			info.isBarrier = true
			if info.gate == nil {
				info.gate = &c.Gates[i]
			}
			break
		}
	}

	// Vertical connector spans for multi-qubit gates.
	for _, g := range c.Gates {
		if g.Step != step {
			continue
		}

		var minQ, maxQ int
		switch {
		case len(g.Controls) > 0:
			minQ, maxQ = g.Target, g.Target
			for _, ctrl := range g.Controls {
				minQ = min(minQ, ctrl)
				maxQ = max(maxQ, ctrl)
			}
		case g.Control >= 0:
			minQ, maxQ = min(g.Control, g.Target), max(g.Control, g.Target)
		default:
			continue
		}

		if qubit >= minQ && qubit <= maxQ {
			if qubit > minQ {
				info.vertAbove = true
			}
			if qubit < maxQ {
				info.vertBelow = true
			}
			if qubit > minQ && qubit < maxQ && info.gate == nil {
				info.passThrough = true
			}
		}
	}

	// Measurement wires run down to the classical register row.
	for _, g := range c.Gates {
		if g.Step == step && g.Type == "MEASURE" && qubit > g.Target {
			info.measureBelow = true
		}
	}

	return info
}

package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
	focusSelectControls
	focusInputParam
)

// Model represents the TUI application state.
type Model struct {
	circuit       Circuit
	cursorQubit   int
	cursorStep    int
	viewStartStep int // first step currently visible
	width         int
	height        int
	qasmEditor    textarea.Model
	focus         focus
	lastQASM      string
	statusMsg     string

	sim     simOptions
	log     zerolog.Logger
	lastRun *runResult // result of the most recent full execution, nil until run

	// Menu state
	menuCat  int
	menuItem int

	// Target-selection state for multi-qubit gates
	pendingGate   string
	targetQubit   int
	paramInput    string
	controlQubits []int
}

func initialModel(cfg Config, log zerolog.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		circuit: Circuit{NumQubits: cfg.Qubits},
		sim: simOptions{
			workers: cfg.Workers,
			sparse:  cfg.Sparse,
		},
		log:        log,
		qasmEditor: ta,
		focus:      focusCircuit,
	}

	m.syncQASM()
	return m
}

// syncQASM refreshes the editor contents from the circuit.
func (m *Model) syncQASM() {
	qasm := m.circuit.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
}

// parseQASMInput rebuilds the circuit from the editor when it changed.
func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm != m.lastQASM {
		m.circuit.ParseQASM(qasm)
		m.lastQASM = qasm
		m.lastRun = nil
	}
}

// placeGate places a gate at the cursor position. targetQ is the
// target qubit for multi-qubit gates (-1 for single-qubit). Returns
// false if the slot is already occupied.
func (m *Model) placeGate(gateType string, targetQ int) bool {
	var qubitsNeeded []int
	switch gateType {
	case "CX", "CZ", "CH", "SWAP", "SQSWAP":
		qubitsNeeded = []int{m.cursorQubit, targetQ}
	case "CCX":
		qubitsNeeded = append([]int{m.cursorQubit, targetQ}, m.controlQubits...)
	case "BARRIER":
		qubitsNeeded = nil
	default:
		qubitsNeeded = []int{m.cursorQubit}
	}

	if len(qubitsNeeded) > 0 && !m.circuit.CanPlaceGateAt(m.cursorStep, qubitsNeeded) {
		m.statusMsg = "Cannot place: qubit already used by another gate at this step"
		m.clearPending()
		return false
	}

	switch gateType {
	case "CX", "CZ", "CH", "SWAP", "SQSWAP":
		m.circuit.AddGate(gateType, targetQ, m.cursorStep, m.cursorQubit)
	case "CCX":
		controls := append([]int{m.cursorQubit}, m.controlQubits...)
		m.circuit.AddMultiControlGate("CCX", targetQ, m.cursorStep, controls)
	case "MEASURE":
		m.circuit.AddGate("MEASURE", m.cursorQubit, m.cursorStep)
	case "BARRIER":
		m.circuit.AddBarrier(m.cursorStep)
	case "RESET":
		m.circuit.AddReset(m.cursorQubit, m.cursorStep)
	case "RX", "RY", "RZ", "P":
		params := parseParams(m.paramInput)
		if len(params) == 0 {
			params = []float64{0}
		}
		m.circuit.AddParameterizedGate(gateType, m.cursorQubit, m.cursorStep, params)
	case "SDG", "TDG":
		m.circuit.AddDaggerGate(gateType[:1], m.cursorQubit, m.cursorStep)
	default:
		m.circuit.AddGate(gateType, m.cursorQubit, m.cursorStep)
	}

	m.clearPending()
	m.lastRun = nil
	m.cursorStep++
	m.circuit.MaxSteps = max(m.circuit.MaxSteps, m.cursorStep)
	m.syncQASM()
	return true
}

func (m *Model) clearPending() {
	m.paramInput = ""
	m.controlQubits = nil
	m.pendingGate = ""
}

// runFullCircuit executes the circuit with measurement collapse and
// keeps the result for the state panel.
func (m *Model) runFullCircuit() {
	res, err := runCircuit(&m.circuit, m.sim)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Run error: %v", err)
		m.log.Error().Err(err).Msg("circuit run failed")
		return
	}
	m.lastRun = &res
	m.statusMsg = fmt.Sprintf("Ran circuit: c = %s", formatCbits(res.cbits))
	m.log.Info().
		Int("qubits", m.circuit.NumQubits).
		Int("gates", len(m.circuit.Gates)).
		Str("cbits", formatCbits(res.cbits)).
		Msg("circuit executed")
}

// formatCbits renders the classical register as a bitstring, highest
// index first to match ket notation.
func formatCbits(cbits []bool) string {
	buf := make([]byte, len(cbits))
	for i, b := range cbits {
		c := byte('0')
		if b {
			c = '1'
		}
		buf[len(cbits)-1-i] = c
	}
	return string(buf)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmEditor.SetWidth(qasmW)
		editorH := max(m.circuitPanelHeight()-8, 4)
		m.qasmEditor.SetHeight(editorH)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "r":
				m.runFullCircuit()
			case "ctrl+r":
				m.circuit.Gates = nil
				m.circuit.MaxSteps = 0
				m.viewStartStep = 0
				m.lastRun = nil
				m.syncQASM()
			case "ctrl+s":
				qasm := m.circuit.ToQASM()
				if err := os.WriteFile("circuit.qasm", []byte(qasm), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved circuit.qasm"
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
					if m.cursorStep < m.viewStartStep {
						m.viewStartStep = m.cursorStep
					}
				}
			case "right", "l":
				m.cursorStep++
				m.circuit.MaxSteps = max(m.circuit.MaxSteps, m.cursorStep)
			case "+", "=":
				if m.circuit.NumQubits < maxViewQubits {
					m.circuit.NumQubits++
					m.lastRun = nil
					m.syncQASM()
				}
			case "-":
				if m.circuit.NumQubits > 1 {
					m.circuit.NumQubits--
					m.cursorQubit = min(m.cursorQubit, m.circuit.NumQubits-1)
					m.circuit.RemoveGatesOnQubit(m.circuit.NumQubits)
					m.lastRun = nil
					m.syncQASM()
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.circuit.RemoveGateAt(m.cursorStep, m.cursorQubit)
				m.lastRun = nil
				m.syncQASM()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				cat := gateMenu[m.menuCat]
				if m.menuItem < len(cat.items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := gateMenu[m.menuCat].items[m.menuItem]
				m.pendingGate = item.gateType

				if item.needsParams {
					m.paramInput = ""
					m.focus = focusInputParam
					break
				}

				if item.gateType == "CCX" {
					if m.circuit.NumQubits < 3 {
						break
					}
					m.controlQubits = nil
					m.focus = focusSelectControls
					m.targetQubit = m.nextFreeQubit()
					break
				}

				if item.needsTarget {
					if m.circuit.NumQubits < 2 {
						break
					}
					m.focus = focusSelectTarget
					m.targetQubit = m.nextFreeQubit()
				} else {
					if m.placeGate(item.gateType, -1) {
						m.focus = focusCircuit
					}
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.clearPending()
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit && !slices.Contains(m.controlQubits, next) {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circuit.NumQubits; next++ {
					if next != m.cursorQubit && !slices.Contains(m.controlQubits, next) {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				if m.placeGate(m.pendingGate, m.targetQubit) {
					m.focus = focusCircuit
				}
			}

		case focusSelectControls:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.clearPending()
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circuit.NumQubits; next++ {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				m.controlQubits = append(m.controlQubits, m.targetQubit)
				m.focus = focusSelectTarget
				m.targetQubit = m.nextFreeQubit()
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.clearPending()
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				if m.paramInput != "" && parseParams(m.paramInput) == nil {
					m.statusMsg = "Invalid parameter — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				if m.placeGate(m.pendingGate, -1) {
					m.focus = focusCircuit
				}
			default:
				if len(key) == 1 {
					ch := key[0]
					if (ch >= '0' && ch <= '9') || ch == '.' || ch == ',' || ch == '-' || ch == 'e' || ch == 'E' || ch == '+' ||
						ch == 'p' || ch == 'i' || ch == '*' || ch == '/' {
						m.paramInput += key
					}
				}
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// nextFreeQubit picks the first qubit that is neither the cursor qubit
// nor an already-chosen control.
func (m *Model) nextFreeQubit() int {
	for q := 0; q < m.circuit.NumQubits; q++ {
		if q != m.cursorQubit && !slices.Contains(m.controlQubits, q) {
			return q
		}
	}
	return m.cursorQubit
}

func (m Model) circuitPanelHeight() int {
	stateH := statePanelHeight
	controlsH := 6
	return max(m.height-stateH-controlsH-2, 6)
}

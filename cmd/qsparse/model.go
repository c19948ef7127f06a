package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"qsparse/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusMenu
	focusInputParam
	focusSelectTarget
	focusCondition
)

// opSpec describes one placed operation in interchange terms: the gate's
// factory name plus parameters, its target qubits, and an optional
// condition. The sim.Circuit is rebuilt from these on every run and save.
type opSpec struct {
	gateName string
	params   []float64
	qubits   []int
	cond     *sim.Condition
}

// touched returns every qubit the operation occupies, condition included.
func (op opSpec) touched() []int {
	qs := append([]int(nil), op.qubits...)
	if op.cond != nil {
		qs = append(qs, op.cond.Qubit)
	}
	return qs
}

// runResults holds everything derived from the last run.
type runResults struct {
	state *sim.State
	probs []float64
	bloch []sim.Bloch
	shots int
	counts []int
}

// Model represents the TUI application state.
type Model struct {
	numQubits int
	initial   uint64
	ops       []opSpec
	selOp     int // selected operation index, -1 when none

	cursorQubit int
	width       int
	height      int
	focus       focus
	statusMsg   string

	results *runResults
	shots   int
	debug   bool
	logger  zerolog.Logger
	rng     *rand.Rand

	savePath string

	// Menu state
	menuCat  int
	menuItem int

	// Placement state
	pendingItem   menuItem
	pendingParams []float64
	pendingQubits []int
	targetQubit   int
	paramInput    textinput.Model

	// Condition-editing state
	condQubit int
	condValue int
}

func initialModel(numQubits int, shots int, debug bool, logger zerolog.Logger, savePath string) Model {
	ti := textinput.New()
	ti.Placeholder = "pi/2"
	ti.CharLimit = 24
	ti.Width = 20

	if numQubits < 1 {
		numQubits = 2
	}
	return Model{
		numQubits:  numQubits,
		selOp:      -1,
		shots:      shots,
		debug:      debug,
		logger:     logger,
		rng:        rand.New(rand.NewSource(1)),
		savePath:   savePath,
		paramInput: ti,
	}
}

// loadCircuit replaces the edited operations with the contents of a
// previously saved circuit document.
func (m *Model) loadCircuit(c *sim.Circuit) {
	m.numQubits = c.NumQubits()
	m.initial = c.Initial()
	m.ops = nil
	for _, op := range c.Ops() {
		spec := opSpec{
			gateName: op.Gate.Name(),
			params:   op.Gate.Params(),
			qubits:   append([]int(nil), op.Qubits...),
		}
		if op.Cond != nil {
			cond := *op.Cond
			spec.cond = &cond
		}
		m.ops = append(m.ops, spec)
	}
	m.selOp = len(m.ops) - 1
	m.results = nil
}

// buildCircuit rebuilds the sim circuit from the edited operations.
func (m *Model) buildCircuit() (*sim.Circuit, error) {
	opts := sim.DefaultOptions()
	opts.Debug = m.debug
	opts.Logger = m.logger
	opts.Rand = m.rng
	c, err := sim.NewCircuitWithOptions(m.numQubits, m.initial, opts)
	if err != nil {
		return nil, err
	}
	for _, op := range m.ops {
		g, err := sim.GateByName(op.gateName, op.params)
		if err != nil {
			return nil, err
		}
		if op.cond != nil {
			err = c.AddConditionalGate(g, op.qubits, *op.cond)
		} else {
			err = c.AddGate(g, op.qubits)
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// runCircuit executes the circuit and derives the result views.
func (m *Model) runCircuit() {
	c, err := m.buildCircuit()
	if err != nil {
		m.statusMsg = errStyle.Render(err.Error())
		return
	}
	st, err := c.Run()
	if err != nil {
		m.statusMsg = errStyle.Render(err.Error())
		return
	}
	res := &runResults{
		state: st,
		probs: sim.Probabilities(st),
		shots: m.shots,
		counts: sim.SampleShots(st, m.shots, m.rng),
	}
	for q := 0; q < m.numQubits; q++ {
		res.bloch = append(res.bloch, sim.BlochVector(st, q))
	}
	m.results = res
	m.statusMsg = fmt.Sprintf("Ran %d operations, %d nonzero amplitudes", len(m.ops), st.Len())
}

// saveCircuit writes the circuit JSON to the save path.
func (m *Model) saveCircuit() {
	c, err := m.buildCircuit()
	if err != nil {
		m.statusMsg = errStyle.Render(err.Error())
		return
	}
	data, err := sim.MarshalCircuit(c)
	if err != nil {
		m.statusMsg = errStyle.Render(err.Error())
		return
	}
	if err := os.WriteFile(m.savePath, data, 0644); err != nil {
		m.statusMsg = errStyle.Render(fmt.Sprintf("Save error: %v", err))
		return
	}
	m.statusMsg = "Saved " + m.savePath
}

// placePending appends the pending gate at the collected qubits.
func (m *Model) placePending() {
	item := m.pendingItem
	spec := opSpec{gateName: item.gateName}

	switch {
	case item.wide:
		spec.qubits = make([]int, m.numQubits)
		for q := range spec.qubits {
			spec.qubits[q] = q
		}
		width := float64(m.numQubits)
		if item.gateName == "Oracle" {
			spec.params = []float64{width, m.pendingParams[0]}
		} else {
			spec.params = []float64{width}
		}
	default:
		spec.qubits = append([]int(nil), m.pendingQubits...)
		spec.params = m.pendingParams
	}

	if _, err := sim.GateByName(spec.gateName, spec.params); err != nil {
		m.statusMsg = errStyle.Render(err.Error())
		m.clearPending()
		return
	}

	m.ops = append(m.ops, spec)
	m.selOp = len(m.ops) - 1
	m.results = nil
	m.clearPending()
}

func (m *Model) clearPending() {
	m.pendingItem = menuItem{}
	m.pendingParams = nil
	m.pendingQubits = nil
	m.focus = focusCircuit
}

// removeOpsOnQubit drops every operation touching the given qubit index.
func (m *Model) removeOpsOnQubit(qubit int) {
	kept := m.ops[:0]
	for _, op := range m.ops {
		refs := false
		for _, q := range op.touched() {
			if q == qubit {
				refs = true
				break
			}
		}
		if !refs {
			kept = append(kept, op)
		}
	}
	m.ops = kept
	if m.selOp >= len(m.ops) {
		m.selOp = len(m.ops) - 1
	}
}

// nextFreeQubit scans from the given qubit in direction dir for one not yet
// used by the pending placement.
func (m *Model) nextFreeQubit(from, dir int) int {
	for q := from + dir; q >= 0 && q < m.numQubits; q += dir {
		if !intsContain(m.pendingQubits, q) {
			return q
		}
	}
	return from
}

func intsContain(qs []int, q int) bool {
	for _, v := range qs {
		if v == q {
			return true
		}
	}
	return false
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
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.numQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.selOp > 0 {
					m.selOp--
				}
			case "right", "l":
				if m.selOp < len(m.ops)-1 {
					m.selOp++
				}
			case "+", "=":
				m.numQubits++
				m.results = nil
			case "-":
				if m.numQubits > 1 {
					m.numQubits--
					m.cursorQubit = min(m.cursorQubit, m.numQubits-1)
					m.removeOpsOnQubit(m.numQubits)
					m.results = nil
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				if m.selOp >= 0 && m.selOp < len(m.ops) {
					m.ops = append(m.ops[:m.selOp], m.ops[m.selOp+1:]...)
					if m.selOp >= len(m.ops) {
						m.selOp = len(m.ops) - 1
					}
					m.results = nil
				}
			case "c":
				if m.selOp >= 0 && m.selOp < len(m.ops) {
					op := m.ops[m.selOp]
					m.condQubit = -1
					for q := 0; q < m.numQubits; q++ {
						if !intsContain(op.qubits, q) {
							m.condQubit = q
							break
						}
					}
					if m.condQubit < 0 {
						m.statusMsg = "No free qubit available for a condition"
						break
					}
					m.condValue = 1
					if op.cond != nil {
						m.condQubit = op.cond.Qubit
						m.condValue = op.cond.Value
					}
					m.focus = focusCondition
				}
			case "x":
				if m.selOp >= 0 && m.selOp < len(m.ops) && m.ops[m.selOp].cond != nil {
					m.ops[m.selOp].cond = nil
					m.results = nil
				}
			case "r":
				m.runCircuit()
			case "ctrl+s":
				m.saveCircuit()
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
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
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
				if item.extraQubits > 0 && m.numQubits < item.extraQubits+1 {
					m.statusMsg = fmt.Sprintf("%s needs %d qubits", item.name, item.extraQubits+1)
					break
				}
				m.pendingItem = item
				m.pendingQubits = []int{m.cursorQubit}
				if item.wide {
					m.pendingQubits = nil
				}
				if item.needsParam {
					m.paramInput.SetValue("")
					m.paramInput.Placeholder = item.paramHint
					m.paramInput.Focus()
					m.focus = focusInputParam
					break
				}
				m.advancePlacement()
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.paramInput.Blur()
				m.clearPending()
			case "enter":
				val, ok := parseParamExpr(m.paramInput.Value())
				if !ok {
					m.statusMsg = "Invalid parameter — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				m.pendingParams = []float64{val}
				m.paramInput.Blur()
				m.advancePlacement()
			default:
				var cmd tea.Cmd
				m.paramInput, cmd = m.paramInput.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.clearPending()
			case "up", "k":
				m.targetQubit = m.nextFreeQubit(m.targetQubit, -1)
			case "down", "j":
				m.targetQubit = m.nextFreeQubit(m.targetQubit, 1)
			case "enter":
				m.pendingQubits = append(m.pendingQubits, m.targetQubit)
				m.advancePlacement()
			}

		case focusCondition:
			op := &m.ops[m.selOp]
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				for q := m.condQubit - 1; q >= 0; q-- {
					if !intsContain(op.qubits, q) {
						m.condQubit = q
						break
					}
				}
			case "down", "j":
				for q := m.condQubit + 1; q < m.numQubits; q++ {
					if !intsContain(op.qubits, q) {
						m.condQubit = q
						break
					}
				}
			case "left", "right", "h", "l", " ":
				m.condValue = 1 - m.condValue
			case "enter":
				op.cond = &sim.Condition{Qubit: m.condQubit, Value: m.condValue}
				m.results = nil
				m.focus = focusCircuit
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// advancePlacement moves the pending gate to the next missing input:
// another target qubit, or final placement.
func (m *Model) advancePlacement() {
	item := m.pendingItem
	if !item.wide && len(m.pendingQubits) < item.extraQubits+1 {
		m.focus = focusSelectTarget
		m.targetQubit = m.nextFreeQubit(-1, 1)
		return
	}
	m.placePending()
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	resultsWidth := m.width * 2 / 5
	circuitWidth := m.width - resultsWidth - 4
	controlsHeight := 5
	panelHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, panelHeight)
	resultsPanel := m.renderResultsPanel(resultsWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width - 4)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, resultsPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	case focusCondition:
		frame = overlayAt(frame, m.renderConditionEditor(), 2, 2)
	}

	return frame
}

// renderParamInput renders the parameter entry overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Enter Parameter"))
	sb.WriteString("\n\n")
	sb.WriteString(m.paramInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderConditionEditor renders the condition editing overlay.
func (m Model) renderConditionEditor() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Condition"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Measure q[%d], apply when outcome = %d\n\n", m.condQubit, m.condValue))
	sb.WriteString(dimStyle.Render("↑↓ Qubit  ←→ Value  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

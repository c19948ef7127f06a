package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"qsparse/sim"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width using the fill rune.
func padCenter(s string, width int, fill string) string {
	n := len([]rune(s))
	if n >= width {
		return string([]rune(s)[:width])
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, right)
}

// gateSymbols returns the per-qubit wire symbols of an operation, keyed by
// qubit index. The condition qubit gets its own marker.
func gateSymbols(op opSpec) map[int]string {
	syms := make(map[int]string, len(op.qubits)+1)
	switch op.gateName {
	case "Hadamard":
		syms[op.qubits[0]] = "H"
	case "PauliX":
		syms[op.qubits[0]] = "X"
	case "PauliY":
		syms[op.qubits[0]] = "Y"
	case "PauliZ":
		syms[op.qubits[0]] = "Z"
	case "RX", "RY", "RZ":
		syms[op.qubits[0]] = op.gateName
	case "CNOT":
		syms[op.qubits[0]] = "●"
		syms[op.qubits[1]] = "⊕"
	case "Swap":
		syms[op.qubits[0]] = "×"
		syms[op.qubits[1]] = "×"
	case "ControlledPhaseShift":
		syms[op.qubits[0]] = "●"
		syms[op.qubits[1]] = "P"
	case "Toffoli":
		syms[op.qubits[0]] = "●"
		syms[op.qubits[1]] = "●"
		syms[op.qubits[2]] = "⊕"
	case "Oracle":
		for _, q := range op.qubits {
			syms[q] = "O"
		}
	case "Diffusion":
		for _, q := range op.qubits {
			syms[q] = "D"
		}
	default:
		for _, q := range op.qubits {
			syms[q] = "?"
		}
	}
	if op.cond != nil {
		syms[op.cond.Qubit] = fmt.Sprintf("?%d", op.cond.Value)
	}
	return syms
}

// opSummary is the one-line description shown for the selected operation.
func opSummary(op opSpec) string {
	var sb strings.Builder
	sb.WriteString(op.gateName)
	if len(op.params) > 0 && (op.gateName == "RX" || op.gateName == "RY" || op.gateName == "RZ" || op.gateName == "ControlledPhaseShift") {
		fmt.Fprintf(&sb, "(%s)", formatParam(op.params[0]))
	}
	if op.gateName == "Oracle" {
		fmt.Fprintf(&sb, "(mark=%d)", int(op.params[1]))
	}
	sb.WriteString(" on")
	for _, q := range op.qubits {
		fmt.Fprintf(&sb, " q[%d]", q)
	}
	if op.cond != nil {
		fmt.Fprintf(&sb, " if q[%d]==%d", op.cond.Qubit, op.cond.Value)
	}
	return sb.String()
}

// ──────────────────────────── Circuit panel ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Circuit"))
	fmt.Fprintf(&sb, "  %s\n\n", dimStyle.Render(fmt.Sprintf("%d qubits, initial |%s⟩", m.numQubits, sim.BasisLabel(m.initial, m.numQubits))))

	cols := layoutColumns(m.ops)
	numCols := columnCount(cols)

	availWidth := width - labelW - 4
	maxCols := max(availWidth/cellW, 1)
	startCol := 0
	if m.selOp >= 0 && cols[m.selOp] >= maxCols {
		startCol = cols[m.selOp] - maxCols + 1
	}

	// Column occupancy per qubit: symbol and whether a vertical connector
	// passes through.
	type cell struct {
		sym      string
		selected bool
		pass     bool
	}
	grid := make(map[int]map[int]cell) // qubit -> column -> cell
	for q := 0; q < m.numQubits; q++ {
		grid[q] = make(map[int]cell)
	}
	for i, op := range m.ops {
		col := cols[i]
		syms := gateSymbols(op)
		minQ, maxQ := m.numQubits, -1
		for _, q := range op.touched() {
			if q < minQ {
				minQ = q
			}
			if q > maxQ {
				maxQ = q
			}
		}
		for q := minQ; q <= maxQ; q++ {
			c := cell{selected: i == m.selOp}
			if sym, ok := syms[q]; ok {
				c.sym = sym
			} else {
				c.pass = true
			}
			grid[q][col] = c
		}
	}

	for q := 0; q < m.numQubits; q++ {
		label := fmt.Sprintf("q[%d]", q)
		style := qubitLabelStyle
		if q == m.cursorQubit && (m.focus == focusCircuit || m.focus == focusMenu) {
			style = cursorStyle
			label = "▸" + label
		}
		if m.focus == focusSelectTarget && q == m.targetQubit {
			style = selectedOpStyle
			label = "▸" + label
		}
		line := style.Render(fmt.Sprintf("%-*s", labelW-2, label)) + "──"

		for col := startCol; col < startCol+maxCols; col++ {
			c, ok := grid[q][col]
			switch {
			case !ok || col >= numCols:
				line += strings.Repeat("─", cellW)
			case c.pass:
				line += padCenter("┼", cellW, "─")
			default:
				sym := padCenter(c.sym, cellW, "─")
				switch {
				case c.selected:
					line += selectedOpStyle.Render(sym)
				case strings.HasPrefix(c.sym, "?"):
					line += condStyle.Render(sym)
				default:
					line += gateStyle.Render(sym)
				}
			}
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	switch {
	case m.focus == focusSelectTarget:
		fmt.Fprintf(&sb, "  %s  Select qubit %d of %d: %s %s",
			gateStyle.Render(m.pendingItem.name),
			len(m.pendingQubits)+1, m.pendingItem.extraQubits+1,
			selectedOpStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)),
			dimStyle.Render("↑↓ Move  ⏎ Ok  Esc ✕"))
	case m.selOp >= 0 && m.selOp < len(m.ops):
		fmt.Fprintf(&sb, "  Op %d/%d: %s", m.selOp+1, len(m.ops), opSummary(m.ops[m.selOp]))
	default:
		sb.WriteString(dimStyle.Render("  Empty circuit — press a to add a gate"))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "\n  %s", m.statusMsg)
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Results panel ────────────────────────────

// renderResultsPanel renders probabilities, Bloch parameters and shot
// counts from the last run.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Results"))
	sb.WriteString("\n\n")

	if m.results == nil {
		sb.WriteString(dimStyle.Render("Press r to run the circuit."))
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	}
	res := m.results

	// Basis states sorted by probability, capped to keep the panel stable.
	type entry struct {
		idx  uint64
		prob float64
	}
	var entries []entry
	for i, p := range res.probs {
		if p > 1e-12 {
			entries = append(entries, entry{uint64(i), p})
		}
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].prob != entries[b].prob {
			return entries[a].prob > entries[b].prob
		}
		return entries[a].idx < entries[b].idx
	})
	const maxRows = 8
	shown := entries
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}

	sb.WriteString(titleStyle.Render("Amplitudes"))
	sb.WriteString("\n")
	for _, e := range shown {
		amp, _ := res.state.Amplitude(e.idx)
		bar := barStyle.Render(strings.Repeat("█", int(e.prob*16+0.5)))
		fmt.Fprintf(&sb, " |%s⟩ %+.3f%+.3fi  p=%.4f %s\n",
			sim.BasisLabel(e.idx, m.numQubits), real(amp), imag(amp), e.prob, bar)
	}
	if len(entries) > maxRows {
		fmt.Fprintf(&sb, " %s\n", dimStyle.Render(fmt.Sprintf("… %d more", len(entries)-maxRows)))
	}

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("Bloch"))
	sb.WriteString("\n")
	for q, b := range res.bloch {
		fmt.Fprintf(&sb, " q[%d] θ=%.3f φ=%+.3f r=%.3f ez=%+.3f\n", q, b.Theta, b.Phi, b.R, b.EZ)
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s\n", titleStyle.Render(fmt.Sprintf("Shots (%d)", res.shots)))
	for _, e := range shown {
		n := res.counts[e.idx]
		if n == 0 {
			continue
		}
		frac := float64(n) / float64(res.shots)
		bar := barStyle.Render(strings.Repeat("█", int(frac*16+0.5)))
		fmt.Fprintf(&sb, " |%s⟩ %5d %s\n", sim.BasisLabel(e.idx, m.numQubits), n, bar)
	}

	// Norm drift indicator, mostly of interest with deep circuits.
	if drift := math.Abs(res.state.Norm() - 1); drift > 1e-9 {
		fmt.Fprintf(&sb, "\n %s\n", dimStyle.Render(fmt.Sprintf("norm drift %.1e", drift)))
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width int) string {
	var sb strings.Builder

	sb.WriteString(condStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Operation  +/- Qubits\n")
	sb.WriteString(condStyle.Render("Actions:  "))
	sb.WriteString("a Add  Bksp Delete  c Condition  x Unconditional  r Run  ^S Save  q Quit")

	return controlsStyle.Width(width).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay on top of the background at (x, y),
// tracking visible columns so ANSI escapes in the background survive.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	for i, ovLine := range strings.Split(overlay, "\n") {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns [x, x+width(overlay)) of bgLine
// with the overlay content.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix, suffix strings.Builder

	col := 0
	i := 0
	appendEscape := func(out *strings.Builder) {
		for i < len(runes) {
			r := runes[i]
			out.WriteRune(r)
			i++
			if r != '\x1b' && r != '[' && (r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
				return
			}
		}
	}

	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			appendEscape(&prefix)
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	skipped := 0
	var discard strings.Builder
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			appendEscape(&discard)
			continue
		}
		skipped++
		i++
	}

	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-escape) characters.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
				inEsc = false
			}
		default:
			n++
		}
	}
	return n
}

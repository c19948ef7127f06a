package main

import (
	"fmt"
	"strings"
)

// menuItem represents a single gate choice in the picker.
type menuItem struct {
	name        string
	gateName    string
	symbol      string
	extraQubits int    // qubits selected after the cursor qubit
	needsParam  bool   // prompts for an angle / mark before placement
	paramHint   string // example shown while prompting
	wide        bool   // acts on the whole register
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// gateMenu defines the gate picker categories and items.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", gateName: "Hadamard", symbol: "H"},
			{name: "Pauli-X (NOT)", gateName: "PauliX", symbol: "X"},
			{name: "Pauli-Y", gateName: "PauliY", symbol: "Y"},
			{name: "Pauli-Z", gateName: "PauliZ", symbol: "Z"},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", gateName: "RX", symbol: "RX", needsParam: true, paramHint: "pi/2"},
			{name: "Rotate Y", gateName: "RY", symbol: "RY", needsParam: true, paramHint: "pi/2"},
			{name: "Rotate Z", gateName: "RZ", symbol: "RZ", needsParam: true, paramHint: "pi/2"},
		},
	},
	{
		name: "Multi Qubit",
		items: []menuItem{
			{name: "CNOT", gateName: "CNOT", symbol: "●─⊕", extraQubits: 1},
			{name: "SWAP", gateName: "Swap", symbol: "×─×", extraQubits: 1},
			{name: "C-Phase", gateName: "ControlledPhaseShift", symbol: "●─P", extraQubits: 1, needsParam: true, paramHint: "pi/4"},
			{name: "Toffoli (CCX)", gateName: "Toffoli", symbol: "●─●─⊕", extraQubits: 2},
		},
	},
	{
		name: "Grover",
		items: []menuItem{
			{name: "Oracle", gateName: "Oracle", symbol: "±1", wide: true, needsParam: true, paramHint: "marked index, e.g. 3"},
			{name: "Diffusion", gateName: "Diffusion", symbol: "2J-I", wide: true},
		},
	},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(menuSelectedStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 44)))
	sb.WriteString("\n")

	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.extraQubits > 0 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" +%d qubit", item.extraQubits)))
		}
		if item.wide {
			sb.WriteString(dimStyle.Render(" all qubits"))
		}
		if item.needsParam {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.paramHint)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

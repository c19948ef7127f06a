package main

import (
	"testing"

	"qsparse/sim"
)

func TestLayoutParallelGates(t *testing.T) {
	ops := []opSpec{
		{gateName: "Hadamard", qubits: []int{0}},
		{gateName: "Hadamard", qubits: []int{1}},
		{gateName: "CNOT", qubits: []int{0, 1}},
		{gateName: "PauliX", qubits: []int{2}},
	}
	cols := layoutColumns(ops)

	if cols[0] != cols[1] {
		t.Errorf("H q[0] at column %d, H q[1] at column %d — disjoint gates should share a column", cols[0], cols[1])
	}
	if cols[2] <= cols[0] {
		t.Errorf("CNOT at column %d, want after the H gates at column %d", cols[2], cols[0])
	}
	if cols[3] != 0 {
		t.Errorf("X q[2] at column %d, want 0", cols[3])
	}
	if columnCount(cols) != 2 {
		t.Errorf("columnCount = %d, want 2", columnCount(cols))
	}
}

func TestLayoutConditionBlocksColumn(t *testing.T) {
	// A conditional gate occupies its condition qubit too, so a later gate
	// on that qubit cannot share its column.
	ops := []opSpec{
		{gateName: "PauliX", qubits: []int{1}, cond: &sim.Condition{Qubit: 0, Value: 1}},
		{gateName: "Hadamard", qubits: []int{0}},
	}
	cols := layoutColumns(ops)
	if cols[1] <= cols[0] {
		t.Errorf("H q[0] at column %d, want after the conditional at column %d", cols[1], cols[0])
	}
}

func TestLayoutEmpty(t *testing.T) {
	cols := layoutColumns(nil)
	if len(cols) != 0 || columnCount(cols) != 0 {
		t.Errorf("empty layout: cols=%v count=%d", cols, columnCount(cols))
	}
}

// Package sim is a gate-level quantum circuit simulator over a sparse
// amplitude store. Basis-state indices put qubit 0 at the least significant
// bit; gate matrices put local target bit 0 at the least significant bit of
// their row/column index.
package sim

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
)

// Complex is the amplitude scalar. math/cmplx supplies abs (cmplx.Abs),
// arg (cmplx.Phase, in (-pi, pi]) and conj (cmplx.Conj).
type Complex = complex128

// Gate is an immutable k-qubit unitary. The matrix is size x size with
// size = 2^k; row and column indices enumerate the target bits with local
// bit 0 at the least significant position. Gates carry no qubit indices —
// an Operation binds them to qubits when placed on a circuit.
type Gate struct {
	name   string
	params []float64
	size   int
	matrix [][]Complex
}

// Name returns the factory name of the gate ("Hadamard", "CNOT", ...).
func (g Gate) Name() string { return g.name }

// Params returns the factory parameters of the gate, nil for fixed gates.
func (g Gate) Params() []float64 {
	if g.params == nil {
		return nil
	}
	out := make([]float64, len(g.params))
	copy(out, g.params)
	return out
}

// Size returns the matrix dimension 2^arity.
func (g Gate) Size() int { return g.size }

// Arity returns the number of qubits the gate acts on.
func (g Gate) Arity() int { return bits.Len(uint(g.size)) - 1 }

// At returns the matrix element at (row, col).
func (g Gate) At(row, col int) Complex { return g.matrix[row][col] }

// Dagger returns the conjugate transpose. For the unitaries built by the
// factories this is the inverse gate.
func (g Gate) Dagger() Gate {
	m := newMatrix(g.size)
	for r := range g.size {
		for c := range g.size {
			m[r][c] = cmplx.Conj(g.matrix[c][r])
		}
	}
	return Gate{name: g.name + "†", params: g.params, size: g.size, matrix: m}
}

func newMatrix(size int) [][]Complex {
	m := make([][]Complex, size)
	for i := range m {
		m[i] = make([]Complex, size)
	}
	return m
}

// permutationGate builds a gate whose matrix maps basis column c to row
// perm(c). perm must be a bijection on [0, size).
func permutationGate(name string, size int, perm func(int) int) Gate {
	m := newMatrix(size)
	for c := range size {
		m[perm(c)][c] = 1
	}
	return Gate{name: name, size: size, matrix: m}
}

// Hadamard returns the 1-qubit Hadamard gate.
func Hadamard() Gate {
	h := complex(1/math.Sqrt2, 0)
	return Gate{name: "Hadamard", size: 2, matrix: [][]Complex{
		{h, h},
		{h, -h},
	}}
}

// PauliX returns the 1-qubit NOT gate.
func PauliX() Gate {
	return permutationGate("PauliX", 2, func(c int) int { return c ^ 1 })
}

// PauliY returns the 1-qubit Pauli-Y gate.
func PauliY() Gate {
	return Gate{name: "PauliY", size: 2, matrix: [][]Complex{
		{0, -1i},
		{1i, 0},
	}}
}

// PauliZ returns the 1-qubit Pauli-Z gate.
func PauliZ() Gate {
	return Gate{name: "PauliZ", size: 2, matrix: [][]Complex{
		{1, 0},
		{0, -1},
	}}
}

// RX returns a rotation of theta radians about the X axis.
func RX(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return Gate{name: "RX", params: []float64{theta}, size: 2, matrix: [][]Complex{
		{c, js},
		{js, c},
	}}
}

// RY returns a rotation of theta radians about the Y axis.
func RY(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Gate{name: "RY", params: []float64{theta}, size: 2, matrix: [][]Complex{
		{c, -s},
		{s, c},
	}}
}

// RZ returns a rotation of theta radians about the Z axis:
// diag(e^{-i theta/2}, e^{+i theta/2}).
func RZ(theta float64) Gate {
	phase := cmplx.Exp(complex(0, theta/2))
	return Gate{name: "RZ", params: []float64{theta}, size: 2, matrix: [][]Complex{
		{cmplx.Conj(phase), 0},
		{0, phase},
	}}
}

// CNOT returns the 2-qubit controlled-NOT. Local bit 0 is the control
// (the first listed qubit of the operation), local bit 1 the target.
func CNOT() Gate {
	return permutationGate("CNOT", 4, func(c int) int {
		if c&1 == 1 {
			return c ^ 2
		}
		return c
	})
}

// Swap returns the 2-qubit swap gate.
func Swap() Gate {
	return permutationGate("Swap", 4, func(c int) int {
		return c&^3 | (c&1)<<1 | (c>>1)&1
	})
}

// ControlledPhaseShift returns the 2-qubit gate applying e^{i theta} on the
// |11> basis state.
func ControlledPhaseShift(theta float64) Gate {
	m := newMatrix(4)
	for i := range 4 {
		m[i][i] = 1
	}
	m[3][3] = cmplx.Exp(complex(0, theta))
	return Gate{name: "ControlledPhaseShift", params: []float64{theta}, size: 4, matrix: m}
}

// Toffoli returns the 3-qubit gate flipping local bit 2 when local bits 0
// and 1 are both set.
func Toffoli() Gate {
	return permutationGate("Toffoli", 8, func(c int) int {
		if c&3 == 3 {
			return c ^ 4
		}
		return c
	})
}

// Oracle returns the width-qubit diagonal unitary with -1 at basis index
// mark and +1 elsewhere.
func Oracle(width, mark int) (Gate, error) {
	if width < 1 {
		return Gate{}, fmt.Errorf("%w: oracle width %d, need at least 1", ErrInvalidArgument, width)
	}
	size := 1 << width
	if mark < 0 || mark >= size {
		return Gate{}, fmt.Errorf("%w: oracle mark %d outside [0, %d)", ErrInvalidArgument, mark, size)
	}
	m := newMatrix(size)
	for i := range size {
		m[i][i] = 1
	}
	m[mark][mark] = -1
	return Gate{name: "Oracle", params: []float64{float64(width), float64(mark)}, size: size, matrix: m}, nil
}

// Diffusion returns the width-qubit Grover diffusion operator
// 2/2^width * J - I (inversion about the mean).
func Diffusion(width int) (Gate, error) {
	if width < 1 {
		return Gate{}, fmt.Errorf("%w: diffusion width %d, need at least 1", ErrInvalidArgument, width)
	}
	size := 1 << width
	off := complex(2/float64(size), 0)
	m := newMatrix(size)
	for r := range size {
		for c := range size {
			m[r][c] = off
		}
		m[r][r] = off - 1
	}
	return Gate{name: "Diffusion", params: []float64{float64(width)}, size: size, matrix: m}, nil
}

// GateByName dispatches to the factory for the given gate name. Parameter
// arities: RX/RY/RZ/ControlledPhaseShift take [theta]; Oracle takes
// [width, mark]; Diffusion takes [width]; all others take none.
func GateByName(name string, params []float64) (Gate, error) {
	fixed := func(g Gate) (Gate, error) {
		if len(params) != 0 {
			return Gate{}, fmt.Errorf("%w: gate %s takes no parameters, got %d", ErrInvalidArgument, name, len(params))
		}
		return g, nil
	}
	angle := func(f func(float64) Gate) (Gate, error) {
		if len(params) != 1 {
			return Gate{}, fmt.Errorf("%w: gate %s takes one parameter, got %d", ErrInvalidArgument, name, len(params))
		}
		return f(params[0]), nil
	}

	switch name {
	case "Hadamard":
		return fixed(Hadamard())
	case "PauliX":
		return fixed(PauliX())
	case "PauliY":
		return fixed(PauliY())
	case "PauliZ":
		return fixed(PauliZ())
	case "RX":
		return angle(RX)
	case "RY":
		return angle(RY)
	case "RZ":
		return angle(RZ)
	case "CNOT":
		return fixed(CNOT())
	case "Swap":
		return fixed(Swap())
	case "Toffoli":
		return fixed(Toffoli())
	case "ControlledPhaseShift":
		return angle(ControlledPhaseShift)
	case "Oracle":
		if len(params) != 2 {
			return Gate{}, fmt.Errorf("%w: gate Oracle takes [width, mark], got %d parameters", ErrInvalidArgument, len(params))
		}
		return Oracle(int(params[0]), int(params[1]))
	case "Diffusion":
		if len(params) != 1 {
			return Gate{}, fmt.Errorf("%w: gate Diffusion takes [width], got %d parameters", ErrInvalidArgument, len(params))
		}
		return Diffusion(int(params[0]))
	default:
		return Gate{}, fmt.Errorf("%w: unknown gate %q", ErrInvalidArgument, name)
	}
}

package sim

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

const matrixTolerance = 1e-10

// mustGate unwraps factory results inside test tables.
func mustGate(g Gate, err error) Gate {
	if err != nil {
		panic(err)
	}
	return g
}

func allFactoryGates() map[string]Gate {
	return map[string]Gate{
		"Hadamard":             Hadamard(),
		"PauliX":               PauliX(),
		"PauliY":               PauliY(),
		"PauliZ":               PauliZ(),
		"RX":                   RX(math.Pi / 3),
		"RY":                   RY(1.1),
		"RZ":                   RZ(-math.Pi / 5),
		"CNOT":                 CNOT(),
		"Swap":                 Swap(),
		"Toffoli":              Toffoli(),
		"ControlledPhaseShift": ControlledPhaseShift(math.Pi / 7),
		"Oracle":               mustGate(Oracle(3, 5)),
		"Diffusion":            mustGate(Diffusion(3)),
	}
}

func TestFactoryUnitarity(t *testing.T) {
	for name, g := range allFactoryGates() {
		dag := g.Dagger()
		size := g.Size()
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				sum := Complex(0)
				for k := 0; k < size; k++ {
					sum += g.At(r, k) * dag.At(k, c)
				}
				want := Complex(0)
				if r == c {
					want = 1
				}
				if cmplx.Abs(sum-want) > matrixTolerance {
					t.Errorf("%s: (G*G†)[%d][%d] = %v, want %v", name, r, c, sum, want)
				}
			}
		}
	}
}

func TestGateShapes(t *testing.T) {
	tests := []struct {
		name  string
		gate  Gate
		size  int
		arity int
	}{
		{"Hadamard", Hadamard(), 2, 1},
		{"RZ", RZ(0.5), 2, 1},
		{"CNOT", CNOT(), 4, 2},
		{"Swap", Swap(), 4, 2},
		{"Toffoli", Toffoli(), 8, 3},
		{"Oracle(4,_)", mustGate(Oracle(4, 9)), 16, 4},
		{"Diffusion(2)", mustGate(Diffusion(2)), 4, 2},
	}
	for _, tt := range tests {
		if tt.gate.Size() != tt.size {
			t.Errorf("%s: Size() = %d, want %d", tt.name, tt.gate.Size(), tt.size)
		}
		if tt.gate.Arity() != tt.arity {
			t.Errorf("%s: Arity() = %d, want %d", tt.name, tt.gate.Arity(), tt.arity)
		}
	}
}

func TestFactoryErrors(t *testing.T) {
	if _, err := Oracle(0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Oracle(0, 0): err = %v, want ErrInvalidArgument", err)
	}
	if _, err := Oracle(2, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Oracle(2, -1): err = %v, want ErrInvalidArgument", err)
	}
	if _, err := Oracle(2, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Oracle(2, 4): err = %v, want ErrInvalidArgument", err)
	}
	if _, err := Diffusion(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Diffusion(0): err = %v, want ErrInvalidArgument", err)
	}
}

func TestOracleOneOneIsPauliZ(t *testing.T) {
	o := mustGate(Oracle(1, 1))
	z := PauliZ()
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if cmplx.Abs(o.At(r, c)-z.At(r, c)) > matrixTolerance {
				t.Errorf("Oracle(1,1)[%d][%d] = %v, want %v", r, c, o.At(r, c), z.At(r, c))
			}
		}
	}
}

func TestDiffusionOneIsPauliXUpToPhase(t *testing.T) {
	d := mustGate(Diffusion(1))
	x := PauliX()

	// Find the global phase from the first element pair with nonzero X entry.
	var phase Complex
	for r := 0; r < 2 && phase == 0; r++ {
		for c := 0; c < 2; c++ {
			if x.At(r, c) != 0 {
				phase = d.At(r, c) / x.At(r, c)
				break
			}
		}
	}
	if math.Abs(cmplx.Abs(phase)-1) > matrixTolerance {
		t.Fatalf("phase factor %v is not unimodular", phase)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if cmplx.Abs(d.At(r, c)-phase*x.At(r, c)) > matrixTolerance {
				t.Errorf("Diffusion(1)[%d][%d] = %v, want %v", r, c, d.At(r, c), phase*x.At(r, c))
			}
		}
	}
}

func TestRXPiMatrix(t *testing.T) {
	g := RX(math.Pi)
	want := [][]Complex{
		{0, -1i},
		{-1i, 0},
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if cmplx.Abs(g.At(r, c)-want[r][c]) > matrixTolerance {
				t.Errorf("RX(pi)[%d][%d] = %v, want %v", r, c, g.At(r, c), want[r][c])
			}
		}
	}
}

func TestDaggerInvertsRotation(t *testing.T) {
	theta := 0.7
	dag := RX(theta).Dagger()
	inv := RX(-theta)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if cmplx.Abs(dag.At(r, c)-inv.At(r, c)) > matrixTolerance {
				t.Errorf("RX(%g)†[%d][%d] = %v, want %v", theta, r, c, dag.At(r, c), inv.At(r, c))
			}
		}
	}
}

func TestGateByName(t *testing.T) {
	tests := []struct {
		name   string
		params []float64
		ok     bool
	}{
		{"Hadamard", nil, true},
		{"PauliX", nil, true},
		{"PauliY", nil, true},
		{"PauliZ", nil, true},
		{"RX", []float64{math.Pi / 2}, true},
		{"RY", []float64{0.25}, true},
		{"RZ", []float64{-1}, true},
		{"CNOT", nil, true},
		{"Swap", nil, true},
		{"Toffoli", nil, true},
		{"ControlledPhaseShift", []float64{math.Pi / 4}, true},
		{"Oracle", []float64{2, 3}, true},
		{"Diffusion", []float64{2}, true},

		{"Hadamard", []float64{1}, false},
		{"RX", nil, false},
		{"RX", []float64{1, 2}, false},
		{"Oracle", []float64{2}, false},
		{"Diffusion", nil, false},
		{"CPHASE", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		g, err := GateByName(tt.name, tt.params)
		if tt.ok && err != nil {
			t.Errorf("GateByName(%q, %v): unexpected error %v", tt.name, tt.params, err)
			continue
		}
		if !tt.ok {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("GateByName(%q, %v): err = %v, want ErrInvalidArgument", tt.name, tt.params, err)
			}
			continue
		}
		if g.Name() != tt.name {
			t.Errorf("GateByName(%q): Name() = %q", tt.name, g.Name())
		}
	}
}

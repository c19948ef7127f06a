package sim

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/cmplx"
	"strconv"
)

// Wire format for circuit interchange with surrounding tooling.
type circuitJSON struct {
	NumQubits         int             `json:"numQubits"`
	InitialBasisState uint64          `json:"initialBasisState"`
	Operations        []operationJSON `json:"operations"`
}

type operationJSON struct {
	GateName  string         `json:"gateName"`
	Qubits    []int          `json:"qubits"`
	Params    []float64      `json:"params,omitempty"`
	Condition *conditionJSON `json:"condition,omitempty"`
}

type conditionJSON struct {
	Qubit int `json:"qubit"`
	Value int `json:"value"`
}

// MarshalCircuit serializes a circuit to its JSON interchange form.
// Only factory-named gates serialize; a Dagger-derived gate has no wire name.
func MarshalCircuit(c *Circuit) ([]byte, error) {
	doc := circuitJSON{
		NumQubits:         c.n,
		InitialBasisState: c.initial,
		Operations:        make([]operationJSON, 0, len(c.ops)),
	}
	for i, op := range c.ops {
		if _, err := GateByName(op.Gate.Name(), op.Gate.Params()); err != nil {
			return nil, fmt.Errorf("operation %d: gate %s has no interchange name", i, op.Gate.Name())
		}
		oj := operationJSON{
			GateName: op.Gate.Name(),
			Qubits:   append([]int(nil), op.Qubits...),
			Params:   op.Gate.Params(),
		}
		if op.Cond != nil {
			oj.Condition = &conditionJSON{Qubit: op.Cond.Qubit, Value: op.Cond.Value}
		}
		doc.Operations = append(doc.Operations, oj)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ParseCircuit rebuilds a circuit from its JSON interchange form. Every
// operation passes through the same validation as the Add* methods, so a
// malformed document is rejected with the offending operation index.
func ParseCircuit(data []byte) (*Circuit, error) {
	return ParseCircuitWithOptions(data, DefaultOptions())
}

// ParseCircuitWithOptions is ParseCircuit with explicit run options.
func ParseCircuitWithOptions(data []byte, opts Options) (*Circuit, error) {
	var doc circuitJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	c, err := NewCircuitWithOptions(doc.NumQubits, doc.InitialBasisState, opts)
	if err != nil {
		return nil, err
	}
	for i, oj := range doc.Operations {
		g, err := GateByName(oj.GateName, oj.Params)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if oj.Condition != nil {
			err = c.AddConditionalGate(g, oj.Qubits, Condition{Qubit: oj.Condition.Qubit, Value: oj.Condition.Value})
		} else {
			err = c.AddGate(g, oj.Qubits)
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BasisLabel formats basis index i as an n-bit binary string where bit q
// of the label reflects qubit q (qubit 0 rightmost).
func BasisLabel(i uint64, n int) string {
	label := strconv.FormatUint(i, 2)
	for len(label) < n {
		label = "0" + label
	}
	return label
}

// WriteAmplitudesCSV exports every basis amplitude of the state, one row
// per index in ascending order, with the header
// index,state,real,imag,phase,prob.
func WriteAmplitudesCSV(w io.Writer, s *State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "state", "real", "imag", "phase", "prob"}); err != nil {
		return err
	}
	for i := uint64(0); i < s.Dim(); i++ {
		amp := s.amps[i]
		row := []string{
			strconv.FormatUint(i, 10),
			BasisLabel(i, s.n),
			strconv.FormatFloat(real(amp), 'g', -1, 64),
			strconv.FormatFloat(imag(amp), 'g', -1, 64),
			strconv.FormatFloat(cmplx.Phase(amp), 'g', -1, 64),
			strconv.FormatFloat(real(amp*cmplx.Conj(amp)), 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

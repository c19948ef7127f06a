package sim

import (
	"fmt"
)

// Condition gates an operation on a prior measurement: the conditioned
// qubit is measured when the operation executes, and the gate applies only
// when the outcome equals Value.
type Condition struct {
	Qubit int
	Value int
}

// Operation is a gate bound to an ordered list of target qubits, with an
// optional classical condition.
type Operation struct {
	Gate   Gate
	Qubits []int
	Cond   *Condition
}

// Circuit is an ordered list of operations over an n-qubit register.
// Operations are validated as they are added; Run interprets them against
// a fresh register each call.
type Circuit struct {
	n       int
	initial uint64
	ops     []Operation
	opts    Options
}

// NewCircuit creates an empty circuit over n qubits starting from the
// given basis state, with default options.
func NewCircuit(n int, initial uint64) (*Circuit, error) {
	return NewCircuitWithOptions(n, initial, DefaultOptions())
}

// NewCircuitWithOptions creates an empty circuit with explicit options.
func NewCircuitWithOptions(n int, initial uint64, opts Options) (*Circuit, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: qubit count %d, need at least 1", ErrInvalidArgument, n)
	}
	if initial >= 1<<n {
		return nil, fmt.Errorf("%w: initial basis state %d outside [0, %d)", ErrInvalidArgument, initial, uint64(1)<<n)
	}
	return &Circuit{n: n, initial: initial, opts: opts.withRand()}, nil
}

// NumQubits returns the register width the circuit runs on.
func (c *Circuit) NumQubits() int { return c.n }

// Initial returns the starting basis state.
func (c *Circuit) Initial() uint64 { return c.initial }

// Ops returns the operations in insertion order. The slice is shared;
// callers must not modify it.
func (c *Circuit) Ops() []Operation { return c.ops }

func (c *Circuit) validateOperation(g Gate, qubits []int, cond *Condition) error {
	opIdx := len(c.ops)
	if len(qubits) != g.Arity() {
		return fmt.Errorf("%w: operation %d: gate %s has arity %d, got %d qubits",
			ErrInvalidArgument, opIdx, g.Name(), g.Arity(), len(qubits))
	}
	seen := 0
	for _, q := range qubits {
		if q < 0 || q >= c.n {
			return fmt.Errorf("%w: operation %d: qubit %d outside [0, %d)", ErrInvalidArgument, opIdx, q, c.n)
		}
		if seen&(1<<q) != 0 {
			return fmt.Errorf("%w: operation %d: duplicate qubit %d", ErrInvalidArgument, opIdx, q)
		}
		seen |= 1 << q
	}
	if cond != nil {
		if cond.Qubit < 0 || cond.Qubit >= c.n {
			return fmt.Errorf("%w: operation %d: condition qubit %d outside [0, %d)", ErrInvalidArgument, opIdx, cond.Qubit, c.n)
		}
		if seen&(1<<cond.Qubit) != 0 {
			return fmt.Errorf("%w: operation %d: condition qubit %d is also a target", ErrInvalidArgument, opIdx, cond.Qubit)
		}
		if cond.Value != 0 && cond.Value != 1 {
			return fmt.Errorf("%w: operation %d: condition value %d, want 0 or 1", ErrInvalidArgument, opIdx, cond.Value)
		}
	}
	return nil
}

// AddGate appends an unconditional operation.
func (c *Circuit) AddGate(g Gate, qubits []int) error {
	if err := c.validateOperation(g, qubits, nil); err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{Gate: g, Qubits: append([]int(nil), qubits...)})
	return nil
}

// AddConditionalGate appends an operation that executes only when measuring
// cond.Qubit yields cond.Value. The measurement itself collapses the state
// whichever way the outcome falls.
func (c *Circuit) AddConditionalGate(g Gate, qubits []int, cond Condition) error {
	if err := c.validateOperation(g, qubits, &cond); err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{Gate: g, Qubits: append([]int(nil), qubits...), Cond: &cond})
	return nil
}

// Run interprets the operations in insertion order against a fresh register
// and returns the final state. With a deterministic random source the run
// is a pure function of (n, initial, ops).
func (c *Circuit) Run() (*State, error) {
	st, err := NewState(c.n, c.initial, c.opts)
	if err != nil {
		return nil, err
	}
	for i, op := range c.ops {
		if op.Cond != nil {
			outcome, err := st.Measure(op.Cond.Qubit)
			if err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
			if c.opts.Debug {
				c.opts.Logger.Debug().Int("op", i).Int("qubit", op.Cond.Qubit).
					Int("outcome", outcome).Msg("condition measured")
			}
			if outcome != op.Cond.Value {
				if c.opts.Debug {
					c.opts.Logger.Debug().Int("op", i).Str("gate", op.Gate.Name()).Msg("branch skipped")
				}
				continue
			}
		}
		if err := st.ApplyGate(op.Gate, op.Qubits); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Gate.Name(), err)
		}
		if c.opts.Debug {
			c.opts.Logger.Debug().Int("op", i).Str("gate", op.Gate.Name()).
				Ints("qubits", op.Qubits).Int("nonzero", st.Len()).Msg("gate applied")
		}
	}
	return st, nil
}

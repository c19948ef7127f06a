package sim

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a circuit run.
type Options struct {
	// NormalizeEachStep restores unit norm after every gate application.
	// Measurement always renormalizes regardless.
	NormalizeEachStep bool

	// Debug enables execution tracing through Logger.
	Debug bool

	// Rand is the random source for measurement outcomes and sampling.
	// A time-seeded source is created when nil.
	Rand *rand.Rand

	// Logger receives execution traces when Debug is set.
	Logger zerolog.Logger
}

// DefaultOptions returns the default configuration: per-step normalization
// on, tracing off.
func DefaultOptions() Options {
	return Options{NormalizeEachStep: true, Logger: zerolog.Nop()}
}

func (o Options) withRand() Options {
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// State is a sparse n-qubit register: a mapping from basis-state index in
// [0, 2^n) to a nonzero complex amplitude. Absent keys are amplitude zero.
// Global qubit q corresponds to bit q of the index.
type State struct {
	n    int
	amps map[uint64]Complex
	opts Options
}

// NewState creates a register of n qubits holding the single basis state
// initial with amplitude 1.
func NewState(n int, initial uint64, opts Options) (*State, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: qubit count %d, need at least 1", ErrInvalidArgument, n)
	}
	if initial >= 1<<n {
		return nil, fmt.Errorf("%w: initial basis state %d outside [0, %d)", ErrOutOfRange, initial, uint64(1)<<n)
	}
	return &State{
		n:    n,
		amps: map[uint64]Complex{initial: 1},
		opts: opts.withRand(),
	}, nil
}

// NumQubits returns the register width.
func (s *State) NumQubits() int { return s.n }

// Dim returns the full basis size 2^n.
func (s *State) Dim() uint64 { return 1 << s.n }

// Len returns the number of nonzero amplitudes currently stored.
func (s *State) Len() int { return len(s.amps) }

// Amplitude returns the amplitude of basis state i, zero when absent.
func (s *State) Amplitude(i uint64) (Complex, error) {
	if i >= 1<<s.n {
		return 0, fmt.Errorf("%w: basis state %d outside [0, %d)", ErrOutOfRange, i, s.Dim())
	}
	return s.amps[i], nil
}

// Each calls fn for every stored nonzero amplitude. Iteration order is
// unspecified.
func (s *State) Each(fn func(i uint64, a Complex)) {
	for i, a := range s.amps {
		fn(i, a)
	}
}

func (s *State) validateTargets(g Gate, qubits []int) error {
	if len(qubits) != g.Arity() {
		return fmt.Errorf("%w: gate %s has arity %d, got %d target qubits", ErrInvalidArgument, g.Name(), g.Arity(), len(qubits))
	}
	seen := 0
	for _, q := range qubits {
		if q < 0 || q >= s.n {
			return fmt.Errorf("%w: target qubit %d outside [0, %d)", ErrInvalidArgument, q, s.n)
		}
		if seen&(1<<q) != 0 {
			return fmt.Errorf("%w: duplicate target qubit %d", ErrInvalidArgument, q)
		}
		seen |= 1 << q
	}
	return nil
}

// ApplyGate transforms the register in place by the gate acting on the
// given qubits. Target qubits[j] carries local bit j of the gate's
// row/column index. Only stored amplitudes are visited; structurally zero
// matrix entries are skipped, so permutation gates stay sparse.
func (s *State) ApplyGate(g Gate, qubits []int) error {
	if err := s.validateTargets(g, qubits); err != nil {
		return err
	}

	size := g.Size()
	next := make(map[uint64]Complex, len(s.amps))
	for idx, amp := range s.amps {
		col := 0
		for j, t := range qubits {
			col |= int(idx>>t&1) << j
		}
		for row := 0; row < size; row++ {
			el := g.matrix[row][col]
			if el == 0 {
				continue
			}
			out := idx
			for j, t := range qubits {
				if row&(1<<j) != 0 {
					out |= 1 << t
				} else {
					out &^= 1 << t
				}
			}
			next[out] += amp * el
		}
	}
	// Colliding keys accumulated above; drop entries that cancelled exactly.
	for idx, a := range next {
		if a == 0 {
			delete(next, idx)
		}
	}
	s.amps = next

	if s.opts.NormalizeEachStep {
		return s.Normalize()
	}
	return nil
}

// Measure performs a projective measurement of the given qubit: draws the
// outcome from the current distribution, deletes every amplitude on the
// other branch, and renormalizes.
func (s *State) Measure(qubit int) (int, error) {
	if qubit < 0 || qubit >= s.n {
		return 0, fmt.Errorf("%w: measured qubit %d outside [0, %d)", ErrInvalidArgument, qubit, s.n)
	}

	bit := uint64(1) << qubit
	p0 := 0.0
	for idx, amp := range s.amps {
		if idx&bit == 0 {
			p0 += real(amp * cmplx.Conj(amp))
		}
	}

	outcome := 1
	if s.opts.Rand.Float64() < p0 {
		outcome = 0
	}

	for idx := range s.amps {
		if int(idx>>qubit&1) != outcome {
			delete(s.amps, idx)
		}
	}
	if err := s.Normalize(); err != nil {
		return 0, fmt.Errorf("measuring qubit %d: %w", qubit, err)
	}
	return outcome, nil
}

// MeasureAll measures qubits 0..n-1 in order, returning the outcomes.
func (s *State) MeasureAll() ([]int, error) {
	outcomes := make([]int, s.n)
	for q := range outcomes {
		out, err := s.Measure(q)
		if err != nil {
			return nil, err
		}
		outcomes[q] = out
	}
	return outcomes, nil
}

// Norm returns sqrt of the summed squared magnitudes.
func (s *State) Norm() float64 {
	sum := 0.0
	for _, amp := range s.amps {
		sum += real(amp * cmplx.Conj(amp))
	}
	return math.Sqrt(sum)
}

// Normalize divides every amplitude by the current norm, restoring a unit
// state after measurement or accumulated rounding drift.
func (s *State) Normalize() error {
	norm := s.Norm()
	if norm == 0 {
		return fmt.Errorf("%w: zero-norm state cannot be normalized", ErrDegenerateState)
	}
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		return fmt.Errorf("%w: state norm is %v", ErrNumericOverflow, norm)
	}
	inv := complex(1/norm, 0)
	for idx, amp := range s.amps {
		s.amps[idx] = amp * inv
	}
	return nil
}

package sim

import "errors"

// Sentinel error kinds. Call sites wrap these with context (operation index,
// qubit) via fmt.Errorf("%w: ..."), so callers match with errors.Is.
var (
	// ErrInvalidArgument reports a malformed gate, operation or circuit:
	// arity mismatch, out-of-range qubit, duplicate targets, bad condition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange reports a basis-state index outside [0, 2^n).
	ErrOutOfRange = errors.New("out of range")

	// ErrDegenerateState reports normalization of a zero-norm state.
	ErrDegenerateState = errors.New("degenerate state")

	// ErrNumericOverflow reports a non-finite amplitude.
	ErrNumericOverflow = errors.New("numeric overflow")
)

package sim

import (
	"math"
	"math/cmplx"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// probTolerance is the drift beyond which a derived probability vector is
// renormalized by its own sum.
const probTolerance = 1e-9

// Probabilities returns the per-basis probability vector |amps[i]|^2 of
// length 2^n. Cumulative rounding drift beyond probTolerance is divided out.
func Probabilities(s *State) []float64 {
	p := make([]float64, s.Dim())
	for idx, amp := range s.amps {
		p[idx] = real(amp * cmplx.Conj(amp))
	}
	sum := floats.Sum(p)
	if sum > 0 && math.Abs(sum-1) > probTolerance {
		floats.Scale(1/sum, p)
	}
	return p
}

// SampleShots simulates shots projective measurements of the full register,
// returning counts per basis index. Draws land in the first cumulative
// bucket exceeding them; rounding overshoot goes to the last index so no
// shot is lost.
func SampleShots(s *State, shots int, rng *rand.Rand) []int {
	p := Probabilities(s)
	cum := make([]float64, len(p))
	floats.CumSum(cum, p)

	counts := make([]int, len(p))
	for range shots {
		u := rng.Float64()
		i := sort.SearchFloat64s(cum, u)
		for i < len(cum) && cum[i] <= u {
			i++
		}
		if i >= len(counts) {
			i = len(counts) - 1
		}
		counts[i]++
	}
	return counts
}

// Bloch holds the reduced single-qubit Bloch parameters of one qubit:
// the Pauli expectations, the radius and the sphere angles.
type Bloch struct {
	EX, EY, EZ float64
	R          float64 // radius, clamped to [0, 1]
	Theta      float64 // polar angle, 0 when R is 0
	Phi        float64 // azimuthal angle, 0 when R is 0
}

// BlochVector derives the Bloch parameters of qubit q from the full state.
// The off-diagonal coherence is doubled: e_x + i e_y =
// 2 * sum over bit_q(i)=0 of conj(a_i) * a_{i xor 2^q}.
func BlochVector(s *State, q int) Bloch {
	bit := uint64(1) << q
	ez := 0.0
	coh := Complex(0)
	for idx, amp := range s.amps {
		if idx&bit == 0 {
			ez += real(amp * cmplx.Conj(amp))
			coh += cmplx.Conj(amp) * s.amps[idx|bit]
		} else {
			ez -= real(amp * cmplx.Conj(amp))
		}
	}
	coh *= 2

	b := Bloch{EX: real(coh), EY: imag(coh), EZ: ez}
	b.R = math.Sqrt(b.EX*b.EX + b.EY*b.EY + b.EZ*b.EZ)
	if b.R > 1 {
		b.R = 1
	}
	if b.R > 0 {
		cos := b.EZ / b.R
		// Clamp against rounding before acos.
		cos = math.Max(-1, math.Min(1, cos))
		b.Theta = math.Acos(cos)
		b.Phi = math.Atan2(b.EY, b.EX)
	}
	return b
}

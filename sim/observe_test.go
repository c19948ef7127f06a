package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bellState(t *testing.T) *State {
	t.Helper()
	c := newTestCircuit(t, 2, 0, 1)
	addGate(t, c, Hadamard(), 0)
	addGate(t, c, CNOT(), 0, 1)
	return runCircuit(t, c)
}

func TestProbabilitiesBell(t *testing.T) {
	p := Probabilities(bellState(t))
	require.Len(t, p, 4)
	assert.InDelta(t, 0.5, p[0], 1e-10)
	assert.InDelta(t, 0.0, p[1], 1e-10)
	assert.InDelta(t, 0.0, p[2], 1e-10)
	assert.InDelta(t, 0.5, p[3], 1e-10)
	assert.InDelta(t, 1.0, p[0]+p[1]+p[2]+p[3], 1e-10)
}

func TestSampleShotsConservesShots(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	st := bellState(t)

	const shots = 5000
	counts := SampleShots(st, shots, rng)
	require.Len(t, counts, 4)

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, shots, total, "every shot lands in some bucket")
	assert.Zero(t, counts[1])
	assert.Zero(t, counts[2])
	assert.InDelta(t, shots/2, counts[0], shots/10)
	assert.InDelta(t, shots/2, counts[3], shots/10)
}

func TestSampleShotsPureState(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	c := newTestCircuit(t, 2, 3, 1)
	st := runCircuit(t, c)

	counts := SampleShots(st, 100, rng)
	assert.Equal(t, []int{0, 0, 0, 100}, counts)
}

func TestBlochBasisStates(t *testing.T) {
	c := newTestCircuit(t, 1, 0, 1)
	st := runCircuit(t, c)
	b := BlochVector(st, 0)
	assert.InDelta(t, 1.0, b.EZ, 1e-10)
	assert.InDelta(t, 1.0, b.R, 1e-10)
	assert.InDelta(t, 0.0, b.Theta, 1e-10)

	c2 := newTestCircuit(t, 1, 1, 1)
	st2 := runCircuit(t, c2)
	b2 := BlochVector(st2, 0)
	assert.InDelta(t, -1.0, b2.EZ, 1e-10)
	assert.InDelta(t, math.Pi, b2.Theta, 1e-10)
}

func TestBlochPlusState(t *testing.T) {
	c := newTestCircuit(t, 1, 0, 1)
	addGate(t, c, Hadamard(), 0)
	b := BlochVector(runCircuit(t, c), 0)

	// The doubled coherence term puts |+> on the sphere surface at +X.
	assert.InDelta(t, 1.0, b.EX, 1e-10)
	assert.InDelta(t, 0.0, b.EY, 1e-10)
	assert.InDelta(t, 0.0, b.EZ, 1e-10)
	assert.InDelta(t, 1.0, b.R, 1e-10)
	assert.InDelta(t, math.Pi/2, b.Theta, 1e-10)
	assert.InDelta(t, 0.0, b.Phi, 1e-10)
}

func TestBlochEntangledQubitIsCentered(t *testing.T) {
	st := bellState(t)
	for q := 0; q < 2; q++ {
		b := BlochVector(st, q)
		assert.InDelta(t, 0.0, b.R, 1e-10, "qubit %d of a Bell pair is maximally mixed", q)
		assert.Zero(t, b.Theta)
		assert.Zero(t, b.Phi)
	}
}

func TestBlochRanges(t *testing.T) {
	angles := []float64{0.1, 0.9, 1.7, 2.8, -1.2}
	for _, theta := range angles {
		c := newTestCircuit(t, 2, 0, 1)
		addGate(t, c, RY(theta), 0)
		addGate(t, c, RZ(0.7), 0)
		addGate(t, c, Hadamard(), 1)
		st := runCircuit(t, c)
		for q := 0; q < 2; q++ {
			b := BlochVector(st, q)
			assert.LessOrEqual(t, b.R, 1.0)
			assert.GreaterOrEqual(t, b.Theta, 0.0)
			assert.LessOrEqual(t, b.Theta, math.Pi)
			assert.Greater(t, b.Phi, -math.Pi-1e-12)
			assert.LessOrEqual(t, b.Phi, math.Pi)
		}
	}
}

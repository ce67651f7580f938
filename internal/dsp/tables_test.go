package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMIDIToFrequency(t *testing.T) {
	tests := []struct {
		note float32
		want float64
	}{
		{69, 440},
		{57, 220},
		{81, 880},
		{60, 261.6255653},
		{0, 8.1757989},
		{127, 12543.8539514},
	}
	for _, tt := range tests {
		got := float64(MIDIToFrequency(tt.note))
		assert.InDelta(t, tt.want, got, tt.want*1e-4, "note %f", tt.note)
	}
}

func TestMIDIToFrequencyFractional(t *testing.T) {
	// A fractional note lands between the neighbors.
	lo := MIDIToFrequency(69)
	hi := MIDIToFrequency(70)
	mid := MIDIToFrequency(69.5)
	assert.Greater(t, mid, lo)
	assert.Less(t, mid, hi)
}

func TestMIDIToFrequencyClamps(t *testing.T) {
	assert.Equal(t, MIDIToFrequency(0), MIDIToFrequency(-10))
	assert.Equal(t, MIDIToFrequency(127), MIDIToFrequency(140))
}

func TestSemitonesToRatio(t *testing.T) {
	assert.InDelta(t, 1, float64(SemitonesToRatio(0)), 1e-4)
	assert.InDelta(t, 2, float64(SemitonesToRatio(12)), 1e-3)
	assert.InDelta(t, 0.5, float64(SemitonesToRatio(-12)), 1e-3)
	assert.InDelta(t, math.Pow(2, 7.0/12.0), float64(SemitonesToRatio(7)), 1e-3)
}

func TestTanPiMatchesTangent(t *testing.T) {
	// Table resolution is 1/256; interpolation error grows with the
	// curvature near 0.49 but stays small over the usable range.
	for f := 0.0; f <= 0.45; f += 0.001 {
		want := math.Tan(math.Pi * f)
		got := float64(TanPi(float32(f)))
		tol := math.Max(want*0.01, 1e-3)
		assert.InDelta(t, want, got, tol, "TanPi(%f)", f)
	}
}

func TestTanPiClamps(t *testing.T) {
	assert.Equal(t, TanPi(0.49), TanPi(0.6))
	assert.Equal(t, float32(0), TanPi(-0.1))
}

func TestStiffnessCurve(t *testing.T) {
	// Negative at low geometry, positive at high, monotonic overall.
	assert.Negative(t, Stiffness(0))
	assert.Positive(t, Stiffness(1))
	assert.InDelta(t, 0, float64(Stiffness(0.5)), 0.05)

	prev := Stiffness(0)
	for g := float32(0.02); g <= 1; g += 0.02 {
		cur := Stiffness(g)
		assert.GreaterOrEqual(t, cur, prev, "Stiffness not monotonic at %f", g)
		prev = cur
	}
}

func TestQFromDampingCurve(t *testing.T) {
	// Four decades, monotonically decreasing: low damping rings long.
	assert.InDelta(t, 5000, float64(QFromDamping(0)), 1)
	assert.InDelta(t, 0.5, float64(QFromDamping(1)), 0.01)

	prev := QFromDamping(0)
	for d := float32(0.02); d <= 1; d += 0.02 {
		cur := QFromDamping(d)
		assert.LessOrEqual(t, cur, prev, "QFromDamping not monotonic at %f", d)
		prev = cur
	}
}

func TestVelocityGain(t *testing.T) {
	assert.Equal(t, float32(0), VelocityGain(0))
	assert.InDelta(t, 1, float64(VelocityGain(127)), 1e-3)

	prev := VelocityGain(0)
	for v := 1; v <= 127; v++ {
		cur := VelocityGain(v)
		assert.GreaterOrEqual(t, cur, prev, "VelocityGain not monotonic at %d", v)
		prev = cur
	}
}

func TestVelocityAccent(t *testing.T) {
	assert.InDelta(t, 0.5, float64(VelocityAccent(0)), 1e-3)
	assert.InDelta(t, 1.5, float64(VelocityAccent(127)), 1e-2)
	// Out-of-range velocities clamp instead of indexing out of bounds.
	assert.Equal(t, VelocityAccent(127), VelocityAccent(200))
	assert.Equal(t, VelocityAccent(0), VelocityAccent(-5))
}

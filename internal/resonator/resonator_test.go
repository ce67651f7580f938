package resonator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-modal-synth/internal/dsp"
	"github.com/tphakala/go-modal-synth/internal/simdops"
	"github.com/tphakala/go-modal-synth/internal/testutil"
)

// renderImpulse drives the resonator with a single impulse and returns
// the center channel.
func renderImpulse(r *Resonator, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		exc := float32(0)
		if i == 0 {
			exc = 1
		}
		out[i], _ = r.Process(exc, 0)
	}
	return out
}

func TestOutputStaysFiniteUnderNoise(t *testing.T) {
	r := New(MaxModes, nil)
	r.SetFrequency(220)
	r.SetDamping(0.1)
	r.SetGeometry(0.8)
	r.SetBrightness(1)

	noise := dsp.NewNoise()
	center := make([]float32, 96000)
	side := make([]float32, 96000)
	for i := range center {
		center[i], side[i] = r.Process(noise.Next()*10, 0.5)
	}
	testutil.AssertNoNaNOrInf(t, center)
	testutil.AssertNoNaNOrInf(t, side)
	// The output soft limiter bounds both channels to +/-2.
	testutil.AssertAllInRange(t, center, -2, 2)
	testutil.AssertAllInRange(t, side, -2, 2)
}

func TestResonatorFiniteUnderNaNInfInjection(t *testing.T) {
	cases := []struct {
		name string
		ops  *simdops.Ops
	}{
		{"scalar", nil},
		{"vector", simdops.Vector()},
	}
	nan := float32(math.NaN())
	posInf := float32(math.Inf(1))
	negInf := float32(math.Inf(-1))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(MaxModes, tc.ops)
			r.SetFrequency(220)
			r.SetDamping(0.2)

			noise := dsp.NewNoise()
			center := make([]float32, 9600)
			side := make([]float32, 9600)
			for i := range center {
				exc := noise.Next()
				switch i % 7 {
				case 2:
					exc = nan
				case 4:
					exc = posInf
				case 6:
					exc = negInf
				}
				center[i], side[i] = r.Process(exc, 0.3)
			}
			testutil.AssertNoNaNOrInf(t, center)
			testutil.AssertNoNaNOrInf(t, side)
			testutil.AssertAllInRange(t, center, -2, 2)
			testutil.AssertAllInRange(t, side, -2, 2)
		})
	}
}

func TestConvergesToSilence(t *testing.T) {
	r := New(MaxModes, nil)
	r.SetFrequency(440)
	r.SetDamping(0.8)

	out := renderImpulse(r, 2*48000)
	testutil.AssertSilent(t, out[48000:], 0.01)
}

func TestHigherDampingDecaysFaster(t *testing.T) {
	tail := func(damping float32) float64 {
		r := New(MaxModes, nil)
		r.SetFrequency(440)
		r.SetDamping(damping)
		out := renderImpulse(r, 48000)
		return testutil.RMS(out[24000:])
	}
	low := tail(0.1)
	high := tail(0.8)
	assert.Greater(t, low, high*2,
		"damping 0.1 tail %e should outlast damping 0.8 tail %e", low, high)
}

func TestDecayIsMonotonic(t *testing.T) {
	r := New(MaxModes, nil)
	r.SetFrequency(440)
	r.SetDamping(0.5)
	out := renderImpulse(r, 48000)
	// Windowed RMS over the unexcited tail must not grow. The small
	// rise tolerance absorbs beating between detuned partials.
	testutil.AssertMonotonicDecay(t, out[1000:], 2400, 0.1)
}

func TestSchedulerMatchesForcedUpdate(t *testing.T) {
	// After a parameter change, coefficients from the staggered
	// scheduler must match an immediate full update: the dirty flag
	// forces a synchronous pass on the next Process call.
	configure := func(r *Resonator) {
		r.SetFrequency(330)
		r.SetGeometry(0.6)
		r.SetBrightness(0.7)
		r.SetDamping(0.25)
	}

	forced := New(MaxModes, nil)
	configure(forced)
	forced.ForceUpdate()

	scheduled := New(MaxModes, nil)
	configure(scheduled)
	scheduled.Process(0, 0)

	require.Equal(t, forced.ActiveModes(), scheduled.ActiveModes())
	for i := 0; i < forced.ActiveModes(); i++ {
		assert.InDelta(t, float64(forced.coefA1[i]), float64(scheduled.coefA1[i]),
			testutil.CoefficientDelta, "a1 mode %d", i)
		assert.InDelta(t, float64(forced.coefA2[i]), float64(scheduled.coefA2[i]),
			testutil.CoefficientDelta, "a2 mode %d", i)
		assert.InDelta(t, float64(forced.coefA3[i]), float64(scheduled.coefA3[i]),
			testutil.CoefficientDelta, "a3 mode %d", i)
	}
}

func TestBatchPathMatchesScalar(t *testing.T) {
	scalar := New(MaxModes, nil)
	batch := New(MaxModes, simdops.Scalar())

	for _, r := range []*Resonator{scalar, batch} {
		r.SetFrequency(220)
		r.SetDamping(0.3)
		r.SetGeometry(0.4)
	}

	noise := dsp.NewNoise()
	for i := 0; i < 9600; i++ {
		exc := noise.Next()
		c1, s1 := scalar.Process(exc, 0)
		c2, s2 := batch.Process(exc, 0)
		assert.InDelta(t, float64(c1), float64(c2), testutil.DefaultTolerance,
			"center diverged at sample %d", i)
		assert.InDelta(t, float64(s1), float64(s2), testutil.DefaultTolerance,
			"side diverged at sample %d", i)
	}
}

func TestVectorBatchPathStaysFinite(t *testing.T) {
	r := New(MaxModes, simdops.Vector())
	r.SetFrequency(220)
	r.SetDamping(0.3)

	noise := dsp.NewNoise()
	out := make([]float32, 48000)
	for i := range out {
		out[i], _ = r.Process(noise.Next(), 0.4)
	}
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, out, -2, 2)
}

func TestHighFundamentalPrunesModes(t *testing.T) {
	r := New(MaxModes, nil)
	r.SetFrequency(55)
	r.ForceUpdate()
	lowCount := r.ActiveModes()

	r.SetFrequency(7000)
	r.ForceUpdate()
	highCount := r.ActiveModes()

	assert.Greater(t, lowCount, highCount,
		"fewer partials fit below Nyquist at a high fundamental")
	assert.GreaterOrEqual(t, highCount, 1)
}

func TestBowingSustains(t *testing.T) {
	render := func(bow float32) []float32 {
		r := New(MaxModes, nil)
		r.SetFrequency(220)
		r.SetDamping(0.4)
		noise := dsp.NewNoise()
		out := make([]float32, 48000)
		for i := range out {
			exc := float32(0)
			if i < 100 {
				exc = noise.Next() * 0.5
			}
			out[i], _ = r.Process(exc, bow)
		}
		return out
	}

	unbowed := render(0)
	bowed := render(0.8)
	testutil.AssertNoNaNOrInf(t, bowed)
	assert.Greater(t, testutil.RMS(bowed[24000:]), testutil.RMS(unbowed[24000:]),
		"bowing should sustain energy after the excitation stops")
}

func TestPositionSmoothingAvoidsJumps(t *testing.T) {
	r := New(MaxModes, nil)
	r.SetFrequency(220)
	r.SetDamping(0.2)

	// Ring the resonator, then slam the position control.
	for i := 0; i < 4800; i++ {
		exc := float32(0)
		if i == 0 {
			exc = 1
		}
		r.Process(exc, 0)
	}
	r.SetPosition(0.95)

	prev, _ := r.Process(0, 0)
	for i := 0; i < 2400; i++ {
		cur, _ := r.Process(0, 0)
		assert.Less(t, dsp.Abs(cur-prev), float32(0.5),
			"position jump caused a discontinuity at sample %d", i)
		prev = cur
	}
}

func TestModeCountClamped(t *testing.T) {
	assert.Equal(t, MinModes, New(1, nil).numModes)
	assert.Equal(t, MaxModes, New(100, nil).numModes)
	assert.Equal(t, 16, New(16, nil).numModes)
}

func TestResetClearsRinging(t *testing.T) {
	r := New(MaxModes, nil)
	r.SetFrequency(220)
	r.SetDamping(0.1)
	renderImpulse(r, 4800)

	r.Reset()
	out := make([]float32, 4800)
	for i := range out {
		out[i], _ = r.Process(0, 0)
	}
	testutil.AssertSilent(t, out, 1e-6)
}

func BenchmarkResonatorScalar(b *testing.B) {
	r := New(MaxModes, nil)
	r.SetFrequency(220)
	noise := dsp.NewNoise()
	b.ResetTimer()
	for b.Loop() {
		r.Process(noise.Next(), 0)
	}
}

func BenchmarkResonatorBatch(b *testing.B) {
	r := New(MaxModes, simdops.Vector())
	r.SetFrequency(220)
	noise := dsp.NewNoise()
	b.ResetTimer()
	for b.Loop() {
		r.Process(noise.Next(), 0)
	}
}

func BenchmarkResonatorBowed(b *testing.B) {
	r := New(MaxModes, nil)
	r.SetFrequency(220)
	noise := dsp.NewNoise()
	b.ResetTimer()
	for b.Loop() {
		r.Process(noise.Next(), 0.7)
	}
}

package resonator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-modal-synth/internal/dsp"
	"github.com/tphakala/go-modal-synth/internal/testutil"
)

// pluck excites a string with a short noise burst and returns n samples.
func pluck(process func(float32) float32, n int) []float32 {
	noise := dsp.NewNoise()
	out := make([]float32, n)
	for i := range out {
		exc := float32(0)
		if i < 20 {
			exc = noise.Next() * 0.5
		}
		out[i] = process(exc)
	}
	return out
}

func TestStringPitch(t *testing.T) {
	s := NewString()
	s.SetFrequency(220)
	s.SetBrightness(0.9)
	s.SetDamping(0.05)

	out := pluck(s.Process, 16384)
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertDominantFrequency(t, out, dsp.SampleRate, 220, 0.03)

	// Period between zero crossings: 48000/220 = 218.18 samples. The
	// loop filter's phase delay adds well under a sample at this
	// brightness, so the average period must land within one sample.
	period := testutil.AveragePeriod(out, 2000)
	assert.InDelta(t, 218.18, period, 1, "string period off pitch")
}

func TestStringPitchTracksFrequency(t *testing.T) {
	for _, freq := range []float32{110, 440, 880} {
		s := NewString()
		s.SetFrequency(freq)
		s.SetBrightness(0.9)
		s.SetDamping(0.05)

		out := pluck(s.Process, 16384)
		testutil.AssertDominantFrequency(t, out, dsp.SampleRate, float64(freq), 0.03)
	}
}

func TestStringHigherDampingDecaysFaster(t *testing.T) {
	tail := func(damping float32) float64 {
		s := NewString()
		s.SetFrequency(220)
		s.SetDamping(damping)
		out := pluck(s.Process, 48000)
		return testutil.RMS(out[24000:])
	}
	assert.Greater(t, tail(0.05), tail(0.9)*2,
		"lightly damped string should ring longer")
}

func TestStringDispersionStaysStable(t *testing.T) {
	s := NewString()
	s.SetFrequency(110)
	s.SetDamping(0.1)
	s.SetDispersion(1)

	out := pluck(s.Process, 96000)
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, out, -10, 10)
	// Still decays with the cascade in the loop.
	assert.Greater(t, testutil.RMS(out[:4800]), testutil.RMS(out[91200:]))
}

func TestStringClampsFrequency(t *testing.T) {
	s := NewString()
	s.SetFrequency(1)
	assert.Equal(t, float32(20), s.freq)
	s.SetFrequency(100000)
	assert.Equal(t, float32(4000), s.freq)
}

func TestStringRecoversFromNaNExcitation(t *testing.T) {
	s := NewString()
	s.SetFrequency(220)
	s.Process(float32(math.NaN()))
	out := pluck(s.Process, 4800)
	testutil.AssertNoNaNOrInf(t, out)
}

func TestMultiStringUnisonAtZeroDetune(t *testing.T) {
	m := NewMultiString()
	m.SetFrequency(220)
	m.SetDetuneAmount(0)
	m.SetDamping(0.05)
	m.SetBrightness(0.9)

	out := pluck(m.Process, 16384)
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertDominantFrequency(t, out, dsp.SampleRate, 220, 0.03)
}

func TestMultiStringDetuneBeats(t *testing.T) {
	render := func(detune float32) []float32 {
		m := NewMultiString()
		m.SetFrequency(220)
		m.SetDetuneAmount(detune)
		m.SetDamping(0.02)
		m.SetBrightness(0.9)
		return pluck(m.Process, 96000)
	}

	// With detuning the envelope of the tail fluctuates as the strings
	// drift in and out of phase; in unison it decays smoothly. Compare
	// the spread of windowed RMS values over the tail.
	spread := func(out []float32) float64 {
		var minW, maxW float64
		for i := 48000; i+4800 <= len(out); i += 4800 {
			w := testutil.RMS(out[i : i+4800])
			if minW == 0 || w < minW {
				minW = w
			}
			if w > maxW {
				maxW = w
			}
		}
		if minW == 0 {
			return 0
		}
		return maxW / minW
	}

	unison := render(0)
	detuned := render(1)
	testutil.AssertNoNaNOrInf(t, detuned)
	assert.Greater(t, spread(detuned), spread(unison),
		"detuned strings should beat against each other")
}

func TestMultiStringOutputBounded(t *testing.T) {
	m := NewMultiString()
	m.SetFrequency(110)
	m.SetDamping(0.1)
	m.SetDispersion(0.5)

	noise := dsp.NewNoise()
	out := make([]float32, 48000)
	for i := range out {
		out[i] = m.Process(noise.Next())
	}
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, out, -20, 20)
}

func BenchmarkStringProcess(b *testing.B) {
	s := NewString()
	s.SetFrequency(220)
	noise := dsp.NewNoise()
	b.ResetTimer()
	for b.Loop() {
		s.Process(noise.Next())
	}
}

func BenchmarkMultiStringProcess(b *testing.B) {
	m := NewMultiString()
	m.SetFrequency(220)
	noise := dsp.NewNoise()
	b.ResetTimer()
	for b.Loop() {
		m.Process(noise.Next())
	}
}

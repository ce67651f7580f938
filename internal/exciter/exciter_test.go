package exciter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-modal-synth/internal/testutil"
)

func render(e *Exciter, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = e.Process()
	}
	return out
}

func TestSilentWhenAllLevelsZero(t *testing.T) {
	e := New(nil)
	e.SetBow(0)
	e.SetBlow(0)
	e.SetStrike(0)
	out := render(e, 4800)
	testutil.AssertSilent(t, out, 1e-6)
}

func TestBowProducesSustainedNoise(t *testing.T) {
	e := New(nil)
	e.SetStrike(0)
	e.SetBow(0.8)
	e.SetBowTimbre(0.5)
	out := render(e, 9600)
	testutil.AssertNoNaNOrInf(t, out)
	assert.Greater(t, testutil.RMS(out[4800:]), 1e-4,
		"bow source should sustain without a trigger")
}

func TestBlowProducesTubeOutput(t *testing.T) {
	e := New(nil)
	e.SetStrike(0)
	e.SetBlow(0.8)
	e.SetBlowTimbre(0.5)
	e.SetBlowFrequency(440)
	e.Trigger()
	out := render(e, 48000)
	testutil.AssertNoNaNOrInf(t, out)
	assert.Greater(t, testutil.RMS(out[24000:]), 1e-5,
		"blow source should sustain while the level is held")
}

func TestStrikeModesProduceOutputAfterTrigger(t *testing.T) {
	modes := []struct {
		name string
		mode StrikeMode
	}{
		{"sample", StrikeModeSample},
		{"granular", StrikeModeGranular},
		{"noise", StrikeModeNoise},
		{"plectrum", StrikeModePlectrum},
		{"particles", StrikeModeParticles},
	}
	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil)
			e.SetStrike(0.9)
			e.SetStrikeMode(tt.mode)
			e.SetStrikeTimbre(0.6)
			e.Trigger()
			out := render(e, 48000)
			testutil.AssertNoNaNOrInf(t, out)
			assert.Greater(t, testutil.PeakAbs(out), float32(1e-4),
				"strike mode %s should produce output", tt.name)
		})
	}
}

func TestStrikeNoiseDecays(t *testing.T) {
	e := New(nil)
	e.SetStrike(0.9)
	e.SetStrikeMode(StrikeModeNoise)
	e.Trigger()
	out := render(e, 48000)

	early := testutil.RMS(out[:4800])
	late := testutil.RMS(out[43200:])
	assert.Greater(t, early, late*10,
		"noise burst should decay: early RMS %e, late RMS %e", early, late)
}

func TestSampleOneShotEnds(t *testing.T) {
	e := New(nil)
	e.SetStrike(0.9)
	e.SetStrikeMode(StrikeModeSample)
	e.Trigger()
	// Longest built-in sample is 3600 frames plus the noise tail.
	render(e, 48000)
	tail := render(e, 4800)
	testutil.AssertSilent(t, tail, 1e-3)
}

func TestPlectrumReleaseImpulse(t *testing.T) {
	e := New(nil)
	e.SetStrike(0.8)
	e.SetStrikeMode(StrikeModePlectrum)
	e.SetStrikeTimbre(0.5)
	e.Trigger()

	out := render(e, 8000)
	// Initial pluck impulse is negative.
	assert.Negative(t, out[0], "pluck impulse should be negative")

	// A single positive release impulse follows after the delay.
	positives := 0
	for _, v := range out[1:] {
		if v > 0.1 {
			positives++
		}
	}
	assert.Equal(t, 1, positives, "exactly one release impulse expected")
}

func TestGranularIsContinuous(t *testing.T) {
	e := New(nil)
	e.SetStrike(0.8)
	e.SetStrikeMode(StrikeModeGranular)
	e.SetGranularDensity(0.5)
	e.SetGranularPosition(0.3)
	e.Trigger()
	out := render(e, 96000)
	testutil.AssertNoNaNOrInf(t, out)
	assert.Greater(t, testutil.RMS(out[48000:]), 1e-5,
		"granular texture should not die out")
}

func TestTriggerRestartsStrikeTransient(t *testing.T) {
	e := New(nil)
	e.SetStrike(0.9)
	e.SetStrikeMode(StrikeModeNoise)
	e.Trigger()
	render(e, 48000) // let the burst die

	e.Trigger()
	out := render(e, 2400)
	assert.Greater(t, testutil.PeakAbs(out), float32(1e-3),
		"retrigger should restart the noise burst")
}

func TestSetStrikeSampleSelectsVariants(t *testing.T) {
	e := New(nil)
	for idx := 0; idx < 12; idx++ {
		e.SetStrikeSample(idx)
		e.Trigger()
		out := render(e, 2400)
		testutil.AssertNoNaNOrInf(t, out)
	}
	// Out-of-range indices clamp.
	e.SetStrikeSample(-1)
	e.SetStrikeSample(99)
}

func TestBowStrengthTracksLevel(t *testing.T) {
	e := New(nil)
	e.SetBow(0.7)
	assert.InDelta(t, 0.7, float64(e.BowStrength()), 1e-6)
	e.SetBow(2) // clamped
	assert.InDelta(t, 1, float64(e.BowStrength()), 1e-6)
}

func TestDefaultBankLayout(t *testing.T) {
	bank := DefaultBank()
	require.Equal(t, 6, bank.NumSamples())
	for i := 0; i < bank.NumSamples(); i++ {
		data := bank.At(i)
		assert.NotEmpty(t, data, "sample %d", i)
	}
	// Out-of-range ids fall back to sample 0.
	assert.Equal(t, len(bank.At(0)), len(bank.At(-1)))
	assert.Equal(t, len(bank.At(0)), len(bank.At(99)))
}

func TestTubeStaysFinite(t *testing.T) {
	tube := NewTube()
	tube.Init()
	var out []float32
	for i := 0; i < 48000; i++ {
		v := tube.Process(0.5, 110, 0.9, 0.5, 0.9)
		out = append(out, v)
	}
	testutil.AssertNoNaNOrInf(t, out)
	testutil.AssertAllInRange(t, out, -5, 5)
}

package exciter

import "github.com/tphakala/go-modal-synth/internal/dsp"

// SampleBank is the read-only PCM ROM interface consumed by the sample
// and granular strike modes. Samples are 16-bit signed PCM; the engine
// normalizes them by 1/32768 on playback. Implementations must return
// the same slice for the same id for the lifetime of the voice: the
// render path indexes it every sample and never copies.
type SampleBank interface {
	// NumSamples returns the number of addressable samples.
	NumSamples() int
	// At returns the PCM data for the given id. Ids outside
	// [0, NumSamples) return sample 0.
	At(id int) []int16
}

// Built-in bank layout. Six strike timbres, mirroring the mallet,
// plectrum, stick and bow-attack impulses of the original ROM.
const (
	SampleMalletSoft = iota
	SampleMalletMedium
	SampleMalletHard
	SamplePlectrum
	SampleStick
	SampleBowAttack
	numBuiltinSamples
)

// builtinBank holds procedurally generated strike impulses: enveloped,
// filtered noise bursts with per-timbre brightness and length. They are
// rendered once at package init from a fixed seed, so output is
// deterministic across runs without shipping PCM assets.
type builtinBank struct {
	data [numBuiltinSamples][]int16
}

// DefaultBank returns the built-in strike sample bank.
func DefaultBank() SampleBank { return &defaultBank }

var defaultBank builtinBank

func (b *builtinBank) NumSamples() int { return numBuiltinSamples }

func (b *builtinBank) At(id int) []int16 {
	if id < 0 || id >= numBuiltinSamples {
		id = 0
	}
	return b.data[id]
}

func init() {
	specs := [numBuiltinSamples]struct {
		length   int     // samples
		cutoff   float32 // lowpass Hz
		decay    float32 // per-sample amplitude decay
		ring     float32 // resonance of the shaping filter
		strikeDC float32 // initial unipolar push, gives the thump
	}{
		{2400, 900, 0.9975, 1.5, 0.6},   // soft mallet
		{1920, 2200, 0.9965, 2.0, 0.5},  // medium mallet
		{1440, 5200, 0.9950, 2.5, 0.4},  // hard mallet
		{960, 7800, 0.9930, 3.0, -0.5},  // plectrum snap
		{720, 9500, 0.9915, 1.0, 0.3},   // stick
		{3600, 1600, 0.9985, 4.0, 0.15}, // bow attack scrape
	}

	noise := dsp.NewNoise()
	noise.Seed(0x1d872b41)
	for i, spec := range specs {
		buf := make([]int16, spec.length)
		filter := dsp.NewSVF()
		filter.SetFrequency(spec.cutoff)
		filter.SetResonance(spec.ring)
		amp := float32(1)
		for j := range buf {
			x := noise.Next()
			if j == 0 {
				x += spec.strikeDC * 2
			}
			y := filter.ProcessLowPass(x) * amp
			amp *= spec.decay
			buf[j] = int16(dsp.Clamp(y, -0.999, 0.999) * 32767)
		}
		defaultBank.data[i] = buf
	}
}

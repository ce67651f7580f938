// Package resonator implements the resonating bodies of the engine:
// the modal filter bank with its bowed banded waveguides, and the
// Karplus-Strong string models. All types process one sample per call
// on the render thread and allocate only at construction.
package resonator

import (
	"github.com/tphakala/go-modal-synth/internal/dsp"
	"github.com/tphakala/go-modal-synth/internal/simdops"
)

// Mode count limits. The effective count shrinks automatically for high
// fundamentals as partials cross Nyquist.
const (
	MinModes = 4
	MaxModes = 32
)

// Resonator is a bank of up to MaxModes bandpass modes fed by a common
// excitation signal, plus up to eight banded waveguides engaged while
// bowing. Mode frequencies follow an inharmonic partial series derived
// from the geometry control; per-mode amplitude weights come from two
// walking cosine oscillators, one tracking the excitation position for
// the center channel and one LFO-modulated for the side channel.
//
// Coefficient state is kept in structure-of-arrays form so the batch
// path can sweep four modes at a time.
type Resonator struct {
	ops      *simdops.Ops // nil selects the plain per-mode loop
	numModes int

	bowed [maxBowedModes]BowedMode

	// Per-mode coefficients and filter state, SoA layout.
	coefG  [MaxModes]float32
	coefR  [MaxModes]float32
	coefA1 [MaxModes]float32
	coefA2 [MaxModes]float32
	coefA3 [MaxModes]float32
	state1 [MaxModes]float32
	state2 [MaxModes]float32

	frequency  float32 // normalized, cycles per sample
	geometry   float32
	brightness float32
	damping    float32
	position   float32
	space      float32

	previousPosition    float32
	modulationFrequency float32 // normalized
	modulationOffset    float32
	lfoPhase            float32

	bowSignal    float32
	clockDivider uint32

	paramsDirty bool
	activeModes int

	amplitudes    dsp.CosineOscillator
	auxAmplitudes dsp.CosineOscillator

	// Scratch buffers for the batch path.
	batchV1  [4]float32
	batchAmp [4]float32
	batchAux [4]float32
}

// New returns a resonator with numModes partials, clamped to
// [MinModes, MaxModes]. A non-nil ops selects the four-wide batch
// processing path with the given kernels; nil selects the plain
// per-mode loop.
func New(numModes int, ops *simdops.Ops) *Resonator {
	if numModes < MinModes {
		numModes = MinModes
	}
	if numModes > MaxModes {
		numModes = MaxModes
	}

	r := &Resonator{
		ops:                 ops,
		numModes:            numModes,
		frequency:           220.0 / dsp.SampleRate,
		geometry:            0.25,
		brightness:          0.5,
		damping:             0.3,
		position:            0.5,
		previousPosition:    0.5,
		space:               0.5,
		modulationFrequency: 0.5 / dsp.SampleRate,
		modulationOffset:    0.25,
		paramsDirty:         true,
	}
	for i := 0; i < MaxModes; i++ {
		r.coefG[i] = 0.1
		r.coefR[i] = 0.01
		r.coefA1[i] = 0.5
		r.coefA2[i] = 0.05
		r.coefA3[i] = 0.005
	}
	for i := range r.bowed {
		r.bowed[i] = NewBowedMode()
	}
	r.computeFilters()
	return r
}

// SetFrequency sets the fundamental in Hz, clamped to [20, 8000].
func (r *Resonator) SetFrequency(freq float32) {
	f := dsp.Clamp(freq, 20, 8000) / dsp.SampleRate
	if f != r.frequency {
		r.frequency = f
		r.paramsDirty = true
	}
}

// SetGeometry sets the structure control, 0-1. Low values converge the
// partials (plates, membranes), high values stretch them (bars, bells).
func (r *Resonator) SetGeometry(geometry float32) {
	g := dsp.Clamp(geometry, 0, 1)
	if g != r.geometry {
		r.geometry = g
		r.paramsDirty = true
	}
}

// SetBrightness sets the high-partial content, 0-1.
func (r *Resonator) SetBrightness(brightness float32) {
	b := dsp.Clamp(brightness, 0, 1)
	if b != r.brightness {
		r.brightness = b
		r.paramsDirty = true
	}
}

// SetDamping sets the decay control, 0-1. Low damping means high Q and
// long ring.
func (r *Resonator) SetDamping(damping float32) {
	d := dsp.Clamp(damping, 0, 1)
	if d != r.damping {
		r.damping = d
		r.paramsDirty = true
	}
}

// SetPosition sets the excitation/pickup position, 0-1. Changes are
// smoothed per sample inside Process, so this is safe to sweep.
func (r *Resonator) SetPosition(position float32) {
	r.position = dsp.Clamp(position, 0, 1)
}

// SetSpace sets the stereo spread, 0-1.
func (r *Resonator) SetSpace(space float32) {
	r.space = dsp.Clamp(space, 0, 1)
}

// SetModulationFrequency sets the side-channel LFO rate in Hz,
// clamped to [0.1, 10].
func (r *Resonator) SetModulationFrequency(freq float32) {
	r.modulationFrequency = dsp.Clamp(freq, 0.1, 10) / dsp.SampleRate
}

// SetModulationOffset sets the side-channel position offset, 0-1.
func (r *Resonator) SetModulationOffset(offset float32) {
	r.modulationOffset = dsp.Clamp(offset, 0, 1)
}

// ForceUpdate recomputes every mode's coefficients immediately instead
// of waiting for the staggered scheduler to reach them.
func (r *Resonator) ForceUpdate() {
	r.clockDivider = 0
	r.paramsDirty = true
	r.computeFilters()
}

// ActiveModes returns the number of modes below Nyquist after the last
// coefficient update.
func (r *Resonator) ActiveModes() int { return r.activeModes }

// Process advances the resonator one sample.
//
// excitation drives all modes; bowStrength above 0.001 engages the
// banded waveguides with that bow pressure. Returns the center and
// side channel outputs, soft-limited to +/-2.
func (r *Resonator) Process(excitation, bowStrength float32) (center, side float32) {
	numModes := r.computeFilters()
	numBowed := numModes
	if numBowed > maxBowedModes {
		numBowed = maxBowedModes
	}

	if dsp.IsUnstable(excitation) {
		excitation = 0
	}
	excitation = dsp.Clamp(excitation, -10, 10) * 0.125

	// Position changes glide over about a millisecond to avoid zipper
	// noise in the amplitude weights.
	currentPosition := r.previousPosition + (r.position-r.previousPosition)*0.001
	r.previousPosition = currentPosition

	r.lfoPhase += r.modulationFrequency
	if r.lfoPhase >= 1 {
		r.lfoPhase -= 1
	}
	lfo := r.lfoPhase
	if lfo > 0.5 {
		lfo = 1 - lfo
	}
	lfo = lfo*4 - 1

	r.amplitudes.Init(currentPosition)
	r.auxAmplitudes.Init(r.modulationOffset + lfo*0.25)
	r.amplitudes.Start()
	r.auxAmplitudes.Start()

	var sumCenter, sumSide float32

	i := 0
	if r.ops != nil {
		for ; i+4 <= numModes; i += 4 {
			for j := 0; j < 4; j++ {
				r.batchV1[j] = r.stepMode(i+j, excitation)
			}
			r.amplitudes.Next4(&r.batchAmp)
			r.auxAmplitudes.Next4(&r.batchAux)
			sumCenter += r.ops.DotProductUnsafe(r.batchV1[:], r.batchAmp[:])
			sumSide += r.ops.DotProductUnsafe(r.batchV1[:], r.batchAux[:])
		}
	}
	for ; i < numModes; i++ {
		v1 := r.stepMode(i, excitation)
		sumCenter += v1 * r.amplitudes.Next()
		sumSide += v1 * r.auxAmplitudes.Next()
	}

	if bowStrength > 0.001 {
		bowInput := excitation + r.bowSignal
		var bowSum float32

		r.amplitudes.Init(currentPosition)
		r.amplitudes.Start()
		for i := 0; i < numBowed; i++ {
			s := 0.99 * r.bowed[i].Read()
			bowSum += s
			r.bowed[i].Write(bowInput + s)
			sumCenter += s * r.amplitudes.Next() * 8
		}
		r.bowSignal = dsp.BowTable(bowSum, bowStrength)
	} else {
		r.bowSignal *= 0.99
	}

	center = sumCenter * 4
	side = (sumSide - sumCenter) * 4 * r.space

	center = dsp.FastTanh(center*0.5) * 2
	side = dsp.FastTanh(side*0.5) * 2
	return center, side
}

// stepMode advances mode i by one sample and returns its bandpass
// output. Unstable state flushes to zero with a zero output sample.
func (r *Resonator) stepMode(i int, excitation float32) float32 {
	s1 := r.state1[i]
	s2 := r.state2[i]

	v3 := excitation - s2
	v1 := r.coefA1[i]*s1 + r.coefA2[i]*v3
	v2 := s2 + r.coefA2[i]*s1 + r.coefA3[i]*v3
	s1 = 2*v1 - s1
	s2 = 2*v2 - s2

	if dsp.IsUnstable(s1) || dsp.IsUnstable(s2) {
		s1, s2, v1 = 0, 0, 0
	}
	r.state1[i] = s1
	r.state2[i] = s2
	return v1
}

// computeFilters refreshes mode coefficients and returns the number of
// active modes.
//
// Two optimizations keep the per-sample cost down. When no parameter
// changed and every mode has been visited at least once, the update is
// skipped outright. Otherwise modes refresh on a staggered schedule:
// modes 0-3 every sample, 4-7 every 2nd, 8-15 every 4th, the rest every
// 8th. A dirty parameter forces a full synchronous pass so audible
// coefficient lag never exceeds one sample.
func (r *Resonator) computeFilters() int {
	r.clockDivider++

	if !r.paramsDirty && r.clockDivider > uint32(r.numModes) {
		if r.activeModes > 0 {
			return r.activeModes
		}
		return 1
	}

	fullUpdate := r.paramsDirty
	r.paramsDirty = false

	numModes := 0
	stiffness := dsp.Stiffness(r.geometry)
	harmonic := r.frequency
	stretchFactor := float32(1)
	baseQ := 500 * dsp.QFromDamping(r.damping)

	// Dark geometries attenuate brightness to keep the dense low
	// partials from clipping.
	attenuation := 1 - r.geometry
	attenuation *= attenuation
	attenuation *= attenuation
	attenuation *= attenuation
	brightness := r.brightness * (1 - 0.2*attenuation)

	qLoss := brightness*(2-brightness)*0.85 + 0.15
	qLossDampingRate := r.geometry * (2 - r.geometry) * 0.1

	for i := 0; i < r.numModes; i++ {
		var update bool
		switch {
		case fullUpdate || i <= 3:
			update = true
		case i <= 7:
			update = r.clockDivider&1 == 0
		case i <= 15:
			update = r.clockDivider&3 == 0
		default:
			update = r.clockDivider&7 == 0
		}

		partial := harmonic * stretchFactor
		if partial >= 0.49 {
			partial = 0.49
		} else {
			numModes = i + 1
		}

		if update {
			modeQ := 1 + partial*baseQ

			g := dsp.TanPi(partial)
			k := 1 / dsp.Clamp(modeQ, 0.5, 500)
			r.coefG[i] = g
			r.coefR[i] = k

			a1 := 1 / (1 + g*(g+k))
			r.coefA1[i] = a1
			r.coefA2[i] = g * a1
			r.coefA3[i] = g * r.coefA2[i]

			if i < maxBowedModes {
				period := int(1 / partial)
				for period >= maxBowedDelay {
					period >>= 1
				}
				r.bowed[i].SetDelay(period)
				r.bowed[i].SetGAndQ(g, 1+partial*1500)
			}
		}

		stretchFactor += stiffness
		if stiffness < 0 {
			stiffness *= 0.93
		} else {
			stiffness *= 0.98
		}

		qLoss += qLossDampingRate * (1 - qLoss)
		harmonic += r.frequency
		baseQ *= qLoss
	}

	if numModes == 0 {
		numModes = 1
	}
	r.activeModes = numModes
	return numModes
}

// Reset clears all filter, waveguide and modulation state. Parameters
// and coefficients survive.
func (r *Resonator) Reset() {
	for i := 0; i < MaxModes; i++ {
		r.state1[i] = 0
		r.state2[i] = 0
	}
	for i := range r.bowed {
		r.bowed[i].Reset()
	}
	r.lfoPhase = 0
	r.previousPosition = r.position
	r.bowSignal = 0
}

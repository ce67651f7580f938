package modalsynth

import (
	"errors"
	"math"

	"github.com/tphakala/go-modal-synth/internal/dsp"
	"github.com/tphakala/go-modal-synth/internal/envelope"
	"github.com/tphakala/go-modal-synth/internal/exciter"
	"github.com/tphakala/go-modal-synth/internal/resonator"
	"github.com/tphakala/go-modal-synth/internal/simdops"
)

// lfoUpdateRate is the LFO control-rate divisor: modulation targets
// refresh every 32 samples (1.5 kHz), below audibility for these
// destinations and far cheaper than audio-rate updates. Must stay a
// power of two.
const lfoUpdateRate = 32

// ErrBufferMismatch is returned by Process when the output slices
// differ in length.
var ErrBufferMismatch = errors.New("modalsynth: left and right buffers must be the same length")

// Voice is a complete monophonic synthesis voice: exciter, the three
// resonator models, ladder filter, envelopes and LFO.
//
// Methods must be called from a single goroutine. After New, no method
// allocates.
type Voice struct {
	exciter     *exciter.Exciter
	resonator   *resonator.Resonator
	stringModel *resonator.String
	multiString *resonator.MultiString
	filter      dsp.MoogLadder
	env         envelope.Multistage
	filterEnv   envelope.Multistage

	model       Model
	pitch       float32
	velocity    float32
	outputLevel float32
	space       float32

	filterCutoffBase float32
	filterEnvAmount  float32

	envMode      EnvelopeMode
	attackTime   float32
	decayTime    float32
	sustainLevel float32
	releaseTime  float32

	lfoRate        float32
	lfoPhase       float32
	lfoLastPhase   float32
	lfoDepth       float32
	lfoShape       lfoShape
	lfoDest        lfoDest
	lfoCounter     int
	lfoRandomValue float32
	lfoRandomState uint32

	// Base values restored when the LFO modulates away from them.
	structureBase  float32
	positionBase   float32
	brightnessBase float32
}

// New constructs a voice. A nil config selects the defaults. All
// buffers are allocated here; the returned voice is silent until
// NoteOn.
func New(config *Config) (*Voice, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var ops *simdops.Ops
	if cfg.EnableSIMD {
		ops = simdops.Vector()
	}

	v := &Voice{
		exciter:     exciter.New(cfg.SampleBank),
		resonator:   resonator.New(cfg.NumModes, ops),
		stringModel: resonator.NewString(),
		multiString: resonator.NewMultiString(),

		model:       ModelModal,
		pitch:       60,
		velocity:    1,
		outputLevel: cfg.OutputLevel,
		space:       0.7,

		filterCutoffBase: 8000,
		filterEnvAmount:  0.5,

		envMode:      EnvelopeADR,
		attackTime:   0.001,
		decayTime:    0.1,
		sustainLevel: 0.7,
		releaseTime:  0.3,

		lfoRate:        1,
		lfoRandomState: 12345,

		structureBase:  0.5,
		positionBase:   0.5,
		brightnessBase: 0.5,
	}

	freq := dsp.MIDIToFrequency(60)
	v.resonator.SetFrequency(freq)
	v.stringModel.SetFrequency(freq)
	v.multiString.SetFrequency(freq)
	v.resonator.SetSpace(v.space)

	v.env.Init()
	v.filterEnv.Init()
	v.updateEnvelopes()

	v.filter.SetCutoff(8000)
	return v, nil
}

// SetModel selects the resonating body.
func (v *Voice) SetModel(m Model) {
	if m < ModelModal || m > ModelMultiString {
		m = ModelModal
	}
	v.model = m
}

// Exciter controls.

// SetBow sets the bow excitation level, 0-1.
func (v *Voice) SetBow(level float32) { v.exciter.SetBow(level) }

// SetBlow sets the blow excitation level, 0-1.
func (v *Voice) SetBlow(level float32) { v.exciter.SetBlow(level) }

// SetStrike sets the strike excitation level, 0-1.
func (v *Voice) SetStrike(level float32) { v.exciter.SetStrike(level) }

// SetBowTimbre shapes the bow noise color, 0-1.
func (v *Voice) SetBowTimbre(t float32) { v.exciter.SetBowTimbre(t) }

// SetBlowTimbre shapes the breath band and tube formant, 0-1.
func (v *Voice) SetBlowTimbre(t float32) { v.exciter.SetBlowTimbre(t) }

// SetStrikeTimbre shapes the strike brightness, 0-1.
func (v *Voice) SetStrikeTimbre(t float32) { v.exciter.SetStrikeTimbre(t) }

// SetStrikeSample selects one of 12 strike sample variants.
func (v *Voice) SetStrikeSample(idx int) { v.exciter.SetStrikeSample(idx) }

// SetStrikeMode selects the strike regime.
func (v *Voice) SetStrikeMode(mode StrikeMode) {
	v.exciter.SetStrikeMode(mode.internal())
}

// SetGranularPosition sets the grain restart point, 0-1.
func (v *Voice) SetGranularPosition(pos float32) { v.exciter.SetGranularPosition(pos) }

// SetGranularDensity sets the grain restart density, 0-1.
func (v *Voice) SetGranularDensity(d float32) { v.exciter.SetGranularDensity(d) }

// Resonator controls.

// SetStructure sets the modal geometry control, 0-1.
func (v *Voice) SetStructure(s float32) {
	v.structureBase = dsp.Clamp(s, 0, 1)
	v.resonator.SetGeometry(v.structureBase)
}

// SetBrightness sets the partial brightness on all models, 0-1.
func (v *Voice) SetBrightness(b float32) {
	v.brightnessBase = dsp.Clamp(b, 0, 1)
	v.resonator.SetBrightness(v.brightnessBase)
	v.stringModel.SetBrightness(v.brightnessBase)
	v.multiString.SetBrightness(v.brightnessBase)
}

// SetDamping sets the decay control on all models, 0-1.
func (v *Voice) SetDamping(d float32) {
	v.resonator.SetDamping(d)
	v.stringModel.SetDamping(d)
	v.multiString.SetDamping(d)
}

// SetDispersion sets the string stiffness inharmonicity, 0-1. Only the
// string models respond.
func (v *Voice) SetDispersion(d float32) {
	v.stringModel.SetDispersion(d)
	v.multiString.SetDispersion(d)
}

// SetPosition sets the excitation/pickup position, 0-1.
func (v *Voice) SetPosition(p float32) {
	v.positionBase = dsp.Clamp(p, 0, 1)
	v.resonator.SetPosition(v.positionBase)
}

// SetMultiStringDetune scales the sympathetic string detuning, 0-1.
func (v *Voice) SetMultiStringDetune(d float32) {
	v.multiString.SetDetuneAmount(d)
}

// SetSpace sets the stereo width, 0-1.
func (v *Voice) SetSpace(s float32) {
	v.space = dsp.Clamp(s, 0, 1)
	v.resonator.SetSpace(v.space)
}

// ForceResonatorUpdate recomputes every mode's coefficients at once,
// bypassing the staggered scheduler. Call after bulk parameter loads
// such as preset changes.
func (v *Voice) ForceResonatorUpdate() {
	v.resonator.ForceUpdate()
}

// Filter controls.

// SetFilterCutoff maps 0-1 exponentially onto 20 Hz to 18 kHz.
func (v *Voice) SetFilterCutoff(value float32) {
	value = dsp.Clamp(value, 0, 1)
	v.filterCutoffBase = 20 * float32(math.Pow(900, float64(value)))
	v.filter.SetCutoff(v.filterCutoffBase)
}

// SetFilterResonance sets the ladder resonance, 0-1.
func (v *Voice) SetFilterResonance(r float32) { v.filter.SetResonance(r) }

// SetFilterEnvAmount sets how far the filter envelope opens the
// cutoff, 0-1.
func (v *Voice) SetFilterEnvAmount(a float32) {
	v.filterEnvAmount = dsp.Clamp(a, 0, 1)
}

// Envelope controls.

// SetAttack maps 0-1 onto 1 ms to 2 s attack time.
func (v *Voice) SetAttack(value float32) {
	v.attackTime = 0.001 + dsp.Clamp(value, 0, 1)*2
	v.updateEnvelopes()
}

// SetDecay maps 0-1 onto 10 ms to 3 s decay time.
func (v *Voice) SetDecay(value float32) {
	v.decayTime = 0.01 + dsp.Clamp(value, 0, 1)*3
	v.updateEnvelopes()
}

// SetSustain sets the sustain level, 0-1. Only the ADR mode uses it.
func (v *Voice) SetSustain(value float32) {
	v.sustainLevel = dsp.Clamp(value, 0, 1)
	v.updateEnvelopes()
}

// SetRelease maps 0-1 onto 10 ms to 5 s release time.
func (v *Voice) SetRelease(value float32) {
	v.releaseTime = 0.01 + dsp.Clamp(value, 0, 1)*5
	v.updateEnvelopes()
}

// SetEnvelopeMode selects the envelope topology.
func (v *Voice) SetEnvelopeMode(mode EnvelopeMode) {
	if mode < EnvelopeADR || mode > EnvelopeADLoop {
		mode = EnvelopeADR
	}
	v.envMode = mode
	v.updateEnvelopes()
}

// LFO controls.

// SetLFORate maps 0-1 exponentially onto 0.1 Hz to 20 Hz.
func (v *Voice) SetLFORate(value float32) {
	value = dsp.Clamp(value, 0, 1)
	v.lfoRate = 0.1 * float32(math.Pow(200, float64(value)))
}

// SetLFODepth sets the modulation depth, 0-1.
func (v *Voice) SetLFODepth(depth float32) {
	v.lfoDepth = dsp.Clamp(depth, 0, 1)
}

// SetLFOPreset selects a shape/destination routing.
func (v *Voice) SetLFOPreset(preset LFOPreset) {
	v.lfoShape, v.lfoDest = preset.routing()
}

// SetOutputLevel sets the master gain, 0-1.
func (v *Voice) SetOutputLevel(level float32) {
	v.outputLevel = dsp.Clamp(level, 0, 1)
}

// NoteOn tunes all models to the MIDI note, applies the velocity curve
// and triggers the exciter and envelopes.
func (v *Voice) NoteOn(note, velocity int) {
	if note < 0 {
		note = 0
	}
	if note > 127 {
		note = 127
	}
	v.pitch = float32(note)
	freq := dsp.MIDIToFrequency(v.pitch)

	v.resonator.SetFrequency(freq)
	v.stringModel.SetFrequency(freq)
	v.multiString.SetFrequency(freq)
	v.exciter.SetBlowFrequency(freq)

	v.exciter.Trigger()
	v.env.Trigger()
	v.filterEnv.Trigger()

	v.velocity = dsp.VelocityGain(velocity)
}

// NoteOff releases the envelopes. Sustained excitation (bow, blow)
// fades with the amplitude envelope.
func (v *Voice) NoteOff() {
	v.env.Release()
	v.filterEnv.Release()
}

// IsActive reports whether the voice still produces audible output.
func (v *Voice) IsActive() bool { return v.env.IsActive() }

// Process renders len(left) samples of stereo audio. The slices must
// be the same length. Output is bounded to [-1, 1] by the final soft
// limiter; NaN never escapes.
func (v *Voice) Process(left, right []float32) error {
	if len(left) != len(right) {
		return ErrBufferMismatch
	}

	for i := range left {
		if v.lfoCounter == 0 && v.lfoDest != lfoDestNone {
			v.updateLFO()
		}
		v.lfoCounter = (v.lfoCounter + 1) & (lfoUpdateRate - 1)

		exc := v.exciter.Process() * v.velocity
		bowStrength := v.exciter.BowStrength() * v.velocity

		var center, side float32
		switch v.model {
		case ModelModal:
			center, side = v.resonator.Process(exc, bowStrength)
		case ModelString:
			// The single string sits roughly 10 dB below the modal
			// bank; compensate so model switches keep the same level.
			center = v.stringModel.Process(exc) * 3
		default:
			center = v.multiString.Process(exc) * 6
		}

		envVal := v.filterEnv.Process()
		if v.lfoDest != lfoDestCutoff {
			cutoff := v.filterCutoffBase * (1 + envVal*v.filterEnvAmount*4)
			v.filter.SetCutoff(dsp.Clamp(cutoff, 20, 18000))
		}
		filteredCenter := v.filter.Process(center)

		amp := v.env.Process() * v.outputLevel

		// Mid/side to left/right with a soft limit on each stage.
		mid := dsp.FastTanh(filteredCenter) * amp
		sideScaled := side * amp

		outLeft := dsp.FastTanh(mid + sideScaled)
		outRight := dsp.FastTanh(mid - sideScaled)

		if outLeft != outLeft {
			outLeft = 0
		}
		if outRight != outRight {
			outRight = 0
		}

		left[i] = outLeft
		right[i] = outRight
	}
	return nil
}

// Reset clears all resonating state. Parameters survive; any ringing
// tail is cut.
func (v *Voice) Reset() {
	v.resonator.Reset()
	v.stringModel.Reset()
	v.multiString.Reset()
	v.filter.Reset()
}

// updateLFO advances the LFO one control-rate step and applies the
// modulation to its destination.
func (v *Voice) updateLFO() {
	v.lfoPhase += v.lfoRate * lfoUpdateRate / SampleRate
	if v.lfoPhase >= 1 {
		v.lfoPhase -= 1
	}

	var lfo float32
	switch v.lfoShape {
	case lfoTriangle:
		if v.lfoPhase < 0.5 {
			lfo = v.lfoPhase*4 - 1
		} else {
			lfo = 3 - v.lfoPhase*4
		}
	case lfoSine:
		x := v.lfoPhase*2 - 1
		lfo = x * (2 - dsp.Abs(x))
	case lfoSquare:
		if v.lfoPhase < 0.5 {
			lfo = 1
		} else {
			lfo = -1
		}
	case lfoSaw:
		lfo = 2*v.lfoPhase - 1
	case lfoRandom:
		// New random value on each phase wrap.
		if v.lfoPhase < v.lfoLastPhase {
			v.lfoRandomState = v.lfoRandomState*1103515245 + 12345
			v.lfoRandomValue = float32(v.lfoRandomState&0x7FFFFFFF)/float32(0x7FFFFFFF)*2 - 1
		}
		v.lfoLastPhase = v.lfoPhase
		lfo = v.lfoRandomValue
	}

	mod := lfo * v.lfoDepth * 0.5
	switch v.lfoDest {
	case lfoDestCutoff:
		v.filter.SetCutoff(v.filterCutoffBase * (1 + mod))
	case lfoDestGeometry:
		v.resonator.SetGeometry(dsp.Clamp(v.structureBase+mod*0.5, 0, 1))
	case lfoDestPosition:
		v.resonator.SetPosition(dsp.Clamp(v.positionBase+mod*0.5, 0, 1))
	case lfoDestBrightness:
		v.resonator.SetBrightness(dsp.Clamp(v.brightnessBase+mod*0.5, 0, 1))
	case lfoDestSpace:
		v.resonator.SetSpace(dsp.Clamp(v.space+mod*0.5, 0, 1))
	}
}

// updateEnvelopes applies the stored times to both envelopes for the
// current mode. The filter envelope runs faster than the amplitude
// envelope so filter motion leads the note body.
func (v *Voice) updateEnvelopes() {
	switch v.envMode {
	case EnvelopeAD:
		v.env.SetAD(v.attackTime, v.decayTime+v.releaseTime)
		v.filterEnv.SetAD(v.attackTime*0.25, (v.decayTime+v.releaseTime)*0.33)
	case EnvelopeAR:
		v.env.SetAR(v.attackTime, v.releaseTime)
		v.filterEnv.SetAR(v.attackTime*0.25, v.releaseTime*0.4)
	case EnvelopeADLoop:
		v.env.SetADLoop(v.attackTime, v.decayTime)
		v.filterEnv.SetADLoop(v.attackTime*0.5, v.decayTime*0.5)
	default: // EnvelopeADR
		v.env.SetADSR(v.attackTime, v.decayTime, v.sustainLevel, v.releaseTime)
		v.filterEnv.SetADSR(v.attackTime*0.25, v.decayTime*0.33, 0.5, v.releaseTime*0.4)
	}
}

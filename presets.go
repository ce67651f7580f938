package modalsynth

import "github.com/tphakala/go-modal-synth/internal/exciter"

// Model selects the resonating body.
type Model int

const (
	// ModelModal is the 32-mode inharmonic filter bank.
	ModelModal Model = iota
	// ModelString is a single Karplus-Strong string.
	ModelString
	// ModelMultiString is five sympathetic detuned strings.
	ModelMultiString
)

// String returns the model name.
func (m Model) String() string {
	switch m {
	case ModelModal:
		return "modal"
	case ModelString:
		return "string"
	case ModelMultiString:
		return "multistring"
	}
	return "unknown"
}

// EnvelopeMode selects the amplitude envelope topology.
type EnvelopeMode int

const (
	// EnvelopeADR sustains at the sustain level so struck bodies keep
	// ringing while the gate is held, then releases on NoteOff.
	EnvelopeADR EnvelopeMode = iota
	// EnvelopeAD decays straight to silence, ignoring the gate.
	EnvelopeAD
	// EnvelopeAR holds at full level until NoteOff.
	EnvelopeAR
	// EnvelopeADLoop repeats the attack-decay cycle for drones.
	EnvelopeADLoop
)

// StrikeMode selects the strike excitation regime. Values mirror the
// exciter package.
type StrikeMode int

const (
	StrikeSample StrikeMode = iota
	StrikeGranular
	StrikeNoise
	StrikePlectrum
	StrikeParticles
)

func (s StrikeMode) internal() exciter.StrikeMode {
	return exciter.StrikeMode(s)
}

// lfoShape is the LFO waveform.
type lfoShape int

const (
	lfoTriangle lfoShape = iota
	lfoSine
	lfoSquare
	lfoSaw
	lfoRandom // sample and hold
)

// lfoDest is the LFO modulation target.
type lfoDest int

const (
	lfoDestNone lfoDest = iota
	lfoDestCutoff
	lfoDestGeometry
	lfoDestPosition
	lfoDestBrightness
	lfoDestSpace
)

// LFOPreset pairs an LFO shape with a destination. Presets cover the
// routings that earn their keep on this engine rather than exposing a
// full matrix.
type LFOPreset int

const (
	// LFOOff disables modulation.
	LFOOff LFOPreset = iota
	// LFOTriangleCutoff sweeps the ladder filter cutoff.
	LFOTriangleCutoff
	// LFOSineGeometry morphs the modal structure.
	LFOSineGeometry
	// LFOSquarePosition toggles the excitation position.
	LFOSquarePosition
	// LFOTriangleBrightness sweeps the partial brightness.
	LFOTriangleBrightness
	// LFOSineSpace breathes the stereo width.
	LFOSineSpace
	// LFOSawCutoff ramps the filter cutoff.
	LFOSawCutoff
	// LFORandomSpace jumps the stereo width with sampled noise.
	LFORandomSpace
)

// routing returns the shape/destination pair for a preset.
func (p LFOPreset) routing() (lfoShape, lfoDest) {
	switch p {
	case LFOTriangleCutoff:
		return lfoTriangle, lfoDestCutoff
	case LFOSineGeometry:
		return lfoSine, lfoDestGeometry
	case LFOSquarePosition:
		return lfoSquare, lfoDestPosition
	case LFOTriangleBrightness:
		return lfoTriangle, lfoDestBrightness
	case LFOSineSpace:
		return lfoSine, lfoDestSpace
	case LFOSawCutoff:
		return lfoSaw, lfoDestCutoff
	case LFORandomSpace:
		return lfoRandom, lfoDestSpace
	}
	return lfoTriangle, lfoDestNone
}

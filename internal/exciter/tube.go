package exciter

import "github.com/tphakala/go-modal-synth/internal/dsp"

// tubeDelaySize is the waveguide length; power of two so the read
// indices wrap with a mask.
const tubeDelaySize = 2048

// Tube is a reed-model waveguide used by the blow excitation path: a
// delay line sized to the pitch period, a zero filter producing the
// reed pressure delta, a simplified Bernoulli reed nonlinearity and a
// one-pole timbre filter on the output. Driven with breath noise it
// colors the excitation with formant-like resonances that track the
// voice's pitch.
type Tube struct {
	delayLine []float32
	delayPtr  int
	zeroState float32
	poleState float32
}

// NewTube returns an initialized tube waveguide.
func NewTube() Tube {
	return Tube{delayLine: make([]float32, tubeDelaySize)}
}

// Init clears all waveguide and filter state.
func (t *Tube) Init() {
	t.zeroState = 0
	t.poleState = 0
	t.delayPtr = 0
	for i := range t.delayLine {
		t.delayLine[i] = 0
	}
}

// Process advances the waveguide one sample.
//
// frequency sets the air column length, envelope the breath pressure
// (0-1), damping the column loss, timbre the formant position.
func (t *Tube) Process(input, frequency, envelope, damping, timbre float32) float32 {
	delay := dsp.SampleRate / dsp.Clamp(frequency, 20, 8000)
	for delay >= tubeDelaySize {
		delay *= 0.5 // octave fold to fit the buffer
	}
	delayIntegral := int(delay)
	delayFractional := delay - float32(delayIntegral)

	envelope = dsp.Clamp(envelope, 0, 1)

	dampFactor := 3.6 - damping*1.8
	lpfCoefficient := frequency / dsp.SampleRate * (1 + timbre*timbre*256)
	lpfCoefficient = dsp.Clamp(lpfCoefficient, 0.001, 0.995)

	breath := input*dampFactor + 0.8

	readA := (t.delayPtr + delayIntegral) & (tubeDelaySize - 1)
	readB := (t.delayPtr + delayIntegral + 1) & (tubeDelaySize - 1)
	in := t.delayLine[readA] + (t.delayLine[readB]-t.delayLine[readA])*delayFractional

	// Zero filter: reed pressure delta.
	pressureDelta := -0.95*(in*envelope+t.zeroState) - breath
	t.zeroState = in

	// Reed pinch nonlinearity.
	reed := pressureDelta*-0.2 + 0.8
	out := dsp.Clamp(pressureDelta*reed+breath, -5, 5)

	t.delayLine[t.delayPtr] = out * 0.5
	t.delayPtr--
	if t.delayPtr < 0 {
		t.delayPtr = tubeDelaySize - 1
	}

	// Pole filter for timbre.
	t.poleState += lpfCoefficient * (out - t.poleState)

	if t.zeroState != t.zeroState || t.zeroState > 1e4 || t.zeroState < -1e4 {
		t.zeroState = 0
	}
	if t.poleState != t.poleState || t.poleState > 1e4 || t.poleState < -1e4 {
		t.poleState = 0
	}

	return envelope * t.poleState
}

// Reset clears the waveguide without touching the delay pointer.
func (t *Tube) Reset() {
	t.zeroState = 0
	t.poleState = 0
	for i := range t.delayLine {
		t.delayLine[i] = 0
	}
}

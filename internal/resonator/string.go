package resonator

import "github.com/tphakala/go-modal-synth/internal/dsp"

// stringMaxDelay is the string delay line length; power of two so read
// indices wrap with a mask. 2048 samples covers 20 Hz at 48 kHz with
// the octave headroom the clamp below never needs.
const stringMaxDelay = 2048

// dispersionStages is the allpass cascade depth of the stiffness model.
const dispersionStages = 4

// DispersionFilter is a cascade of first-order allpasses that delays
// high frequencies more than low ones, stretching the upper partials of
// the string the way a stiff piano wire does.
type DispersionFilter struct {
	state       [dispersionStages]float32
	amount      float32
	coefficient float32
}

// SetAmount sets the dispersion amount, 0-1. The allpass coefficient
// tops out at 0.65 to stay well inside the stability region.
func (d *DispersionFilter) SetAmount(amount float32) {
	d.amount = dsp.Clamp(amount, 0, 1)
	d.coefficient = d.amount * 0.65
}

// Configure sets the amount scaled down for high frequencies, which
// need less dispersion to stay stable.
func (d *DispersionFilter) Configure(frequency, amount float32) {
	freqScale := 1 - dsp.Clamp(frequency/4000, 0, 0.8)
	d.SetAmount(amount * freqScale)
}

// Process runs one sample through the cascade. Amounts below 0.01
// bypass entirely.
func (d *DispersionFilter) Process(x float32) float32 {
	if d.amount < 0.01 {
		return x
	}
	y := x
	for i := 0; i < dispersionStages; i++ {
		in := y
		out := -d.coefficient*in + d.state[i]
		d.state[i] = in + d.coefficient*out
		y = out

		if d.state[i] != d.state[i] || d.state[i] > 1e4 || d.state[i] < -1e4 {
			d.state[i] = 0
		}
	}
	return y
}

// Reset clears the allpass states.
func (d *DispersionFilter) Reset() {
	for i := range d.state {
		d.state[i] = 0
	}
}

// String is a Karplus-Strong plucked string: a fractional delay line
// with a one-pole brightness filter, frequency-compensated feedback, an
// optional dispersion cascade and a DC blocker in the loop.
type String struct {
	delay    [stringMaxDelay]float32
	writePtr int

	delaySamples float32
	feedback     float32
	lpCoeff      float32
	lpState      float32

	dcBlockerX float32
	dcBlockerY float32

	dispersion       float32
	dispersionFilter DispersionFilter

	freq       float32
	damping    float32
	brightness float32
}

// NewString returns a string tuned to 220 Hz with moderate damping.
func NewString() *String {
	s := &String{}
	s.Reset()
	return s
}

// Reset clears the delay line and filter state and restores default
// tuning.
func (s *String) Reset() {
	for i := range s.delay {
		s.delay[i] = 0
	}
	s.writePtr = 0
	s.freq = 220
	s.damping = 0.5
	s.brightness = 0.5
	s.dispersion = 0
	s.lpState = 0
	s.dcBlockerX = 0
	s.dcBlockerY = 0
	s.dispersionFilter.Reset()
	s.updateCoefficients()
}

// SetFrequency sets the fundamental in Hz, clamped to [20, 4000].
func (s *String) SetFrequency(freq float32) {
	s.freq = dsp.Clamp(freq, 20, 4000)
	s.updateCoefficients()
}

// SetDamping sets the decay control, 0-1. Zero rings for seconds.
func (s *String) SetDamping(d float32) {
	s.damping = dsp.Clamp(d, 0, 1)
	s.updateCoefficients()
}

// SetBrightness sets the loop filter cutoff, 0-1.
func (s *String) SetBrightness(b float32) {
	s.brightness = dsp.Clamp(b, 0, 1)
	s.updateCoefficients()
}

// SetDispersion sets the piano-like inharmonicity amount, 0-1.
func (s *String) SetDispersion(d float32) {
	s.dispersion = dsp.Clamp(d, 0, 1)
	s.dispersionFilter.Configure(s.freq, s.dispersion)
}

// Process feeds one excitation sample into the string and returns the
// string output.
func (s *String) Process(excitation float32) float32 {
	if dsp.IsUnstable(excitation) {
		excitation = 0
	}

	readPos := float32(s.writePtr) - s.delaySamples
	if readPos < 0 {
		readPos += stringMaxDelay
	}
	readIdx := int(readPos)
	frac := readPos - float32(readIdx)

	idx0 := readIdx & (stringMaxDelay - 1)
	idx1 := (readIdx + 1) & (stringMaxDelay - 1)
	delayed := s.delay[idx0]*(1-frac) + s.delay[idx1]*frac

	// Brightness: one-pole lowpass in the loop.
	s.lpState += s.lpCoeff * (delayed - s.lpState)
	filtered := s.lpState

	filtered *= s.feedback

	if s.dispersion > 0.01 {
		filtered = s.dispersionFilter.Process(filtered)
	}

	// DC blocker keeps the loop from drifting off center.
	dcOut := filtered - s.dcBlockerX + 0.995*s.dcBlockerY
	s.dcBlockerX = filtered
	s.dcBlockerY = dcOut
	filtered = dcOut

	if filtered != filtered || filtered > 1e4 || filtered < -1e4 {
		s.Reset()
		return 0
	}

	s.delay[s.writePtr] = excitation + filtered
	s.writePtr = (s.writePtr + 1) & (stringMaxDelay - 1)

	return filtered
}

func (s *String) updateCoefficients() {
	s.delaySamples = dsp.SampleRate / s.freq
	if s.delaySamples > stringMaxDelay-2 {
		s.delaySamples = stringMaxDelay - 2
	}
	if s.delaySamples < 2 {
		s.delaySamples = 2
	}

	// Higher frequencies get slightly more loop loss so the decay
	// scales the way real strings do.
	freqCompensation := 1 - (s.freq/8000)*0.1
	s.feedback = (0.9998 - s.damping*0.02) * freqCompensation
	s.feedback = dsp.Clamp(s.feedback, 0.9, 0.9998)

	s.lpCoeff = 0.1 + s.brightness*0.85

	s.dispersionFilter.Configure(s.freq, s.dispersion)
}

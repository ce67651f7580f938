package dsp

import "math"

// OnePole is a single-pole smoothing filter, usable as lowpass or
// (via ProcessHighPass) as the complementary highpass.
type OnePole struct {
	state float32
	coeff float32
}

// NewOnePole returns a one-pole filter with a heavy default smoothing
// coefficient.
func NewOnePole() OnePole {
	return OnePole{coeff: 0.99}
}

// SetCoefficient sets the pole directly; 0 passes through, values near
// 1 smooth heavily.
func (o *OnePole) SetCoefficient(c float32) {
	o.coeff = Clamp(c, 0, 0.9999)
}

// SetFrequency sets the pole from a cutoff frequency in Hz.
func (o *OnePole) SetFrequency(freq float32) {
	w := TwoPi * freq / SampleRate
	o.coeff = float32(math.Exp(float64(-w)))
}

// Process returns the lowpass output for one input sample.
func (o *OnePole) Process(in float32) float32 {
	if in != in {
		in = 0
	}
	o.state = in + (o.state-in)*o.coeff
	if o.state != o.state {
		o.state = 0
	}
	return o.state
}

// ProcessHighPass returns the highpass complement (input minus the
// smoothed state).
func (o *OnePole) ProcessHighPass(in float32) float32 {
	if in != in {
		in = 0
	}
	o.state = in + (o.state-in)*o.coeff
	if o.state != o.state {
		o.state = 0
		return 0
	}
	return in - o.state
}

// Reset clears the filter state.
func (o *OnePole) Reset() { o.state = 0 }

// State exposes the current filter state.
func (o *OnePole) State() float32 { return o.state }

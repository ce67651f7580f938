package resonator

import "github.com/tphakala/go-modal-synth/internal/dsp"

// Mode is a single resonant partial: a zero-delay-feedback state
// variable filter (Zavalishin TPT topology) configured for its bandpass
// output. The topology stays stable at the high Q values modal
// synthesis needs, where a biquad would blow up near Nyquist.
type Mode struct {
	state1, state2 float32
	g, k           float32
	a1, a2, a3     float32
}

// NewMode returns a mode with critically damped defaults.
func NewMode() Mode {
	m := Mode{g: 0, k: 2}
	m.updateCoefficients()
	return m
}

// SetFrequencyAndQ tunes the mode. freq is in Hz, q in [0.5, 500].
func (m *Mode) SetFrequencyAndQ(freq, q float32) {
	freq = dsp.Clamp(freq, 20, dsp.SampleRate*0.49)
	q = dsp.Clamp(q, 0.5, 500)
	m.g = dsp.TanPi(freq / dsp.SampleRate)
	m.k = 1 / q
	m.updateCoefficients()
}

// SetCoefficients sets g = tan(pi*f) and r = 1/Q directly, skipping the
// lookup when the caller already has them.
func (m *Mode) SetCoefficients(g, r float32) {
	m.g = g
	m.k = r
	m.updateCoefficients()
}

func (m *Mode) updateCoefficients() {
	m.a1 = 1 / (1 + m.g*(m.g+m.k))
	m.a2 = m.g * m.a1
	m.a3 = m.g * m.a2
}

// G returns the tangent coefficient, shared with the bowed modes.
func (m *Mode) G() float32 { return m.g }

// Process advances the filter one sample and returns the bandpass
// output. Unstable state flushes to zero and the sample reads 0.
func (m *Mode) Process(in float32) float32 {
	if in != in {
		in = 0
	}
	v3 := in - m.state2
	v1 := m.a1*m.state1 + m.a2*v3
	v2 := m.state2 + m.a2*m.state1 + m.a3*v3
	m.state1 = 2*v1 - m.state1
	m.state2 = 2*v2 - m.state2

	if dsp.IsUnstable(m.state1) || dsp.IsUnstable(m.state2) {
		m.Reset()
		return 0
	}
	return v1
}

// ProcessNormalized returns the bandpass output scaled by 1/Q, keeping
// amplitude consistent across Q values. The banded waveguides feed this
// into their delay lines.
func (m *Mode) ProcessNormalized(in float32) float32 {
	return m.Process(in) * m.k
}

// Reset clears the filter state.
func (m *Mode) Reset() { m.state1, m.state2 = 0, 0 }

// Banded waveguide limits.
const (
	maxBowedModes = 8
	maxBowedDelay = 1024
)

// BowedMode is one band of the bowing model: a delay line tuned to the
// partial's period feeding a high-Q bandpass. Sustained excitation
// through the friction nonlinearity keeps energy circulating, which is
// what turns a decaying modal hit into a bowed tone.
type BowedMode struct {
	delay  dsp.DelayLine
	filter Mode
}

// NewBowedMode returns an initialized banded waveguide.
func NewBowedMode() BowedMode {
	b := BowedMode{delay: dsp.NewDelayLine(maxBowedDelay)}
	b.Init()
	return b
}

// Init restores the default tuning and clears all state.
func (b *BowedMode) Init() {
	b.delay.Reset()
	b.filter.Reset()
	b.filter.SetCoefficients(0.1, 0.01)
}

// SetGAndQ retunes the bandpass, reusing the main mode's tangent
// coefficient. Bowed Q runs higher than the modal Q for sustain.
func (b *BowedMode) SetGAndQ(g, q float32) {
	b.filter.SetCoefficients(g, 1/dsp.Clamp(q, 0.5, 2000))
}

// SetDelay sets the waveguide period in samples.
func (b *BowedMode) SetDelay(period int) {
	b.delay.SetDelay(period)
}

// Read returns the waveguide output.
func (b *BowedMode) Read() float32 {
	return b.delay.Read()
}

// Write filters the input and feeds it back into the waveguide.
func (b *BowedMode) Write(in float32) {
	b.delay.Write(b.filter.ProcessNormalized(in))
}

// Reset clears the delay line and filter state.
func (b *BowedMode) Reset() {
	b.delay.Reset()
	b.filter.Reset()
}

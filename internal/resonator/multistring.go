package resonator

import "github.com/tphakala/go-modal-synth/internal/dsp"

// NumStrings is the string count of the sympathetic model: one main
// string and four detuned companions.
const NumStrings = 5

// Per-string detuning in cents at full detune amount. The pairs beat
// against each other for the 12-string chorus effect.
var stringDetuning = [NumStrings]float32{0, -5, 5, -10, 10}

// Per-string amplitudes: main string dominant, sympathetics quieter.
var stringAmplitude = [NumStrings]float32{1, 0.4, 0.4, 0.25, 0.25}

// MultiString is a bank of five Karplus-Strong strings. The main string
// receives the full excitation; the other four ring along at a fifth of
// the input level, detuned a few cents apart.
type MultiString struct {
	strings      [NumStrings]*String
	freq         float32
	detuneAmount float32
}

// NewMultiString returns an initialized five-string bank.
func NewMultiString() *MultiString {
	m := &MultiString{}
	for i := range m.strings {
		m.strings[i] = NewString()
	}
	m.Reset()
	return m
}

// Reset clears all strings and restores default tuning.
func (m *MultiString) Reset() {
	for i := range m.strings {
		m.strings[i].Reset()
	}
	m.detuneAmount = 0.5
	m.freq = 220
	m.updateFrequencies()
}

// SetFrequency sets the main string fundamental in Hz.
func (m *MultiString) SetFrequency(freq float32) {
	m.freq = dsp.Clamp(freq, 20, 4000)
	m.updateFrequencies()
}

// SetDamping sets the decay control on every string, 0-1.
func (m *MultiString) SetDamping(d float32) {
	for i := range m.strings {
		m.strings[i].SetDamping(d)
	}
}

// SetBrightness sets the loop filter cutoff on every string, 0-1.
func (m *MultiString) SetBrightness(b float32) {
	for i := range m.strings {
		m.strings[i].SetBrightness(b)
	}
}

// SetDispersion sets the inharmonicity amount on every string, 0-1.
func (m *MultiString) SetDispersion(d float32) {
	for i := range m.strings {
		m.strings[i].SetDispersion(d)
	}
}

// SetDetuneAmount scales the detuning spread: 0 is unison, 1 the full
// +/-10 cent spread.
func (m *MultiString) SetDetuneAmount(amount float32) {
	m.detuneAmount = dsp.Clamp(amount, 0, 1)
	m.updateFrequencies()
}

// Process feeds one excitation sample into the bank and returns the
// mixed output.
func (m *MultiString) Process(excitation float32) float32 {
	out := m.strings[0].Process(excitation) * stringAmplitude[0]

	// Sympathetic strings see a fraction of the excitation, standing in
	// for the acoustic coupling through the bridge.
	sympathetic := excitation * 0.2
	for i := 1; i < NumStrings; i++ {
		out += m.strings[i].Process(sympathetic) * stringAmplitude[i]
	}

	// Amplitudes sum to 2.3; bring the mix back near unity.
	return out * 0.45
}

func (m *MultiString) updateFrequencies() {
	for i := range m.strings {
		cents := stringDetuning[i] * m.detuneAmount
		ratio := 1 + cents*0.0005778
		m.strings[i].SetFrequency(m.freq * ratio)
	}
}

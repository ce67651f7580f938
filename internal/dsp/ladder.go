package dsp

// MoogLadder is a 4-pole resonant lowpass in the classic ladder
// arrangement, used as the voice's output filter.
type MoogLadder struct {
	stage [4]float32
	delay [4]float32
	g     float32
	res   float32
}

// SetCutoff sets the cutoff frequency in Hz.
func (m *MoogLadder) SetCutoff(freq float32) {
	freq = Clamp(freq, 20, SampleRate*0.45)
	fc := freq / SampleRate
	// Polynomial fit of the ladder tuning curve.
	m.g = 0.9892*fc - 0.4324*fc*fc - 0.1381*fc*fc*fc + 0.0202*fc*fc*fc*fc
}

// SetResonance sets resonance 0-1; 1 sits at the self-oscillation
// threshold (feedback gain 4).
func (m *MoogLadder) SetResonance(res float32) {
	m.res = Clamp(res, 0, 1) * 4
}

// Process filters one sample.
func (m *MoogLadder) Process(input float32) float32 {
	if input != input {
		input = 0
	}
	in := FastTanh(input - m.res*m.delay[3])
	for i := 0; i < 4; i++ {
		newStage := (in-m.stage[i])*m.g + m.stage[i]
		m.delay[i] = m.stage[i]
		m.stage[i] = newStage
		in = newStage
	}
	if m.stage[3] != m.stage[3] || m.stage[3] > 1e4 || m.stage[3] < -1e4 {
		m.Reset()
		return 0
	}
	return m.stage[3]
}

// Reset clears all ladder state.
func (m *MoogLadder) Reset() {
	m.stage = [4]float32{}
	m.delay = [4]float32{}
}

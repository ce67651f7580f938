package dsp

import "math"

// SVF is a Chamberlin-style state variable filter used for shaping the
// exciter sources. It is deliberately simpler than the zero-delay
// resonator modes: excitation filtering runs at modest Q where the
// classic topology is stable and cheap.
type SVF struct {
	lp, bp, hp float32
	g, r       float32
}

// NewSVF returns a filter with a low default cutoff and no resonance.
func NewSVF() SVF {
	return SVF{g: 0.1, r: 1}
}

// SetFrequency sets the cutoff in Hz, clamped conservatively below
// Nyquist so the tangent warp stays finite.
func (s *SVF) SetFrequency(freq float32) {
	freq = Clamp(freq, 20, SampleRate*0.4)
	w := Pi * freq / SampleRate
	if w > 1.5 {
		w = 1.5
	}
	s.g = float32(math.Tan(float64(w)))
	s.g = Clamp(s.g, 0.001, 10)
}

// SetResonance sets the Q, clamped to [0.5, 20].
func (s *SVF) SetResonance(q float32) {
	q = Clamp(q, 0.5, 20)
	s.r = 1 / q
}

func (s *SVF) step(in float32) {
	s.hp = (in - s.lp - s.r*s.bp) / (1 + s.g*(s.g+s.r))
	s.bp += s.g * s.hp
	s.lp += s.g * s.bp
}

// ProcessLowPass returns the lowpass output for one sample.
func (s *SVF) ProcessLowPass(in float32) float32 {
	if in != in {
		in = 0
	}
	s.step(in)
	if s.lp != s.lp || s.lp > 1e4 || s.lp < -1e4 {
		s.Reset()
		return 0
	}
	return s.lp
}

// ProcessBandPass returns the bandpass output for one sample.
func (s *SVF) ProcessBandPass(in float32) float32 {
	if in != in {
		in = 0
	}
	s.step(in)
	if s.bp != s.bp || s.bp > 1e4 || s.bp < -1e4 {
		s.Reset()
		return 0
	}
	return s.bp
}

// Reset clears all filter state.
func (s *SVF) Reset() {
	s.lp, s.bp, s.hp = 0, 0, 0
}

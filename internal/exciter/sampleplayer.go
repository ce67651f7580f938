package exciter

import "github.com/tphakala/go-modal-synth/internal/dsp"

// SamplePlayer is a one-shot PCM player with 16.16 fixed-point phase
// and linear interpolation. Trigger restarts it from the beginning;
// it goes silent at the end of the sample.
type SamplePlayer struct {
	bank      SampleBank
	sampleIdx int
	phase     uint32
	phaseInc  uint32
	playing   bool
}

// NewSamplePlayer returns a player reading from the given bank.
func NewSamplePlayer(bank SampleBank) SamplePlayer {
	return SamplePlayer{
		bank:     bank,
		phaseInc: 1 << 16,
	}
}

// SetSample selects the PCM sample to play on the next Trigger.
func (p *SamplePlayer) SetSample(idx int) {
	if idx >= 0 && idx < p.bank.NumSamples() {
		p.sampleIdx = idx
	}
}

// SetPitch sets the playback ratio (1.0 = native rate).
func (p *SamplePlayer) SetPitch(ratio float32) {
	ratio = dsp.Clamp(ratio, 0.25, 4)
	p.phaseInc = uint32(ratio * 65536)
}

// Trigger restarts playback from the sample start.
func (p *SamplePlayer) Trigger() {
	p.phase = 0
	p.playing = true
}

// IsPlaying reports whether the one-shot is still sounding.
func (p *SamplePlayer) IsPlaying() bool { return p.playing }

// Process returns the next playback sample, 0 once finished.
func (p *SamplePlayer) Process() float32 {
	if !p.playing {
		return 0
	}
	data := p.bank.At(p.sampleIdx)
	length := uint32(len(data))
	idx := p.phase >> 16
	if length < 2 || idx >= length-1 {
		p.playing = false
		return 0
	}
	frac := float32(p.phase&0xFFFF) / 65536.0
	s1 := float32(data[idx]) / 32768.0
	s2 := float32(data[idx+1]) / 32768.0
	p.phase += p.phaseInc
	return s1 + (s2-s1)*frac
}

// Reset stops playback.
func (p *SamplePlayer) Reset() {
	p.phase = 0
	p.playing = false
}

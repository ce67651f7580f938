package exciter

import "github.com/tphakala/go-modal-synth/internal/dsp"

// GranularPlayer streams a PCM sample continuously with random phase
// restarts, producing a grainy sustained texture. Restart probability
// scales with density; the restart point follows the position control.
type GranularPlayer struct {
	bank       SampleBank
	phase      uint32
	noiseState uint32
	sampleIdx  int
	position   float32
	pitch      float32
	density    float32
}

// NewGranularPlayer returns a player reading from the given bank.
func NewGranularPlayer(bank SampleBank) GranularPlayer {
	g := GranularPlayer{bank: bank}
	g.Reset()
	return g
}

// Reset restores the default grain settings and playback phase.
func (g *GranularPlayer) Reset() {
	g.phase = 0
	g.noiseState = 12345
	g.sampleIdx = 0
	g.position = 0.5
	g.pitch = 1
	g.density = 0.5
}

// SetSample selects the source sample.
func (g *GranularPlayer) SetSample(idx int) {
	if idx >= 0 && idx < g.bank.NumSamples() {
		g.sampleIdx = idx
	}
}

// SetPosition sets the restart point within the sample, 0-1.
func (g *GranularPlayer) SetPosition(pos float32) {
	g.position = dsp.Clamp(pos, 0, 1)
}

// SetPitch maps 0-1 to a playback ratio spanning -1 to +1 octaves.
func (g *GranularPlayer) SetPitch(pitch float32) {
	g.pitch = dsp.SemitonesToRatio((pitch - 0.5) * 24)
}

// SetDensity sets the grain restart density, 0-1.
func (g *GranularPlayer) SetDensity(density float32) {
	g.density = dsp.Clamp(density, 0, 1)
}

// Process returns the next granular sample.
func (g *GranularPlayer) Process() float32 {
	data := g.bank.At(g.sampleIdx)
	length := uint32(len(data))
	if length < 2 {
		return 0
	}

	// Restart probability per sample, expressed against the full
	// 32-bit noise range so the comparison below is branch-cheap.
	restartProb := uint32(g.density * 0.02 * 4294967296.0)
	// Restart at most one frame before the end so the interpolation
	// pair below stays in range.
	restartPoint := uint32(g.position*float32(length-2)) << 16
	phaseInc := uint32(g.pitch * 65536)

	idx := g.phase >> 16
	if idx >= length-1 {
		g.phase = restartPoint
		idx = g.phase >> 16
	}

	frac := float32(g.phase&0xFFFF) / 65536.0
	s1 := float32(data[idx]) / 32768.0
	s2 := float32(data[idx+1]) / 32768.0

	g.phase += phaseInc

	if g.noiseState < restartProb {
		g.phase = restartPoint
	}
	g.noiseState ^= g.noiseState << 13
	g.noiseState ^= g.noiseState >> 17
	g.noiseState ^= g.noiseState << 5

	return s1 + (s2-s1)*frac
}

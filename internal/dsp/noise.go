package dsp

// Noise is a 32-bit xorshift white noise generator. Output spans
// [-1, 1). The zero value is not usable; call Seed or use NewNoise.
type Noise struct {
	state    uint32
	filtered float32
}

// NewNoise returns a generator with the engine's default seed, so the
// startup texture is deterministic across runs.
func NewNoise() Noise {
	return Noise{state: 12345}
}

// Seed reseeds the generator. A zero seed is replaced by 1 to avoid
// the xorshift fixed point.
func (n *Noise) Seed(seed uint32) {
	if seed == 0 {
		seed = 1
	}
	n.state = seed
}

// Next returns the next white noise sample.
func (n *Noise) Next() float32 {
	n.state ^= n.state << 13
	n.state ^= n.state >> 17
	n.state ^= n.state << 5
	return float32(int32(n.state)) * (1.0 / 2147483648.0)
}

// NextFiltered returns one-pole lowpassed noise for slow modulation;
// coeff close to 1 gives a slower drift.
func (n *Noise) NextFiltered(coeff float32) float32 {
	raw := n.Next()
	n.filtered = n.filtered*coeff + raw*(1-coeff)
	return n.filtered
}

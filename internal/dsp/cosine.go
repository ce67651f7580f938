package dsp

// CosineOscillator generates a slowly walking cosine through the
// 2-tap recursion y0' = c*y0 - y1, y1' = y0, with no per-sample trig.
// The resonator uses one of these per output channel to weight mode
// amplitudes by pickup position: successive Next calls yield the
// cosine sampled at successive partial numbers.
//
// The coefficient uses a parabolic approximation of 2*cos(2*pi*f);
// outputs are offset to land in [0, 1].
type CosineOscillator struct {
	y0, y1           float32
	iirCoefficient   float32
	initialAmplitude float32
}

// Init configures the oscillator for a position/frequency in [0, 1].
func (c *CosineOscillator) Init(frequency float32) {
	sign := float32(16)
	frequency -= 0.25
	if frequency < 0 {
		frequency = -frequency
	} else if frequency > 0.5 {
		frequency -= 0.5
	} else {
		sign = -16
	}
	c.iirCoefficient = sign * frequency * (1 - 2*frequency)
	c.initialAmplitude = c.iirCoefficient * 0.25
}

// Start rewinds the recursion to the first partial.
func (c *CosineOscillator) Start() {
	c.y1 = c.initialAmplitude
	c.y0 = 0.5
}

// Next advances the recursion and returns a value in [0, 1].
func (c *CosineOscillator) Next() float32 {
	temp := c.y0
	c.y0 = c.iirCoefficient*c.y0 - c.y1
	c.y1 = temp
	return temp + 0.5
}

// Next4 fills out with four consecutive values, advancing the state by
// four steps. Used by the batch mode path so amplitude weights can be
// consumed as a contiguous slice.
func (c *CosineOscillator) Next4(out *[4]float32) {
	y0, y1 := c.y0, c.y1
	coeff := c.iirCoefficient

	out[0] = y0 + 0.5
	y2 := coeff*y0 - y1
	out[1] = y2 + 0.5
	y3 := coeff*y2 - y0
	out[2] = y3 + 0.5
	y4 := coeff*y3 - y2
	out[3] = y4 + 0.5

	c.y0 = coeff*y4 - y3
	c.y1 = y4
}

// Value returns the current value without advancing.
func (c *CosineOscillator) Value() float32 { return c.y1 + 0.5 }

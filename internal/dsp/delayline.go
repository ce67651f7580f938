package dsp

// DelayLine is a fixed-capacity integer-delay circular buffer used by
// the banded waveguides. The buffer is allocated once at construction;
// Reset zeroes it without reallocating. No interpolation: banded
// waveguide tuning comes from the companion bandpass filter, not from
// the delay length.
type DelayLine struct {
	buffer   []float32
	writePtr int
	delay    int
}

// NewDelayLine allocates a delay line with the given capacity.
// Capacities below 2 are raised to 2.
func NewDelayLine(capacity int) DelayLine {
	if capacity < 2 {
		capacity = 2
	}
	return DelayLine{
		buffer: make([]float32, capacity),
		delay:  1,
	}
}

// SetDelay sets the read offset in samples, clamped to the buffer.
func (d *DelayLine) SetDelay(delay int) {
	if delay < 1 {
		delay = 1
	}
	if delay >= len(d.buffer) {
		delay = len(d.buffer) - 1
	}
	d.delay = delay
}

// Read returns the sample delayed by the configured offset.
func (d *DelayLine) Read() float32 {
	readPtr := d.writePtr + d.delay
	if readPtr >= len(d.buffer) {
		readPtr -= len(d.buffer)
	}
	return d.buffer[readPtr]
}

// Write stores one sample and steps the write pointer backwards, so a
// later Read at the same delay sees it after `delay` samples.
func (d *DelayLine) Write(value float32) {
	d.buffer[d.writePtr] = value
	if d.writePtr == 0 {
		d.writePtr = len(d.buffer) - 1
	} else {
		d.writePtr--
	}
}

// Reset zeroes the buffer contents, keeping delay and position.
func (d *DelayLine) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
}

// Capacity returns the fixed buffer size.
func (d *DelayLine) Capacity() int { return len(d.buffer) }

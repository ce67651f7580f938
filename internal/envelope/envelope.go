// Package envelope implements the multistage segment envelope that
// shapes amplitude and modulation over a note's lifetime. Up to six
// (level, time, shape) segments cover ADSR, AD, AR and looping
// configurations; segment curves come from small lookup tables rather
// than per-sample transcendental calls.
package envelope

import "github.com/tphakala/go-modal-synth/internal/dsp"

// Shape selects the interpolation curve of one envelope segment.
type Shape int

const (
	// ShapeLinear interpolates the segment linearly.
	ShapeLinear Shape = iota
	// ShapeExponential follows the tabulated natural decay curve.
	ShapeExponential
	// ShapeQuartic follows the tabulated fast-attack curve.
	ShapeQuartic
)

// MaxSegments bounds the segment storage; all configurations fit in
// fixed arrays so a retrigger never allocates.
const MaxSegments = 6

// Multistage is a segment envelope with an optional sustain point and
// optional loop region. The zero value is unusable; call Init (or one
// of the Set* configurators, which Init already does).
type Multistage struct {
	level [MaxSegments + 1]float32
	time  [MaxSegments]float32
	shape [MaxSegments]Shape

	value      float32
	startValue float32
	phase      float32

	segment      int
	numSegments  int
	sustainPoint int
	loopStart    int
	loopEnd      int

	hardReset bool
	gate      bool
}

// Init resets the envelope to an idle default ADSR configuration.
func (e *Multistage) Init() {
	e.value = 0
	e.startValue = 0
	e.phase = 0
	e.segment = 0
	e.hardReset = true
	e.gate = false
	e.SetADSR(0.001, 0.1, 0.7, 0.3)
	// Idle until the first gate.
	e.segment = e.numSegments
}

// SetADSR configures attack/decay/sustain/release with the classic
// quartic attack and exponential decay curves. Times are in seconds.
func (e *Multistage) SetADSR(attack, decay, sustain, release float32) {
	e.numSegments = 3
	e.sustainPoint = 2
	e.loopStart, e.loopEnd = 0, 0

	e.level[0] = 0
	e.level[1] = 1
	e.level[2] = dsp.Clamp(sustain, 0, 1)
	e.level[3] = 0

	e.time[0] = timeToIncrement(attack)
	e.time[1] = timeToIncrement(decay)
	e.time[2] = timeToIncrement(release)

	e.shape[0] = ShapeQuartic
	e.shape[1] = ShapeExponential
	e.shape[2] = ShapeExponential
}

// SetAD configures a one-shot attack/decay envelope with no sustain.
func (e *Multistage) SetAD(attack, decay float32) {
	e.numSegments = 2
	e.sustainPoint = 0
	e.loopStart, e.loopEnd = 0, 0

	e.level[0] = 0
	e.level[1] = 1
	e.level[2] = 0

	e.time[0] = timeToIncrement(attack)
	e.time[1] = timeToIncrement(decay)

	e.shape[0] = ShapeLinear
	e.shape[1] = ShapeExponential
}

// SetAR configures attack/release with a hold at peak while the gate
// stays high.
func (e *Multistage) SetAR(attack, release float32) {
	e.numSegments = 2
	e.sustainPoint = 1
	e.loopStart, e.loopEnd = 0, 0

	e.level[0] = 0
	e.level[1] = 1
	e.level[2] = 0

	e.time[0] = timeToIncrement(attack)
	e.time[1] = timeToIncrement(release)

	e.shape[0] = ShapeLinear
	e.shape[1] = ShapeExponential
}

// SetADLoop configures a looping attack/decay cycle for drones.
func (e *Multistage) SetADLoop(attack, decay float32) {
	e.numSegments = 2
	e.sustainPoint = 0
	e.loopStart = 0
	e.loopEnd = 2

	e.level[0] = 0
	e.level[1] = 1
	e.level[2] = 0

	e.time[0] = timeToIncrement(attack)
	e.time[1] = timeToIncrement(decay)

	e.shape[0] = ShapeLinear
	e.shape[1] = ShapeLinear
}

// SetAttack adjusts the attack time without reconfiguring segments.
func (e *Multistage) SetAttack(t float32) { e.time[0] = timeToIncrement(t) }

// SetDecay adjusts the decay time.
func (e *Multistage) SetDecay(t float32) { e.time[1] = timeToIncrement(t) }

// SetSustain adjusts the sustain level.
func (e *Multistage) SetSustain(s float32) { e.level[2] = dsp.Clamp(s, 0, 1) }

// SetRelease adjusts the release time.
func (e *Multistage) SetRelease(t float32) { e.time[2] = timeToIncrement(t) }

// Trigger starts the envelope from segment 0. With hard reset the
// start value snaps to level[0]; otherwise the attack departs from the
// current value so retriggers stay click-free.
func (e *Multistage) Trigger() {
	if e.hardReset {
		e.startValue = e.level[0]
	} else {
		e.startValue = e.value
	}
	e.segment = 0
	e.phase = 0
	e.gate = true
}

// Gate updates the gate state, triggering on a rising edge and
// releasing on a falling edge.
func (e *Multistage) Gate(on bool) {
	if on && !e.gate {
		e.Trigger()
	} else if !on && e.gate {
		e.Release()
	}
	e.gate = on
}

// Release jumps to the release segment from the current value. The
// departure point is wherever the envelope is now, not level[0], so an
// early note-off releases smoothly mid-attack.
func (e *Multistage) Release() {
	if e.sustainPoint > 0 && e.segment < e.sustainPoint {
		e.startValue = e.value
		e.segment = e.sustainPoint
		e.phase = 0
	}
	e.gate = false
}

// Process advances the envelope one sample and returns its value.
func (e *Multistage) Process() float32 {
	if e.phase >= 1 {
		e.startValue = e.level[e.segment+1]
		e.segment++
		e.phase = 0
		if e.loopEnd > 0 && e.segment >= e.loopEnd {
			e.segment = e.loopStart
		}
	}

	done := e.segment >= e.numSegments
	sustained := e.sustainPoint > 0 && e.segment == e.sustainPoint && e.gate

	if !sustained && !done {
		e.phase += e.time[e.segment]
	}

	if done {
		e.value = e.level[e.numSegments]
	} else {
		t := applyShape(e.phase, e.shape[e.segment])
		e.value = e.startValue + (e.level[e.segment+1]-e.startValue)*t
	}
	return e.value
}

// IsActive reports whether the envelope still produces audible output.
func (e *Multistage) IsActive() bool {
	return e.segment < e.numSegments || e.value > 0.001
}

// Value returns the current output without advancing.
func (e *Multistage) Value() float32 { return e.value }

// timeToIncrement converts seconds to a per-sample phase increment,
// with a 0.1 ms floor.
func timeToIncrement(seconds float32) float32 {
	if seconds < 0.0001 {
		seconds = 0.0001
	}
	return 1 / (seconds * dsp.SampleRate)
}

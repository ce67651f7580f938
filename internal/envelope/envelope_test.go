package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRate = 48000

// run advances the envelope n samples and returns the last value.
func run(e *Multistage, n int) float32 {
	var v float32
	for i := 0; i < n; i++ {
		v = e.Process()
	}
	return v
}

func TestADSRScenario(t *testing.T) {
	var e Multistage
	e.Init()
	e.SetADSR(0.01, 0.05, 0.5, 0.1)

	// Idle before the first trigger.
	assert.Equal(t, float32(0), run(&e, 100))
	assert.False(t, e.IsActive())

	e.Trigger()

	// Attack: rises to the peak within the attack time.
	attackSamples := int(0.01*sampleRate) + 2
	peak := run(&e, attackSamples)
	assert.Greater(t, peak, float32(0.95), "attack should approach peak")

	// Decay: settles at the sustain level.
	decaySamples := int(0.05*sampleRate) + 2
	sustained := run(&e, decaySamples)
	assert.InDelta(t, 0.5, float64(sustained), 0.02, "decay should land on sustain")

	// Sustain: holds while the gate stays high.
	held := run(&e, 2000)
	assert.InDelta(t, 0.5, float64(held), 0.02, "sustain should hold")
	assert.True(t, e.IsActive())

	// Release: falls to zero within the release time.
	e.Release()
	releaseSamples := int(0.1*sampleRate) + 10
	final := run(&e, releaseSamples)
	assert.Less(t, final, float32(0.01), "release should reach silence")
	assert.False(t, e.IsActive())
}

func TestADSRReleaseFromMidAttack(t *testing.T) {
	var e Multistage
	e.Init()
	e.SetADSR(0.1, 0.05, 0.5, 0.05)

	e.Trigger()
	// Stop a third of the way up the attack.
	midValue := run(&e, int(0.033*sampleRate))
	require.Greater(t, midValue, float32(0.0))
	require.Less(t, midValue, float32(0.9))

	// The release departs from the current value, not from the peak, so
	// the next sample cannot jump upward.
	e.Release()
	next := e.Process()
	assert.LessOrEqual(t, next, midValue+0.01,
		"release must not jump above the value it departed from")

	final := run(&e, int(0.05*sampleRate)+10)
	assert.Less(t, final, float32(0.01))
}

func TestADIgnoresGate(t *testing.T) {
	var e Multistage
	e.Init()
	e.SetAD(0.005, 0.05)

	e.Trigger()
	run(&e, int(0.005*sampleRate)+2)

	// Releasing mid-decay changes nothing: AD has no sustain point.
	e.Release()
	v1 := run(&e, int(0.01*sampleRate))
	assert.Greater(t, v1, float32(0.0), "AD decay should still be in progress")

	final := run(&e, int(0.05*sampleRate)+10)
	assert.Less(t, final, float32(0.01), "AD should decay to silence on its own")
	assert.False(t, e.IsActive())
}

func TestARHoldsAtPeak(t *testing.T) {
	var e Multistage
	e.Init()
	e.SetAR(0.005, 0.05)

	e.Trigger()
	run(&e, int(0.005*sampleRate)+2)

	// Holds at peak while the gate stays high.
	held := run(&e, 5000)
	assert.InDelta(t, 1, float64(held), 0.02)

	e.Release()
	final := run(&e, int(0.05*sampleRate)+10)
	assert.Less(t, final, float32(0.01))
}

func TestADLoopRepeats(t *testing.T) {
	var e Multistage
	e.Init()
	e.SetADLoop(0.002, 0.002)

	e.Trigger()

	// Count full cycles: a peak followed by a return to the floor. A
	// one-shot envelope would complete exactly one.
	cycles := 0
	armed := false
	for i := 0; i < int(0.05*sampleRate); i++ {
		v := e.Process()
		if v > 0.9 {
			armed = true
		}
		if armed && v < 0.05 {
			cycles++
			armed = false
		}
	}
	assert.Greater(t, cycles, 3, "looping envelope should keep cycling")
	assert.True(t, e.IsActive())
}

func TestGateEdgeTriggersAndReleases(t *testing.T) {
	var e Multistage
	e.Init()
	e.SetADSR(0.001, 0.01, 0.6, 0.01)

	e.Gate(true)
	v := run(&e, 2000)
	assert.InDelta(t, 0.6, float64(v), 0.05)

	// A held gate does not retrigger.
	e.Gate(true)
	v2 := e.Process()
	assert.InDelta(t, float64(v), float64(v2), 0.01)

	e.Gate(false)
	final := run(&e, int(0.01*sampleRate)+10)
	assert.Less(t, final, float32(0.01))
}

func TestRetriggerIsContinuous(t *testing.T) {
	var e Multistage
	e.Init()
	e.hardReset = false
	e.SetADSR(0.05, 0.05, 0.5, 0.05)

	e.Trigger()
	mid := run(&e, int(0.02*sampleRate))
	require.Greater(t, mid, float32(0.1))

	// Soft retrigger departs from the current value.
	e.Trigger()
	next := e.Process()
	assert.InDelta(t, float64(mid), float64(next), 0.05,
		"soft retrigger should not snap back to zero")
}

func TestVeryShortTimesAreFloored(t *testing.T) {
	var e Multistage
	e.Init()
	e.SetADSR(0, 0, 0.5, 0)

	e.Trigger()
	// The 0.1 ms floor keeps increments finite; a few samples suffice
	// to complete each segment without NaN.
	for i := 0; i < 100; i++ {
		v := e.Process()
		assert.False(t, v != v, "NaN at sample %d", i)
	}
}

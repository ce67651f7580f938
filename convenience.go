package modalsynth

import (
	"fmt"

	"github.com/tphakala/go-modal-synth/internal/simdops"
)

// RenderNote is a convenience helper for one-shot rendering: it
// constructs a voice, plays a single note and returns the stereo
// result. noteDuration is the gate time in seconds, tailDuration the
// extra time rendered after NoteOff so releases and ringing decay
// are captured.
//
// For streaming or repeated rendering construct a Voice directly and
// reuse it; this helper allocates the voice and both buffers per call.
func RenderNote(config *Config, note, velocity int, noteDuration, tailDuration float64) (left, right []float32, err error) {
	if noteDuration <= 0 {
		return nil, nil, fmt.Errorf("modalsynth: noteDuration must be positive, got %g", noteDuration)
	}
	if tailDuration < 0 {
		return nil, nil, fmt.Errorf("modalsynth: tailDuration must not be negative, got %g", tailDuration)
	}

	voice, err := New(config)
	if err != nil {
		return nil, nil, err
	}

	gateFrames := int(noteDuration * SampleRate)
	tailFrames := int(tailDuration * SampleRate)
	left = make([]float32, gateFrames+tailFrames)
	right = make([]float32, gateFrames+tailFrames)

	voice.NoteOn(note, velocity)
	if err := voice.Process(left[:gateFrames], right[:gateFrames]); err != nil {
		return nil, nil, err
	}
	voice.NoteOff()
	if err := voice.Process(left[gateFrames:], right[gateFrames:]); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// RenderNoteInterleaved renders like RenderNote but returns a single
// interleaved stereo buffer, the layout WAV encoders expect.
func RenderNoteInterleaved(config *Config, note, velocity int, noteDuration, tailDuration float64) ([]float32, error) {
	left, right, err := RenderNote(config, note, velocity, noteDuration, tailDuration)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 2*len(left))
	simdops.Vector().Interleave2(out, left, right)
	return out, nil
}

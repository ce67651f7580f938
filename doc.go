// Package modalsynth provides a physically modeled resonant synthesis
// voice in pure Go.
//
// The engine follows the exciter/resonator architecture of modal
// synthesis: an excitation source (bowing friction, breath noise
// through a reed-model tube, or one of five strike generators) drives
// a resonating body. Three resonator models are available:
//
//   - Modal: a bank of up to 32 high-Q bandpass modes tuned to an
//     inharmonic partial series, with banded waveguides for bowed
//     sustain and stereo output
//   - String: a single Karplus-Strong string with brightness, damping
//     and piano-like dispersion controls
//   - MultiString: five sympathetic strings, detuned a few cents apart
//
// The voice adds a multistage envelope (ADR, AD, AR and looping AD
// modes), a 4-pole ladder filter with its own envelope, an LFO with
// preset shape/destination routings and velocity-sensitive dynamics.
//
// # Quick Start
//
// Render a struck note into stereo buffers:
//
//	voice, err := modalsynth.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	voice.SetStrike(0.9)
//	voice.NoteOn(60, 100)
//
//	left := make([]float32, 48000)
//	right := make([]float32, 48000)
//	if err := voice.Process(left, right); err != nil {
//	    log.Fatal(err)
//	}
//
// Or use the one-shot helper:
//
//	left, right, err := modalsynth.RenderNote(nil, 60, 100, 1.0, 0.5)
//
// # Real-Time Use
//
// All allocation happens in New. NoteOn, NoteOff, the parameter
// setters and Process neither allocate nor block, so Process can be
// called from an audio callback. The engine runs at a fixed 48 kHz;
// resample externally if the host runs at another rate.
//
// The optional SIMD batch path (Config.EnableSIMD) processes resonator
// modes four at a time using github.com/tphakala/simd kernels and is
// numerically equivalent to the scalar path within float32 rounding.
//
// A Voice is not safe for concurrent use; drive it from a single
// goroutine or the audio thread.
package modalsynth

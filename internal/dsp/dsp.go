// Package dsp provides the primitive building blocks shared by the
// synthesis engine: fast math approximations, lookup tables, noise,
// one-pole and state-variable filters, delay lines and the walking
// cosine oscillator.
//
// Everything in this package operates on float32 at a fixed 48 kHz
// sample rate and is written for per-sample use on the render thread:
// no function allocates, blocks or returns an error. Numeric
// instability (NaN or runaway state) is handled locally by flushing
// the offending state to zero.
package dsp

// Engine-wide constants. The sample rate is fixed; the host is expected
// to resample if it runs at anything else.
const (
	SampleRate = 48000.0

	Pi    = 3.14159265358979
	TwoPi = 6.283185307179586
)

// Pi powers used by the polynomial tangent approximation.
const (
	piPow3 = Pi * Pi * Pi
	piPow5 = piPow3 * Pi * Pi
)

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Abs returns |x| without the float64 round trip of math.Abs.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// IsUnstable reports whether a filter state has gone non-finite or out
// of the plausible range for audio-rate state. NaN compares unequal to
// itself, which also catches Inf-Inf style propagation.
func IsUnstable(x float32) bool {
	return x != x || x > 1e6 || x < -1e6
}

// FastTan approximates tan(pi*f) for normalized frequency f < 0.49.
// 5th order odd polynomial, error < 0.1% over the audio range.
func FastTan(f float32) float32 {
	const (
		a = 3.260e-01 * piPow3
		b = 1.823e-01 * piPow5
	)
	f2 := f * f
	return f * (Pi + f2*(a+b*f2))
}

// FastSin approximates sin(2*pi*x) for x in cycles using a parabolic
// segment per half cycle. Good enough for LFO shaping, not for
// coefficient math.
func FastSin(x float32) float32 {
	x -= float32(int(x))
	if x < 0 {
		x += 1
	}
	if x < 0.5 {
		t := x * 2
		return 4 * t * (1 - t)
	}
	t := (x - 0.5) * 2
	return -4 * t * (1 - t)
}

// FastCos approximates cos(2*pi*x) for x in cycles.
func FastCos(x float32) float32 {
	return FastSin(x + 0.25)
}

// FastTanh is a bounded rational tanh approximation: exact saturation
// to +/-1 beyond |x| = 4, x*(27+x^2)/(27+9x^2) inside.
func FastTanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// BowTable models the stick-slip friction of a bow on a string. The
// returned value is the displacement x scaled by a friction factor
// clamped to [0.0025, 0.245]; outside the capture region the bow slips
// and the factor collapses to the lower bound.
func BowTable(x, velocity float32) float32 {
	x = 0.13*velocity - x
	bow := Abs(x*6) + 0.75
	bow *= bow // ^2
	bow *= bow // ^4
	bow = 0.25 / bow
	if bow < 0.0025 {
		bow = 0.0025
	}
	if bow > 0.245 {
		bow = 0.245
	}
	return x * bow
}

// Package testutil provides reusable test helper functions for the
// synthesis engine tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-modal-synth/internal/dsp"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance   = 1e-5
	CoefficientDelta   = 1e-5
	FrequencyTolerance = 0.02 // 2% for spectral peak estimates
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float32) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float32, minVal, maxVal float32) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertSilent verifies that every element's magnitude stays below the
// threshold, for silence-convergence checks on decayed tails.
func AssertSilent(t *testing.T, s []float32, threshold float32) bool {
	t.Helper()
	for i, v := range s {
		if dsp.Abs(v) > threshold {
			return assert.Fail(t, "signal not silent",
				"s[%d]=%f exceeds threshold %f", i, v, threshold)
		}
	}
	return true
}

// RMS returns the root-mean-square level of the signal.
func RMS(s []float32) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

// PeakAbs returns the largest absolute sample value.
func PeakAbs(s []float32) float32 {
	var peak float32
	for _, v := range s {
		if a := dsp.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// AveragePeriod estimates the signal period in samples from rising
// zero crossings, skipping the first skip samples of transient.
// Returns 0 when fewer than two crossings are found.
func AveragePeriod(s []float32, skip int) float64 {
	var crossings []int
	for i := skip + 1; i < len(s); i++ {
		if s[i-1] <= 0 && s[i] > 0 {
			crossings = append(crossings, i)
		}
	}
	if len(crossings) < 2 {
		return 0
	}
	span := crossings[len(crossings)-1] - crossings[0]
	return float64(span) / float64(len(crossings)-1)
}

// DominantFrequency returns the frequency in Hz of the strongest FFT
// bin of the signal, ignoring DC. sampleRate is in Hz.
func DominantFrequency(s []float32, sampleRate float64) float64 {
	n := len(s)
	if n < 16 {
		return 0
	}
	buf := make([]float64, n)
	for i, v := range s {
		// Hann window to keep leakage from smearing the peak.
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		buf[i] = float64(v) * w
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, buf)

	bestBin := 1
	bestMag := 0.0
	for bin := 1; bin < len(coeffs); bin++ {
		mag := math.Hypot(real(coeffs[bin]), imag(coeffs[bin]))
		if mag > bestMag {
			bestMag = mag
			bestBin = bin
		}
	}
	return float64(bestBin) * sampleRate / float64(n)
}

// AssertDominantFrequency verifies the strongest spectral component is
// within tolerance (relative) of the expected frequency in Hz.
func AssertDominantFrequency(t *testing.T, s []float32, sampleRate, expected, tolerance float64) bool {
	t.Helper()
	got := DominantFrequency(s, sampleRate)
	relErr := math.Abs(got-expected) / expected
	return assert.LessOrEqual(t, relErr, tolerance,
		"dominant frequency %f Hz, want %f Hz within %.1f%%", got, expected, tolerance*100)
}

// AssertMonotonicDecay verifies that windowed RMS levels never grow by
// more than riseTolerance between consecutive windows, for decay
// monotonicity checks on unexcited tails.
func AssertMonotonicDecay(t *testing.T, s []float32, window int, riseTolerance float64) bool {
	t.Helper()
	if window <= 0 || len(s) < 2*window {
		return assert.Fail(t, "signal too short for decay check",
			"len=%d window=%d", len(s), window)
	}
	prev := RMS(s[:window])
	for start := window; start+window <= len(s); start += window {
		cur := RMS(s[start : start+window])
		if cur > prev*(1+riseTolerance) {
			return assert.Fail(t, "decay not monotonic",
				"RMS rose from %e to %e at sample %d", prev, cur, start)
		}
		prev = cur
	}
	return true
}

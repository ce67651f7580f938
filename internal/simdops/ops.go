// Package simdops wraps the SIMD kernels the engine's batch paths rely
// on behind a single struct of function pointers. The engine processes
// float32 audio exclusively, so unlike a generic wrapper there is one
// instantiation; the indirection exists so the scalar fallback used in
// tests and on unsupported configurations is a drop-in swap.
package simdops

import (
	"github.com/tphakala/simd/f32"
)

// Ops provides the vectorized slice operations used by the resonator
// batch path and the block render helpers.
type Ops struct {
	// DotProductUnsafe computes the dot product without bounds
	// checking. Use only when slices are guaranteed equal length.
	DotProductUnsafe func(a, b []float32) float32

	// Sum returns the sum of all elements.
	Sum func(a []float32) float32

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s.
	Scale func(dst, a []float32, s float32)

	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], ...
	Interleave2 func(dst, a, b []float32)
}

// vector delegates to the accelerated kernels; scalar is the pure-Go
// reference used when SIMD is disabled and as the oracle in tests.
var (
	vector = Ops{
		DotProductUnsafe: f32.DotProductUnsafe,
		Sum:              f32.Sum,
		Scale:            f32.Scale,
		Interleave2:      f32.Interleave2,
	}
	scalar = Ops{
		DotProductUnsafe: dotProductScalar,
		Sum:              sumScalar,
		Scale:            scaleScalar,
		Interleave2:      interleave2Scalar,
	}
)

// Vector returns the SIMD-accelerated operations.
func Vector() *Ops { return &vector }

// Scalar returns the pure-Go reference operations.
func Scalar() *Ops { return &scalar }

func dotProductScalar(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sumScalar(a []float32) float32 {
	var sum float32
	for _, v := range a {
		sum += v
	}
	return sum
}

func scaleScalar(dst, a []float32, s float32) {
	for i := range a {
		dst[i] = a[i] * s
	}
}

func interleave2Scalar(dst, a, b []float32) {
	for i := range a {
		dst[2*i] = a[i]
		dst[2*i+1] = b[i]
	}
}

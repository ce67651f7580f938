package modalsynth

import (
	"fmt"

	"github.com/tphakala/go-modal-synth/internal/exciter"
	"github.com/tphakala/go-modal-synth/internal/resonator"
)

// SampleRate is the fixed engine sample rate in Hz.
const SampleRate = 48000

// Config holds voice construction options. The zero value selects the
// defaults; pass nil to New for the same effect.
type Config struct {
	// NumModes is the modal resonator partial count, 4 to 32.
	// 0 selects the default of 32.
	NumModes int

	// EnableSIMD selects the vectorized resonator batch path. The
	// scalar path is numerically equivalent; enable this on hosts
	// where the simd kernels are profiled faster.
	EnableSIMD bool

	// SampleBank supplies the strike PCM samples. nil selects the
	// built-in procedurally generated bank.
	SampleBank exciter.SampleBank

	// OutputLevel is the master gain, 0 to 1. 0 selects the default
	// of 0.8.
	OutputLevel float32
}

// DefaultConfig returns the default voice configuration.
func DefaultConfig() *Config {
	return &Config{
		NumModes:    resonator.MaxModes,
		OutputLevel: 0.8,
	}
}

// validate checks the configuration and fills in defaulted fields.
func (c *Config) validate() error {
	if c.NumModes == 0 {
		c.NumModes = resonator.MaxModes
	}
	if c.NumModes < resonator.MinModes || c.NumModes > resonator.MaxModes {
		return fmt.Errorf("modalsynth: NumModes must be %d to %d, got %d",
			resonator.MinModes, resonator.MaxModes, c.NumModes)
	}
	if c.OutputLevel == 0 {
		c.OutputLevel = 0.8
	}
	if c.OutputLevel < 0 || c.OutputLevel > 1 {
		return fmt.Errorf("modalsynth: OutputLevel must be 0 to 1, got %g", c.OutputLevel)
	}
	if c.SampleBank != nil && c.SampleBank.NumSamples() < 1 {
		return fmt.Errorf("modalsynth: SampleBank must hold at least one sample")
	}
	return nil
}

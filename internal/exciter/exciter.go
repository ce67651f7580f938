// Package exciter synthesizes the excitation signal that drives the
// resonator: a mix of bowed friction noise, breath noise routed
// through a reed-model tube waveguide, and five selectable strike
// regimes (PCM one-shot, granular, filtered noise, plectrum and
// particle impulses). One Process call yields one excitation sample;
// Trigger resets only the per-note transient state and never
// allocates.
package exciter

import "github.com/tphakala/go-modal-synth/internal/dsp"

// StrikeMode selects the strike excitation regime.
type StrikeMode int

const (
	// StrikeModeSample plays the triggered PCM one-shot with a
	// decaying filtered-noise tail.
	StrikeModeSample StrikeMode = iota
	// StrikeModeGranular streams a continuous granular texture.
	StrikeModeGranular
	// StrikeModeNoise produces a decaying filtered noise burst.
	StrikeModeNoise
	// StrikeModePlectrum models a guitar pick: a negative pluck
	// impulse, then a delayed positive release impulse.
	StrikeModePlectrum
	// StrikeModeParticles produces a random impulse train, like rain
	// or gravel on the resonating body.
	StrikeModeParticles

	numStrikeModes
)

// Exciter combines the bow, blow and strike excitation sources.
type Exciter struct {
	noise          dsp.Noise
	samplePlayer   SamplePlayer
	granularPlayer GranularPlayer
	tube           Tube
	bowFilter      dsp.SVF
	blowFilter     dsp.SVF
	strikeFilter   dsp.SVF

	bowLevel   float32
	bowTimbre  float32
	blowLevel  float32
	blowTimbre float32

	blowFrequency float32 // tube resonance, tracks voice pitch
	blowEnvelope  float32 // smoothed breath pressure

	strikeLevel  float32
	strikeTimbre float32
	strikeAmp    float32
	strikeMode   StrikeMode

	// Plectrum transient state.
	plectrumDelay   uint32
	plectrumImpulse float32

	// Particles random-walk state.
	particleState float32
	particleRange float32
	particleDelay uint32
}

// New returns an exciter reading strike PCM from the given bank. A nil
// bank falls back to the built-in one.
func New(bank SampleBank) *Exciter {
	if bank == nil {
		bank = DefaultBank()
	}
	e := &Exciter{
		samplePlayer:   NewSamplePlayer(bank),
		granularPlayer: NewGranularPlayer(bank),
		tube:           NewTube(),
	}
	e.Reset()
	return e
}

// Reset restores default levels and clears all filter and transient
// state.
func (e *Exciter) Reset() {
	e.noise = dsp.NewNoise()
	e.bowLevel = 0
	e.blowLevel = 0
	e.strikeLevel = 1
	e.strikeAmp = 0
	e.strikeMode = StrikeModeSample
	e.bowFilter = dsp.NewSVF()
	e.blowFilter = dsp.NewSVF()
	e.strikeFilter = dsp.NewSVF()
	e.SetBowTimbre(0.5)
	e.SetBlowTimbre(0.5)
	e.SetStrikeTimbre(0.5)
	e.tube.Init()
	e.samplePlayer.Reset()
	e.samplePlayer.SetPitch(1)
	e.granularPlayer.Reset()
	e.blowFrequency = 440
	e.blowEnvelope = 0

	e.plectrumDelay = 0
	e.plectrumImpulse = 0

	e.particleState = 0.5
	e.particleRange = 1
	e.particleDelay = 0
}

// SetBow sets the bow excitation level, 0-1.
func (e *Exciter) SetBow(level float32) { e.bowLevel = dsp.Clamp(level, 0, 1) }

// SetBlow sets the blow excitation level, 0-1.
func (e *Exciter) SetBlow(level float32) { e.blowLevel = dsp.Clamp(level, 0, 1) }

// SetStrike sets the strike excitation level, 0-1.
func (e *Exciter) SetStrike(level float32) { e.strikeLevel = dsp.Clamp(level, 0, 1) }

// SetBlowFrequency sets the tube resonance frequency in Hz so the blow
// formant tracks the played pitch.
func (e *Exciter) SetBlowFrequency(freq float32) {
	e.blowFrequency = dsp.Clamp(freq, 20, 8000)
}

// SetStrikeSample selects one of 12 strike variants: each of the six
// PCM samples in dark and bright flavors. Odd indices are bright.
func (e *Exciter) SetStrikeSample(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx > 11 {
		idx = 11
	}
	sampleIdx := idx / 2
	bright := idx&1 == 1

	e.samplePlayer.SetSample(sampleIdx)
	e.granularPlayer.SetSample(sampleIdx)

	baseTimbre := float32(sampleIdx) * 0.1
	timbre := 0.15 + baseTimbre*0.6
	if bright {
		timbre = 0.55 + baseTimbre
	}
	e.SetStrikeTimbre(timbre)
}

// SetStrikeMode selects the strike regime.
func (e *Exciter) SetStrikeMode(mode StrikeMode) {
	if mode < 0 {
		mode = 0
	}
	if mode >= numStrikeModes {
		mode = numStrikeModes - 1
	}
	e.strikeMode = mode
}

// SetBowTimbre shapes the bow noise color, 0-1.
func (e *Exciter) SetBowTimbre(t float32) {
	e.bowTimbre = dsp.Clamp(t, 0, 1)
	e.bowFilter.SetFrequency(200 + e.bowTimbre*4000)
}

// SetBlowTimbre shapes the breath noise band and tube formant, 0-1.
func (e *Exciter) SetBlowTimbre(t float32) {
	e.blowTimbre = dsp.Clamp(t, 0, 1)
	e.blowFilter.SetFrequency(500 + e.blowTimbre*8000)
	e.blowFilter.SetResonance(1 + e.blowTimbre*3)
}

// SetStrikeTimbre shapes the strike brightness and playback pitch, 0-1.
func (e *Exciter) SetStrikeTimbre(t float32) {
	e.strikeTimbre = dsp.Clamp(t, 0, 1)
	e.strikeFilter.SetFrequency(500 + e.strikeTimbre*12000)
	e.granularPlayer.SetPitch(e.strikeTimbre)
	e.samplePlayer.SetPitch(0.8 + e.strikeTimbre*0.4)
}

// SetGranularPosition sets the grain restart point, 0-1.
func (e *Exciter) SetGranularPosition(pos float32) {
	e.granularPlayer.SetPosition(pos)
}

// SetGranularDensity sets the grain restart density, 0-1.
func (e *Exciter) SetGranularDensity(density float32) {
	e.granularPlayer.SetDensity(density)
}

// Trigger arms the per-note transient state for the active strike
// mode. Continuous state (filters, tube, granular phase) is untouched.
func (e *Exciter) Trigger() {
	e.strikeAmp = e.strikeLevel
	if e.strikeMode == StrikeModeSample && e.strikeLevel > 0.01 {
		e.samplePlayer.Trigger()
	}
	e.blowEnvelope = 0

	if e.strikeMode == StrikeModePlectrum {
		// Release delay 64-4160 samples, squared so the timbre knob
		// spends most of its travel on short picks.
		e.plectrumDelay = uint32(4096*e.strikeTimbre*e.strikeTimbre) + 64
		e.plectrumImpulse = -e.strikeLevel * 0.25
	}

	if e.strikeMode == StrikeModeParticles {
		s := e.noise.Next()*0.5 + 0.5
		e.particleState = 1 - 0.6*s*s
		e.particleDelay = 0
		e.particleRange = 1
	}
}

// Process returns one excitation sample.
func (e *Exciter) Process() float32 {
	var out float32

	// Bow: filtered friction noise, saturated.
	if e.bowLevel > 0.001 {
		bowSig := e.bowFilter.ProcessLowPass(e.noise.Next())
		bowSig = dsp.FastTanh(bowSig*2) * e.bowLevel
		out += bowSig * 0.5
	}

	// Blow: breath noise through the tube waveguide.
	if e.blowLevel > 0.001 {
		e.blowEnvelope += (e.blowLevel - e.blowEnvelope) * 0.001

		breathMod := 1 + e.noise.NextFiltered(0.999)*0.3
		blowSig := e.blowFilter.ProcessBandPass(e.noise.Next()) * breathMod

		tubeOut := e.tube.Process(blowSig, e.blowFrequency,
			e.blowEnvelope,
			1-e.blowTimbre*0.5, // damping
			e.blowTimbre)
		out += tubeOut * 0.7
	} else {
		e.blowEnvelope *= 0.999
	}

	if e.strikeLevel > 0.001 {
		out += e.processStrike()
	}

	return out
}

func (e *Exciter) processStrike() float32 {
	var sig float32

	switch e.strikeMode {
	case StrikeModeSample:
		if e.samplePlayer.IsPlaying() {
			sig = e.samplePlayer.Process() * e.strikeLevel
		}
		// Noise tail, blended down while the one-shot still sounds.
		if e.strikeAmp > 0.001 {
			noiseSig := e.strikeFilter.ProcessLowPass(e.noise.Next() * e.strikeAmp)
			blend := float32(1)
			if e.samplePlayer.IsPlaying() {
				blend = 0.3
			}
			sig += noiseSig * blend
			e.strikeAmp *= 0.995
		}

	case StrikeModeGranular:
		sig = e.granularPlayer.Process() * e.strikeLevel * 0.5

	case StrikeModeNoise:
		if e.strikeAmp > 0.001 {
			sig = e.strikeFilter.ProcessLowPass(e.noise.Next() * e.strikeAmp * e.strikeLevel)
			e.strikeAmp *= 0.997
		}

	case StrikeModePlectrum:
		var impulse float32
		if e.plectrumDelay > 0 {
			e.plectrumDelay--
			if e.plectrumDelay == 0 {
				impulse = e.strikeLevel // release impulse
			}
		}
		sig = e.plectrumImpulse + impulse
		e.plectrumImpulse = 0

	case StrikeModeParticles:
		if e.strikeAmp > 0.001 {
			if e.particleDelay == 0 {
				amount := e.noise.Next()*0.5 + 0.5
				amount = 1.05 + 0.5*amount*amount

				// Bounded random walk of the particle energy.
				rand := e.noise.Next()
				if rand > 0.3 {
					e.particleState *= amount
					if e.particleState > e.particleRange+0.25 {
						e.particleState = e.particleRange + 0.25
					}
				} else if rand < -0.4 {
					e.particleState /= amount
					if e.particleState < 0.02 {
						e.particleState = 0.02
					}
				}

				e.particleDelay = uint32(e.particleState * 0.15 * dsp.SampleRate)

				gain := 1 - e.particleRange
				gain *= gain
				sig = e.particleState * e.strikeLevel * (1 - gain)

				// Particles thin out over time; dark timbres faster.
				decayFactor := 1 - e.strikeTimbre
				e.particleRange *= 1 - decayFactor*decayFactor*0.5
			} else {
				e.particleDelay--
			}
			e.strikeAmp *= 0.9999
		}
	}

	return sig
}

// BowStrength returns the bow level used by the resonator's banded
// waveguide sustain.
func (e *Exciter) BowStrength() float32 { return e.bowLevel }

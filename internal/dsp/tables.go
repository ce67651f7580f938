package dsp

// Immutable lookup tables. The stiffness and Q curves were tuned by
// ear; treat the values as fixed constants rather than something to
// re-derive.

// midiFreqTable holds 440*2^((n-69)/12) for MIDI notes 0-127.
var midiFreqTable = [128]float32{
	8.1757989156, 8.6619572180, 9.1770239974, 9.7227182413,
	10.3008611535, 10.9133822323, 11.5623257097, 12.2498573744,
	12.9782717994, 13.7500000000, 14.5676175474, 15.4338531643,
	16.3515978313, 17.3239144361, 18.3540479948, 19.4454364826,
	20.6017223071, 21.8267644646, 23.1246514195, 24.4997147489,
	25.9565435987, 27.5000000000, 29.1352350949, 30.8677063285,
	32.7031956626, 34.6478288721, 36.7080959897, 38.8908729653,
	41.2034446141, 43.6535289291, 46.2493028390, 48.9994294977,
	51.9130871975, 55.0000000000, 58.2704701898, 61.7354126570,
	65.4063913251, 69.2956577442, 73.4161919794, 77.7817459305,
	82.4068892282, 87.3070578583, 92.4986056779, 97.9988589954,
	103.8261743950, 110.0000000000, 116.5409403795, 123.4708253140,
	130.8127826503, 138.5913154884, 146.8323839587, 155.5634918610,
	164.8137784564, 174.6141157165, 184.9972113558, 195.9977179909,
	207.6523487900, 220.0000000000, 233.0818807590, 246.9416506281,
	261.6255653006, 277.1826309769, 293.6647679174, 311.1269837221,
	329.6275569129, 349.2282314330, 369.9944227116, 391.9954359817,
	415.3046975799, 440.0000000000, 466.1637615181, 493.8833012561,
	523.2511306012, 554.3652619537, 587.3295358348, 622.2539674442,
	659.2551138257, 698.4564628660, 739.9888454233, 783.9908719635,
	830.6093951599, 880.0000000000, 932.3275230362, 987.7666025122,
	1046.5022612024, 1108.7305239075, 1174.6590716696, 1244.5079348883,
	1318.5102276515, 1396.9129257320, 1479.9776908465, 1567.9817439270,
	1661.2187903198, 1760.0000000000, 1864.6550460724, 1975.5332050245,
	2093.0045224048, 2217.4610478150, 2349.3181433393, 2489.0158697766,
	2637.0204553030, 2793.8258514640, 2959.9553816931, 3135.9634878540,
	3322.4375806396, 3520.0000000000, 3729.3100921447, 3951.0664100490,
	4186.0090448096, 4434.9220956300, 4698.6362866785, 4978.0317395533,
	5274.0409106059, 5587.6517029281, 5919.9107633862, 6271.9269757080,
	6644.8751612791, 7040.0000000000, 7458.6201842894, 7902.1328200980,
	8372.0180896192, 8869.8441912599, 9397.2725733570, 9956.0634791066,
	10548.0818212118, 11175.3034058561, 11839.8215267723, 12543.8539514160,
}

// semitoneRatioMinus1 is 2^(1/12) - 1, used for fractional note
// interpolation between adjacent table entries (~0.3 cent accuracy).
const semitoneRatioMinus1 = 0.05946309435929526

// MIDIToFrequency converts a (possibly fractional) MIDI note number to
// frequency in Hz using the lookup table with linear interpolation.
func MIDIToFrequency(note float32) float32 {
	note = Clamp(note, 0, 127)
	idx := int(note)
	frac := note - float32(idx)
	if idx >= 127 {
		return midiFreqTable[127]
	}
	return midiFreqTable[idx] * (1 + frac*semitoneRatioMinus1)
}

// SemitonesToRatio converts a semitone offset in [-64, +63] to a
// frequency ratio, reusing the MIDI table with note 64 as unity.
func SemitonesToRatio(semitones float32) float32 {
	note := Clamp(64+semitones, 0, 127)
	idx := int(note)
	frac := note - float32(idx)
	if idx >= 127 {
		return midiFreqTable[127] / midiFreqTable[64]
	}
	freq := midiFreqTable[idx] * (1 + frac*semitoneRatioMinus1)
	return freq / midiFreqTable[64]
}

// stiffnessTable maps geometry [0,1] to the per-partial stiffness used
// in the inharmonic series calculation. Negative values converge the
// partials (membranes, plates), positive values stretch them (bars,
// bells). 64 intervals plus one guard entry for interpolation.
var stiffnessTable = [65]float32{
	// 0.00-0.25: strong negative stiffness, converging partials.
	-0.50, -0.48, -0.46, -0.44, -0.42, -0.40, -0.38, -0.36,
	-0.34, -0.32, -0.30, -0.28, -0.26, -0.24, -0.22, -0.20,
	// 0.25-0.50: mild negative through zero, near-harmonic.
	-0.18, -0.16, -0.14, -0.12, -0.10, -0.08, -0.06, -0.04,
	-0.03, -0.02, -0.01, -0.005, 0.0, 0.005, 0.01, 0.02,
	// 0.50-0.75: positive stiffness, stiff string to bar.
	0.03, 0.04, 0.05, 0.06, 0.08, 0.10, 0.12, 0.14,
	0.16, 0.18, 0.20, 0.22, 0.25, 0.28, 0.31, 0.34,
	// 0.75-1.00: strongly inharmonic, bell-like.
	0.38, 0.42, 0.46, 0.50, 0.55, 0.60, 0.66, 0.72,
	0.78, 0.85, 0.92, 1.00, 1.10, 1.20, 1.32, 1.45,
	1.60,
}

// Stiffness interpolates the stiffness table at the given geometry.
func Stiffness(geometry float32) float32 {
	geometry = Clamp(geometry, 0, 1)
	idxF := geometry * 64
	idx := int(idxF)
	frac := idxF - float32(idx)
	if idx >= 64 {
		idx, frac = 63, 1
	}
	return stiffnessTable[idx]*(1-frac) + stiffnessTable[idx+1]*frac
}

// tanPiTable holds tan(pi*i/256) for i = 0..127 plus a guard entry,
// covering normalized frequencies 0 to 0.5 at 1/256 resolution. The
// final entry is clamped: the resonator never asks above f = 0.49.
var tanPiTable = [129]float32{
	0.000000, 0.012272, 0.024549, 0.036832, 0.049127, 0.061436, 0.073764, 0.086115,
	0.098491, 0.110898, 0.123338, 0.135816, 0.148336, 0.160901, 0.173516, 0.186185,
	0.198912, 0.211702, 0.224558, 0.237484, 0.250487, 0.263570, 0.276737, 0.289995,
	0.303347, 0.316799, 0.330355, 0.344023, 0.357806, 0.371710, 0.385743, 0.399908,
	0.414214, 0.428665, 0.443270, 0.458034, 0.472965, 0.488070, 0.503358, 0.518835,
	0.534511, 0.550394, 0.566493, 0.582817, 0.599377, 0.616182, 0.633243, 0.650571,
	0.668179, 0.686077, 0.704279, 0.722799, 0.741651, 0.760848, 0.780408, 0.800345,
	0.820679, 0.841426, 0.862606, 0.884239, 0.906347, 0.928952, 0.952079, 0.975753,
	1.000000, 1.024850, 1.050333, 1.076481, 1.103330, 1.130916, 1.159278, 1.188459,
	1.218504, 1.249460, 1.281382, 1.314323, 1.348344, 1.383510, 1.419891, 1.457562,
	1.496606, 1.537110, 1.579173, 1.622897, 1.668399, 1.715803, 1.765247, 1.816880,
	1.870868, 1.927394, 1.986659, 2.048886, 2.114322, 2.183246, 2.255964, 2.332823,
	2.414214, 2.500574, 2.592403, 2.690266, 2.794813, 2.906786, 3.027043, 3.156580,
	3.296558, 3.448340, 3.613536, 3.794063, 3.992224, 4.210802, 4.453202, 4.723629,
	5.027339, 5.370990, 5.763142, 6.214988, 6.741452, 7.362888, 8.107786, 9.017302,
	10.153170, 11.612399, 13.556669, 16.277008, 20.355468, 27.150171, 40.735484, 81.483240,
	100.000000,
}

// TanPi returns tan(pi*f) for normalized frequency f via the lookup
// table with linear interpolation. f is clamped to [0, 0.49].
func TanPi(f float32) float32 {
	if f < 0 {
		f = 0
	}
	if f >= 0.49 {
		f = 0.49
	}
	idxF := f * 256
	idx := int(idxF)
	frac := idxF - float32(idx)
	return tanPiTable[idx]*(1-frac) + tanPiTable[idx+1]*frac
}

// qDecadesTable maps damping [0,1] to Q over four logarithmic decades,
// 5000 down to 0.5. Low damping means high Q and long sustain.
var qDecadesTable = [65]float32{
	5000.0, 4200.0, 3500.0, 2900.0, 2400.0, 2000.0, 1700.0, 1400.0,
	1200.0, 1000.0, 850.0, 720.0, 600.0, 500.0, 420.0, 350.0,
	290.0, 240.0, 200.0, 170.0, 140.0, 120.0, 100.0, 85.0,
	72.0, 60.0, 50.0, 42.0, 35.0, 29.0, 24.0, 20.0,
	17.0, 14.0, 12.0, 10.0, 8.5, 7.2, 6.0, 5.0,
	4.2, 3.5, 2.9, 2.4, 2.0, 1.7, 1.4, 1.2,
	1.0, 0.85, 0.72, 0.60, 0.50, 0.50, 0.50, 0.50,
	0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50,
	0.50,
}

// QFromDamping interpolates the 4-decade Q table at the given damping.
func QFromDamping(damping float32) float32 {
	damping = Clamp(damping, 0, 1)
	idxF := damping * 64
	idx := int(idxF)
	frac := idxF - float32(idx)
	if idx >= 64 {
		idx, frac = 63, 1
	}
	return qDecadesTable[idx]*(1-frac) + qDecadesTable[idx+1]*frac
}

// velocityGainCoarse maps MIDI velocity to an exponential gain curve,
// 32 intervals plus a guard entry.
var velocityGainCoarse = [33]float32{
	0.000, 0.040, 0.063, 0.083, 0.100, 0.116, 0.131, 0.145,
	0.158, 0.170, 0.182, 0.194, 0.205, 0.216, 0.226, 0.236,
	0.246, 0.270, 0.293, 0.316, 0.339, 0.361, 0.383, 0.405,
	0.427, 0.500, 0.570, 0.640, 0.707, 0.775, 0.841, 0.908,
	1.000,
}

// velocityGainFine is the subtle 0.5-1.5 accent curve.
var velocityGainFine = [33]float32{
	0.500, 0.520, 0.540, 0.560, 0.580, 0.600, 0.620, 0.640,
	0.660, 0.680, 0.700, 0.720, 0.740, 0.760, 0.780, 0.800,
	0.820, 0.860, 0.900, 0.940, 0.980, 1.020, 1.060, 1.100,
	1.140, 1.200, 1.260, 1.320, 1.380, 1.440, 1.480, 1.490,
	1.500,
}

func velocityLookup(table *[33]float32, velocity int) float32 {
	if velocity < 0 {
		velocity = 0
	}
	if velocity > 127 {
		velocity = 127
	}
	idxF := float32(velocity) * (32.0 / 127.0)
	idx := int(idxF)
	frac := idxF - float32(idx)
	if idx >= 32 {
		idx, frac = 31, 1
	}
	return table[idx]*(1-frac) + table[idx+1]*frac
}

// VelocityGain maps MIDI velocity 0-127 to gain 0-1 with an
// exponential curve for musical dynamics.
func VelocityGain(velocity int) float32 {
	return velocityLookup(&velocityGainCoarse, velocity)
}

// VelocityAccent maps MIDI velocity 0-127 to a 0.5-1.5 accent factor.
func VelocityAccent(velocity int) float32 {
	return velocityLookup(&velocityGainFine, velocity)
}

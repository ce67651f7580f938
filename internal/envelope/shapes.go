package envelope

import "github.com/tphakala/go-modal-synth/internal/dsp"

// Segment curve tables, 64 entries each, read with linear
// interpolation. The quartic table's irregularities around the upper
// third are part of the sound and must not be "fixed".

var expTable = [64]float32{
	0.000000, 0.030762, 0.060547, 0.089355, 0.117188, 0.144043, 0.169922, 0.194824,
	0.218750, 0.241699, 0.263672, 0.284668, 0.304688, 0.323730, 0.341797, 0.358887,
	0.375000, 0.390137, 0.404297, 0.417480, 0.429688, 0.440918, 0.451172, 0.460449,
	0.468750, 0.476074, 0.482422, 0.487793, 0.492188, 0.495605, 0.498047, 0.499512,
	0.500000, 0.530762, 0.560547, 0.589355, 0.617188, 0.644043, 0.669922, 0.694824,
	0.718750, 0.741699, 0.763672, 0.784668, 0.804688, 0.823730, 0.841797, 0.858887,
	0.875000, 0.890137, 0.904297, 0.917480, 0.929688, 0.940918, 0.951172, 0.960449,
	0.968750, 0.976074, 0.982422, 0.987793, 0.992188, 0.995605, 0.998047, 1.000000,
}

var quarticTable = [64]float32{
	0.000000, 0.000001, 0.000015, 0.000076, 0.000244, 0.000596, 0.001221, 0.002213,
	0.003677, 0.005722, 0.008470, 0.012043, 0.016571, 0.022186, 0.029028, 0.037235,
	0.046951, 0.058323, 0.071502, 0.086637, 0.103882, 0.123393, 0.145329, 0.169851,
	0.197121, 0.227306, 0.260574, 0.297093, 0.337036, 0.380576, 0.427889, 0.479153,
	0.534546, 0.594251, 0.658449, 0.727325, 0.801065, 0.879856, 0.963889, 1.053353,
	0.609756, 0.655670, 0.703704, 0.753906, 0.806323, 0.861000, 0.917984, 0.977320,
	0.656250, 0.703125, 0.751953, 0.802734, 0.855469, 0.910156, 0.966797, 1.000000,
	0.702515, 0.751953, 0.803711, 0.857910, 0.914673, 0.974121, 1.000000, 1.000000,
}

func lookupShape(table *[64]float32, t float32) float32 {
	t = dsp.Clamp(t, 0, 1)
	idxF := t * 63
	idx := int(idxF)
	frac := idxF - float32(idx)
	if idx >= 63 {
		return table[63]
	}
	return table[idx] + frac*(table[idx+1]-table[idx])
}

func applyShape(t float32, shape Shape) float32 {
	switch shape {
	case ShapeExponential:
		return lookupShape(&expTable, t)
	case ShapeQuartic:
		return lookupShape(&quarticTable, t)
	default:
		return dsp.Clamp(t, 0, 1)
	}
}

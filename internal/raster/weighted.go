package raster

import "math"

// WeightedCombine computes dst = dst*dstWeight + src*srcWeight + bias over
// the active regions of both rasters, rounding and saturating to [0, 255].
//
// The two regions must have the same size. Channels 0..min(dst, src)-1 are
// combined; any further destination channels keep their values.
func WeightedCombine(dst *Raster, dstWeight float64, src *Raster, srcWeight, bias float64) error {
	dr := dst.Region()
	sr := src.Region()
	if dr.Size() != sr.Size() {
		return ErrSizeMismatch
	}

	n := min(dst.channels, src.channels)
	w, h := dr.Dx(), dr.Dy()

	for y := range h {
		dOff := (dr.Min.Y+y)*dst.stride + dr.Min.X*dst.channels
		sOff := (sr.Min.Y+y)*src.stride + sr.Min.X*src.channels
		for range w {
			for c := range n {
				v := float64(dst.data[dOff+c])*dstWeight + float64(src.data[sOff+c])*srcWeight + bias
				dst.data[dOff+c] = saturate(v)
			}
			dOff += dst.channels
			sOff += src.channels
		}
	}
	return nil
}

// saturate rounds v to the nearest integer and clamps it to a byte.
func saturate(v float64) byte {
	v = math.Round(v)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v)
	}
}

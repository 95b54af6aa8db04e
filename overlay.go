package imgblend

import (
	"image"

	"github.com/gogpu/imgblend/internal/raster"
)

// opacitySource yields the opacity in [0, 1] of a foreground-local pixel.
type opacitySource interface {
	opacity(fx, fy int) float64
}

// maskOpacity reads opacity from a single-channel mask. Pixels outside the
// mask are fully transparent.
type maskOpacity struct {
	m *raster.Raster
}

func (s maskOpacity) opacity(fx, fy int) float64 {
	off := s.m.PixelOffset(fx, fy)
	if off < 0 {
		return 0
	}
	return float64(s.m.Data()[off]) / 255
}

// alphaOpacity reads opacity from channel 3 of a four-channel foreground.
type alphaOpacity struct {
	fg *raster.Raster
}

func (s alphaOpacity) opacity(fx, fy int) float64 {
	off := s.fg.PixelOffset(fx, fy)
	if off < 0 || !s.fg.HasAlpha() {
		return 0
	}
	return float64(s.fg.Data()[off+3]) / 255
}

// newOpacitySource returns the mask source when mask is non-nil, otherwise
// the foreground alpha source.
func newOpacitySource(fg, mask *raster.Raster) opacitySource {
	if mask != nil {
		return maskOpacity{m: mask}
	}
	return alphaOpacity{fg: fg}
}

// blendPixel writes dst[c] = round(bg[c]*(1-a) + fg[c]*a) for every c.
// An opacity of 0 writes nothing: dst already holds the background.
func blendPixel(dst, bg, fg []byte, a float64) {
	if a <= 0 {
		return
	}
	inv := 1 - a
	for c := range dst {
		dst[c] = byte(float64(bg[c])*inv + float64(fg[c])*a + 0.5)
	}
}

// offCanvas reports whether a foreground of size fg placed at origin misses
// the background entirely. It compares without forming origin+fg, which
// could overflow for extreme origins.
func offCanvas(bg, fg *raster.Raster, origin image.Point) bool {
	return origin.X <= -fg.Width() || origin.Y <= -fg.Height() ||
		origin.X >= bg.Width() || origin.Y >= bg.Height()
}

// overlay returns a clone of bg with fg blended in at origin using per-pixel
// opacity from src.
//
// The walk starts at origin clamped to zero and stops a row as soon as the
// foreground's right edge is passed, and the whole walk once its bottom edge
// is passed. A negative origin therefore crops the foreground's top/left.
func overlay(bg, fg *raster.Raster, src opacitySource, origin image.Point) *raster.Raster {
	out := bg.Clone()
	if offCanvas(bg, fg, origin) {
		return out
	}

	n := min(bg.Channels(), fg.Channels())
	bgData, fgData, outData := bg.Data(), fg.Data(), out.Data()
	bgCh, fgCh := bg.Channels(), fg.Channels()

	for y := max(0, origin.Y); y < bg.Height(); y++ {
		fy := y - origin.Y
		if fy >= fg.Height() {
			break
		}
		for x := max(0, origin.X); x < bg.Width(); x++ {
			fx := x - origin.X
			if fx >= fg.Width() {
				break
			}

			a := src.opacity(fx, fy)
			if a <= 0 {
				continue
			}

			bo := y*bg.Stride() + x*bgCh
			oo := y*out.Stride() + x*bgCh
			fo := fy*fg.Stride() + fx*fgCh
			blendPixel(outData[oo:oo+n], bgData[bo:bo+n], fgData[fo:fo+n], a)
		}
	}
	return out
}

// addWeighted returns a clone of bg with fg*alpha added over the rectangle
// of fg's size at origin. The rectangle is clipped to bg, and fg is clipped
// by the same amount, so neither raster is read outside its bounds.
func addWeighted(bg, fg *raster.Raster, alpha float64, origin image.Point) (*raster.Raster, error) {
	out := bg.Clone()
	if offCanvas(bg, fg, origin) {
		return out, nil
	}

	dst := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(fg.Width(), fg.Height()))}
	out.SetRegion(dst)
	fg.SetRegion(out.Region().Sub(origin))
	defer func() {
		out.ClearRegion()
		fg.ClearRegion()
	}()

	if out.Region().Empty() {
		return out, nil
	}
	if err := raster.WeightedCombine(out, 1.0, fg, alpha, 0); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

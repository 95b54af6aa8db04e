package imgblend

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/imgblend/internal/raster"
)

func benchRasters(b *testing.B, fgChannels int) (*raster.Raster, *raster.Raster) {
	b.Helper()
	bg, _ := raster.New(1024, 768, 3)
	bg.Fill(200, 100, 50)
	fg, _ := raster.New(256, 256, fgChannels)
	fg.Fill(10, 20, 30, 128)
	return bg, fg
}

func BenchmarkOverlay_Alpha(b *testing.B) {
	bg, fg := benchRasters(b, 4)
	src := alphaOpacity{fg: fg}
	b.ReportAllocs()
	for b.Loop() {
		overlay(bg, fg, src, image.Pt(100, 100)).Release()
	}
}

func BenchmarkAddWeighted(b *testing.B) {
	bg, fg := benchRasters(b, 3)
	b.ReportAllocs()
	for b.Loop() {
		out, err := addWeighted(bg, fg, 0.5, image.Pt(100, 100))
		if err != nil {
			b.Fatal(err)
		}
		out.Release()
	}
}

func BenchmarkComposite_PNG(b *testing.B) {
	bg := pngBytes(b, solid(256, 256, color.NRGBA{255, 0, 0, 255}))
	fg := pngBytes(b, solid(64, 64, color.NRGBA{0, 0, 255, 128}))
	p := Params{Format: "png", Region: Rect{X: 32, Y: 32}}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Composite(bg, fg, nil, p); err != nil {
			b.Fatal(err)
		}
	}
}

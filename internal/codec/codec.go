// Package codec decodes encoded images into rasters and encodes rasters back.
//
// Decoding and encoding go through github.com/disintegration/imaging, which
// registers the BMP and TIFF decoders from golang.org/x/image; the WebP
// decoder is registered here.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/imgblend/internal/raster"
)

// Codec errors.
var (
	// ErrEmptyData is returned when an input buffer is empty.
	ErrEmptyData = errors.New("codec: empty data")

	// ErrDecode is returned when an input buffer is not a decodable image.
	ErrDecode = errors.New("codec: decode failed")

	// ErrUnsupportedFormat is returned for an unknown output format identifier.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrEncode is returned when the encoder fails.
	ErrEncode = errors.New("codec: encode failed")
)

// Mode selects the channel layout of a decoded raster.
type Mode uint8

const (
	// ModeUnchanged keeps an alpha channel when the source has one
	// (4 channels), otherwise yields RGB (3 channels).
	ModeUnchanged Mode = iota

	// ModeGrayscale yields a single luminance channel.
	ModeGrayscale

	// ModeColor yields RGB (3 channels), dropping any alpha.
	ModeColor
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeUnchanged:
		return "unchanged"
	case ModeGrayscale:
		return "grayscale"
	case ModeColor:
		return "color"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Decode decodes an encoded image into a raster laid out according to mode.
// The returned raster is drawn from pool; pass nil for the default pool.
func Decode(data []byte, mode Mode, pool *raster.Pool) (*raster.Raster, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	channels := 3
	switch mode {
	case ModeGrayscale:
		channels = 1
	case ModeUnchanged:
		if hasAlpha(img) {
			channels = 4
		}
	}

	b := img.Bounds()
	var r *raster.Raster
	if pool != nil {
		r = pool.Get(b.Dx(), b.Dy(), channels)
	} else {
		r = raster.Get(b.Dx(), b.Dy(), channels)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: empty image %v", ErrDecode, b)
	}

	fill(r, img)
	return r, nil
}

// hasAlpha reports whether img carries meaningful alpha.
func hasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.Alpha, *image.Alpha16:
		return true
	case *image.Paletted:
		for _, c := range src.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}

// fill copies img into r, converting to the raster's channel layout.
func fill(r *raster.Raster, img image.Image) {
	if src := view(img); src != nil {
		defer src.Release()
		fillFromView(r, src)
		return
	}

	b := img.Bounds()
	ch := r.Channels()
	for y := range r.Height() {
		row := r.RowBytes(y)
		for x := range r.Width() {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			store(row[x*ch:x*ch+ch], c)
		}
	}
}

// view wraps the pixels of a Gray or NRGBA image without copying.
// It returns nil for other image types.
func view(img image.Image) *raster.Raster {
	b := img.Bounds()
	var (
		v   *raster.Raster
		err error
	)
	switch src := img.(type) {
	case *image.Gray:
		v, err = raster.FromRaw(src.Pix, b.Dx(), b.Dy(), 1, src.Stride)
	case *image.NRGBA:
		v, err = raster.FromRaw(src.Pix, b.Dx(), b.Dy(), 4, src.Stride)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return v
}

func fillFromView(dst, src *raster.Raster) {
	dc, sc := dst.Channels(), src.Channels()
	for y := range dst.Height() {
		d, s := dst.RowBytes(y), src.RowBytes(y)
		if dc == sc {
			copy(d, s)
			continue
		}
		for x := range dst.Width() {
			p := s[x*sc : x*sc+sc]
			c := color.NRGBA{R: p[0], G: p[0], B: p[0], A: 0xff}
			if sc == 4 {
				c = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
			}
			store(d[x*dc:x*dc+dc], c)
		}
	}
}

// store writes straight color c into a pixel of 1, 3 or 4 samples.
// Alpha never darkens the luminance of a one-sample pixel.
func store(px []byte, c color.NRGBA) {
	switch len(px) {
	case 1:
		px[0] = luma(c)
	case 3:
		px[0], px[1], px[2] = c.R, c.G, c.B
	default:
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
	}
}

// luma applies color.GrayModel's weights to the straight color samples.
func luma(c color.NRGBA) uint8 {
	r := uint32(c.R) * 0x101
	g := uint32(c.G) * 0x101
	b := uint32(c.B) * 0x101
	return uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 24)
}

// Encode encodes r into the format named by format ("jpg", "jpeg", "png",
// "gif", "tif", "tiff", "bmp"; case-insensitive, leading dot allowed).
// Quality is clamped to [1, 100] and only affects JPEG.
func Encode(format string, r *raster.Raster, quality int) ([]byte, error) {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	quality = max(1, min(quality, 100))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, ToImage(r), f, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, f, err)
	}
	return buf.Bytes(), nil
}

// ToImage converts r into a standard library image without sharing memory.
// One-channel rasters become *image.Gray; others become *image.NRGBA.
func ToImage(r *raster.Raster) image.Image {
	rect := image.Rect(0, 0, r.Width(), r.Height())

	if r.Channels() == 1 {
		g := image.NewGray(rect)
		for y := range r.Height() {
			copy(g.Pix[y*g.Stride:], r.RowBytes(y))
		}
		return g
	}

	n := image.NewNRGBA(rect)
	for y := range r.Height() {
		row := r.RowBytes(y)
		dst := n.Pix[y*n.Stride:]
		if r.HasAlpha() {
			copy(dst, row)
			continue
		}
		for x := range r.Width() {
			copy(dst[x*4:x*4+3], row[x*3:x*3+3])
			dst[x*4+3] = 255
		}
	}
	return n
}

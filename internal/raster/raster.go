// Package raster provides the decoded pixel buffer used by imgblend.
//
// A Raster stores 8-bit samples in a contiguous byte slice addressed as
// row*stride + col*channels + channel. One type carries both the raw bytes
// and the channel/stride metadata, so an input is decoded once and shared by
// every compositing path.
package raster

import (
	"errors"
	"image"
)

// Common errors for raster operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrInvalidChannels is returned when the channel count is not 1, 3 or 4.
	ErrInvalidChannels = errors.New("raster: invalid channel count")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("raster: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("raster: data buffer too small")

	// ErrSizeMismatch is returned when two regions do not have the same size.
	ErrSizeMismatch = errors.New("raster: region sizes differ")
)

// Raster is a decoded image with channel metadata.
//
// Samples are straight (non-premultiplied). Channel order is R, G, B, A for
// color rasters and a single luminance sample for grayscale ones.
//
// Thread safety: a Raster is owned by one compositing call and must not be
// shared across goroutines while it is being written.
type Raster struct {
	data     []byte
	width    int
	height   int
	stride   int
	channels int

	region    image.Rectangle
	hasRegion bool

	pool     *Pool
	borrowed bool
	released bool
}

func validChannels(channels int) bool {
	return channels == 1 || channels == 3 || channels == 4
}

// New creates a zeroed raster with a tightly packed stride.
func New(width, height, channels int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !validChannels(channels) {
		return nil, ErrInvalidChannels
	}

	stride := width * channels
	return &Raster{
		data:     make([]byte, stride*height),
		width:    width,
		height:   height,
		stride:   stride,
		channels: channels,
	}, nil
}

// FromRaw wraps existing data without copying.
// The caller keeps ownership of data; Release never recycles it.
// Stride must be at least width*channels.
func FromRaw(data []byte, width, height, channels, stride int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !validChannels(channels) {
		return nil, ErrInvalidChannels
	}
	if stride < width*channels {
		return nil, ErrInvalidStride
	}

	required := stride*(height-1) + width*channels
	if len(data) < required {
		return nil, ErrDataTooSmall
	}

	return &Raster{
		data:     data,
		width:    width,
		height:   height,
		stride:   stride,
		channels: channels,
		borrowed: true,
	}, nil
}

// Clone creates a deep copy of the raster. The copy has no region
// restriction and is drawn from the same pool as the original, if any.
func (r *Raster) Clone() *Raster {
	p := r.pool
	if p == nil {
		p = defaultPool
	}
	return CloneInto(p, r)
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.width }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.height }

// Channels returns the number of samples per pixel.
func (r *Raster) Channels() int { return r.channels }

// Stride returns the number of bytes per row.
func (r *Raster) Stride() int { return r.stride }

// HasAlpha reports whether the raster carries an alpha channel at index 3.
func (r *Raster) HasAlpha() bool { return r.channels >= 4 }

// Bounds returns the full raster rectangle anchored at the origin.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// Data returns the raw sample slice.
func (r *Raster) Data() []byte { return r.data }

// RowBytes returns the samples of row y, or nil if y is out of bounds.
func (r *Raster) RowBytes(y int) []byte {
	if y < 0 || y >= r.height {
		return nil
	}
	start := y * r.stride
	return r.data[start : start+r.width*r.channels]
}

// PixelOffset returns the byte offset of pixel (x, y), or -1 if out of bounds.
func (r *Raster) PixelOffset(x, y int) int {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return -1
	}
	return y*r.stride + x*r.channels
}

// Pixel returns the samples of pixel (x, y), or nil if out of bounds.
func (r *Raster) Pixel(x, y int) []byte {
	off := r.PixelOffset(x, y)
	if off < 0 {
		return nil
	}
	return r.data[off : off+r.channels]
}

// Fill sets every pixel to the given samples. Extra samples are ignored;
// missing ones leave the channel untouched.
func (r *Raster) Fill(samples ...byte) {
	n := min(len(samples), r.channels)
	for y := range r.height {
		row := r.RowBytes(y)
		for x := 0; x < len(row); x += r.channels {
			copy(row[x:x+n], samples[:n])
		}
	}
}

// SetRegion restricts region-aware operations to rect clipped to the raster
// bounds. A rect that misses the raster leaves an empty region.
func (r *Raster) SetRegion(rect image.Rectangle) {
	r.region = rect.Intersect(r.Bounds())
	r.hasRegion = true
}

// ClearRegion lifts any restriction set by SetRegion.
func (r *Raster) ClearRegion() {
	r.region = image.Rectangle{}
	r.hasRegion = false
}

// Region returns the active region, or the full bounds when unrestricted.
func (r *Raster) Region() image.Rectangle {
	if !r.hasRegion {
		return r.Bounds()
	}
	return r.region
}

// Release returns an owned buffer to its pool. Only the first call has any
// effect; borrowed buffers are never recycled.
func (r *Raster) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	if r.borrowed || r.pool == nil {
		return
	}
	r.pool.put(r)
}

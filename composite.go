package imgblend

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/imgblend/internal/codec"
	"github.com/gogpu/imgblend/internal/raster"
)

// Defaults used by DefaultParams.
const (
	DefaultFormat  = "jpeg"
	DefaultQuality = 80
	DefaultAlpha   = 0.5
)

// Buffer pool defaults for New.
const (
	DefaultPoolSize  = 8
	DefaultPoolBytes = 64 << 20
)

// Params configures one Composite call.
type Params struct {
	// Quality is the encoder quality in [1, 100]; only lossy formats use it.
	// Zero means DefaultQuality.
	Quality int

	// Format names the output format: jpg, jpeg, png, gif, tif, tiff or bmp.
	Format string

	// Alpha scales the foreground on the weighted path. The overlay path
	// ignores it.
	Alpha float64

	// Region places the foreground. With AnchorNone its X and Y are the
	// foreground's top-left corner in background coordinates.
	Region Rect

	// Anchor, when not AnchorNone, derives the origin from the background
	// edges instead of Region.X and Region.Y.
	Anchor Anchor
}

// DefaultParams returns JPEG output at quality 80 with alpha 0.5, placed at
// the origin.
func DefaultParams() Params {
	return Params{
		Quality: DefaultQuality,
		Format:  DefaultFormat,
		Alpha:   DefaultAlpha,
	}
}

// Option configures a Compositor.
type Option func(*compositorOptions)

type compositorOptions struct {
	poolSize    int
	poolBytes   int
	lenientMask bool
	fitRegion   bool

	pool *raster.Pool
}

// WithPoolSize bounds how many raster buffers of each shape the Compositor
// keeps for reuse between calls. Zero means unlimited. The default is
// DefaultPoolSize.
func WithPoolSize(maxPerShape int) Option {
	return func(o *compositorOptions) {
		o.poolSize = maxPerShape
	}
}

// WithPoolBytes bounds the total size of the raster buffers the Compositor
// keeps for reuse. When a released buffer would exceed it, the buffers of
// the least recently used shapes are dropped. Zero means unlimited. The
// default is DefaultPoolBytes.
func WithPoolBytes(maxBytes int) Option {
	return func(o *compositorOptions) {
		o.poolBytes = maxBytes
	}
}

// WithLenientMask controls what happens when a supplied mask cannot be
// decoded. By default Composite fails with ErrDecode; when lenient, the
// call proceeds as if no mask had been given and logs a warning.
func WithLenientMask(lenient bool) Option {
	return func(o *compositorOptions) {
		o.lenientMask = lenient
	}
}

// WithFitRegion enables FitRegion on every call: a placement that would push
// the foreground past the background's right or bottom edge is reset to
// zero on that axis.
func WithFitRegion(fit bool) Option {
	return func(o *compositorOptions) {
		o.fitRegion = fit
	}
}

// Compositor composites a foreground image onto a background image.
//
// A Compositor holds no per-call state and is safe for concurrent use; each
// call owns its rasters exclusively.
type Compositor struct {
	opts compositorOptions
}

// New creates a Compositor.
func New(opts ...Option) *Compositor {
	o := compositorOptions{
		poolSize:  DefaultPoolSize,
		poolBytes: DefaultPoolBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.pool = raster.NewPool(o.poolSize, o.poolBytes)
	return &Compositor{opts: o}
}

var defaultCompositor = New()

// Composite composites foreground onto background using a default
// Compositor. See Compositor.Composite.
func Composite(background, foreground, mask []byte, p Params) ([]byte, error) {
	return defaultCompositor.Composite(background, foreground, mask, p)
}

// Composite decodes background, foreground and the optional mask, blends
// the foreground into the background at p.Region, and encodes the result
// as p.Format. A nil or empty mask means no mask.
//
// On failure the result is nil and the error matches one of ErrEmptyInput,
// ErrDecode, ErrUnsupportedFormat or ErrEncode.
func (c *Compositor) Composite(background, foreground, mask []byte, p Params) ([]byte, error) {
	if len(background) == 0 || len(foreground) == 0 {
		return nil, ErrEmptyInput
	}

	bg, err := codec.Decode(background, codec.ModeUnchanged, c.opts.pool)
	if err != nil {
		return nil, fmt.Errorf("imgblend: background: %w", err)
	}
	defer bg.Release()

	fg, err := codec.Decode(foreground, codec.ModeUnchanged, c.opts.pool)
	if err != nil {
		return nil, fmt.Errorf("imgblend: foreground: %w", err)
	}
	defer fg.Release()

	m, err := c.decodeMask(mask)
	if err != nil {
		return nil, err
	}
	if m != nil {
		defer m.Release()
	}

	out, err := c.blend(bg, fg, m, p)
	if err != nil {
		return nil, err
	}
	defer out.Release()

	quality := p.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	data, err := codec.Encode(p.Format, out, quality)
	if err != nil {
		return nil, fmt.Errorf("imgblend: %w", err)
	}
	return data, nil
}

// decodeMask decodes mask as grayscale. It returns nil, nil when there is no
// mask, or when the mask is undecodable and the compositor is lenient.
func (c *Compositor) decodeMask(mask []byte) (*raster.Raster, error) {
	if len(mask) == 0 {
		return nil, nil
	}

	m, err := codec.Decode(mask, codec.ModeGrayscale, c.opts.pool)
	if err == nil {
		return m, nil
	}
	if c.opts.lenientMask && errors.Is(err, codec.ErrDecode) {
		Logger().Warn("imgblend: mask could not be decoded, compositing without it", "err", err)
		return nil, nil
	}
	return nil, fmt.Errorf("imgblend: mask: %w", err)
}

// blend dispatches to the weighted or overlay path and returns the blended
// raster, which the caller releases.
func (c *Compositor) blend(bg, fg, mask *raster.Raster, p Params) (*raster.Raster, error) {
	bgSize := image.Pt(bg.Width(), bg.Height())
	fgSize := image.Pt(fg.Width(), fg.Height())

	region := Resolve(p.Region, p.Anchor, bgSize, fgSize)
	if c.opts.fitRegion {
		region = FitRegion(bgSize, fgSize, region)
	}

	s := SelectStrategy(mask != nil, fg.Channels())
	Logger().Debug("imgblend: composite",
		"strategy", s,
		"background", bgSize, "backgroundChannels", bg.Channels(),
		"foreground", fgSize, "foregroundChannels", fg.Channels(),
		"mask", mask != nil,
		"origin", region.Min())

	switch s {
	case StrategyWeighted:
		out, err := addWeighted(bg, fg, p.Alpha, region.Min())
		if err != nil {
			return nil, fmt.Errorf("imgblend: weighted blend: %w", err)
		}
		return out, nil
	default:
		return overlay(bg, fg, newOpacitySource(fg, mask), region.Min()), nil
	}
}

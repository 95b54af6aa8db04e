// Package imgblend composites a foreground image onto a background image.
//
// # Overview
//
// Inputs arrive as encoded bytes (JPEG, PNG, GIF, BMP, TIFF or WebP) and the
// result is returned encoded in the requested format. The foreground is
// placed at a region of the background, given either as explicit
// coordinates or as an anchor to one of the background's edges.
//
// # Quick Start
//
//	import "github.com/gogpu/imgblend"
//
//	p := imgblend.DefaultParams()
//	p.Region, p.Anchor, _ = imgblend.ParsePlacement("bright")
//	out, err := imgblend.Composite(photo, logo, nil, p)
//
// # Blending
//
// Two strategies exist:
//   - Weighted: with no mask and an opaque foreground (1 or 3 channels),
//     the covered region becomes round(bg + fg*Alpha), saturated to 255.
//   - Overlay: with a mask, or a foreground carrying an alpha channel, each
//     covered pixel becomes round(bg*(1-a) + fg*a), where a comes from the
//     mask byte or the foreground alpha. Pixels with a == 0 are left alone.
//
// In both cases the portion of the foreground that falls outside the
// background is clipped and never read.
//
// # Coordinate System
//
//   - Origin (0,0) at the background's top-left
//   - X increases right
//   - Y increases down
//   - Negative origins crop the foreground's leading rows and columns
package imgblend

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)

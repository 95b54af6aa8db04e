package imgblend

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Rect is an axis-aligned rectangle in background coordinates.
//
// During compositing only X and Y place the foreground; the extent always
// comes from the decoded foreground. Width and Height size anchored
// placements (see Anchor).
type Rect struct {
	X, Y          int
	Width, Height int
}

// Min returns the top-left corner of r.
func (r Rect) Min() image.Point { return image.Pt(r.X, r.Y) }

// String returns r as "x,y,w,h".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// Anchor positions the foreground relative to the background edges.
type Anchor uint8

const (
	// AnchorNone places the foreground at Rect.X, Rect.Y.
	AnchorNone Anchor = iota
	// AnchorLeft places it at the top-left corner.
	AnchorLeft
	// AnchorRight places it at the top-right corner.
	AnchorRight
	// AnchorBottomLeft places it at the bottom-left corner.
	AnchorBottomLeft
	// AnchorBottomRight places it at the bottom-right corner.
	AnchorBottomRight
	// AnchorCenter centers it.
	AnchorCenter
)

var anchorNames = map[string]Anchor{
	"left":   AnchorLeft,
	"right":  AnchorRight,
	"bleft":  AnchorBottomLeft,
	"bright": AnchorBottomRight,
	"center": AnchorCenter,
}

// String returns the name used by ParsePlacement.
func (a Anchor) String() string {
	switch a {
	case AnchorNone:
		return "none"
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	case AnchorBottomLeft:
		return "bleft"
	case AnchorBottomRight:
		return "bright"
	case AnchorCenter:
		return "center"
	default:
		return fmt.Sprintf("Anchor(%d)", uint8(a))
	}
}

// ParsePlacement parses a placement string:
//
//	x,y          absolute origin
//	x,y,w,h      absolute rectangle
//	anchor,w,h   anchored rectangle of the given size
//	anchor       anchored, sized by the foreground
//
// where anchor is one of left, right, bleft, bright, center.
// An empty string places the foreground at the origin.
func ParsePlacement(s string) (Rect, Anchor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rect{}, AnchorNone, nil
	}

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if a, ok := anchorNames[parts[0]]; ok {
		switch len(parts) {
		case 1:
			return Rect{}, a, nil
		case 3:
			n, err := atoiAll(parts[1:])
			if err != nil {
				return Rect{}, AnchorNone, fmt.Errorf("%w: %q: %w", ErrInvalidPlacement, s, err)
			}
			if n[0] < 0 || n[1] < 0 {
				return Rect{}, AnchorNone, fmt.Errorf("%w: %q: negative size", ErrInvalidPlacement, s)
			}
			return Rect{Width: n[0], Height: n[1]}, a, nil
		default:
			return Rect{}, AnchorNone, fmt.Errorf("%w: %q: anchor takes width and height", ErrInvalidPlacement, s)
		}
	}

	switch len(parts) {
	case 2, 4:
	default:
		return Rect{}, AnchorNone, fmt.Errorf("%w: %q: want x,y or x,y,w,h", ErrInvalidPlacement, s)
	}

	n, err := atoiAll(parts)
	if err != nil {
		return Rect{}, AnchorNone, fmt.Errorf("%w: %q: %w", ErrInvalidPlacement, s, err)
	}
	r := Rect{X: n[0], Y: n[1]}
	if len(n) == 4 {
		r.Width, r.Height = n[2], n[3]
	}
	return r, AnchorNone, nil
}

func atoiAll(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Resolve computes the placement origin for a foreground of size fg on a
// background of size bg. A zero Width or Height on an anchored placement
// takes the foreground's size.
func Resolve(r Rect, a Anchor, bg, fg image.Point) Rect {
	if a == AnchorNone {
		return r
	}

	w, h := r.Width, r.Height
	if w == 0 {
		w = fg.X
	}
	if h == 0 {
		h = fg.Y
	}

	out := Rect{Width: w, Height: h}
	switch a {
	case AnchorRight:
		out.X = bg.X - w
	case AnchorBottomLeft:
		out.Y = bg.Y - h
	case AnchorBottomRight:
		out.X, out.Y = bg.X-w, bg.Y-h
	case AnchorCenter:
		out.X, out.Y = (bg.X-w)/2, (bg.Y-h)/2
	}
	return out
}

// FitRegion moves a placement that would push the foreground past the
// right or bottom edge of the background back to that axis' origin.
// Each reset is logged as a warning.
func FitRegion(bg, fg image.Point, r Rect) Rect {
	if r.X > bg.X-fg.X {
		Logger().Warn("imgblend: placement overflows background width, using x=0",
			"x", r.X, "foregroundWidth", fg.X, "width", bg.X)
		r.X = 0
	}
	if r.Y > bg.Y-fg.Y {
		Logger().Warn("imgblend: placement overflows background height, using y=0",
			"y", r.Y, "foregroundHeight", fg.Y, "height", bg.Y)
		r.Y = 0
	}
	return r
}

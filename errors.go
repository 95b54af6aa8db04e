package imgblend

import (
	"errors"

	"github.com/gogpu/imgblend/internal/codec"
)

// Errors returned by Composite. Decode and encode failures wrap the
// underlying codec error, so both the sentinel here and the cause match
// with errors.Is.
var (
	// ErrEmptyInput is returned when the background or foreground is empty.
	ErrEmptyInput = errors.New("imgblend: empty input")

	// ErrDecode is returned when an input could not be decoded.
	ErrDecode = codec.ErrDecode

	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = codec.ErrUnsupportedFormat

	// ErrEncode is returned when the result could not be encoded.
	ErrEncode = codec.ErrEncode

	// ErrInvalidPlacement is returned by ParsePlacement for malformed input.
	ErrInvalidPlacement = errors.New("imgblend: invalid placement")
)

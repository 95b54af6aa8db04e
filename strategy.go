package imgblend

import "fmt"

// Strategy is the compositing path chosen for one Composite call.
type Strategy uint8

const (
	// StrategyWeighted adds the foreground, scaled by Params.Alpha, onto the
	// background over the placement rectangle. Used when there is no mask and
	// the foreground has no alpha channel.
	StrategyWeighted Strategy = iota

	// StrategyOverlay blends pixel by pixel with opacity taken from the mask,
	// or from the foreground alpha channel when there is no mask.
	StrategyOverlay
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyWeighted:
		return "weighted"
	case StrategyOverlay:
		return "overlay"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// SelectStrategy picks the compositing path. A mask always selects
// StrategyOverlay; without one, a foreground with four or more channels
// selects StrategyOverlay and anything narrower selects StrategyWeighted.
//
// StrategyOverlay without a mask reads channel 3 of the foreground, so this
// predicate must hold for every call that reaches it.
func SelectStrategy(hasMask bool, fgChannels int) Strategy {
	if hasMask || fgChannels >= 4 {
		return StrategyOverlay
	}
	return StrategyWeighted
}

// Package calibration infers an affine mapping from the player's opaque progress
// counter to transcript seconds, purely from observed samples.
package calibration

import (
	"fmt"

	"github.com/samber/mo"
)

// Phase is the calibration lifecycle. Phases only move forward.
type Phase int

const (
	NoBaseline Phase = iota
	AwaitingLock
	Locked
)

func (p Phase) String() string {
	switch p {
	case NoBaseline:
		return "no baseline"
	case AwaitingLock:
		return "awaiting lock"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// forwardTicksForContent is the number of consecutive strictly increasing
// samples after which playback is trusted to be primary content.
const forwardTicksForContent = 2

// State is the complete calibration and ad-classification state of one player session.
//
// Locked implies BaseProgress, BaseTime and Scale are set and Scale > 0.
type State struct {
	Phase Phase

	BaseProgress float64
	BaseTime     float64

	// Scale is transcript seconds per progress unit.
	Scale float64

	LastProgress mo.Option[float64]
	ForwardTicks int
	IsAd         bool
}

// NewState returns the initial state: no baseline, classified as ad.
func NewState() State {
	return State{
		Phase:        NoBaseline,
		LastProgress: mo.None[float64](),
		IsAd:         true,
	}
}

// Map converts progress to transcript seconds. Only meaningful once locked.
func (s State) Map(progress float64) float64 {
	return s.BaseTime + (progress-s.BaseProgress)*s.Scale
}

// Unmap converts transcript seconds to progress. Only meaningful once locked.
func (s State) Unmap(seconds float64) float64 {
	return s.BaseProgress + (seconds-s.BaseTime)/s.Scale
}

func (s State) String() string {
	kind := "content"
	if s.IsAd {
		kind = "ad"
	}

	switch s.Phase {
	case Locked:
		return fmt.Sprintf("%s (%s, %.4f s/unit)", s.Phase, kind, s.Scale)
	case AwaitingLock:
		return fmt.Sprintf("%s (%s, base %.2f at %.1fs)", s.Phase, kind, s.BaseProgress, s.BaseTime)
	default:
		return fmt.Sprintf("%s (%s)", s.Phase, kind)
	}
}

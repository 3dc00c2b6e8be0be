package calibration

import (
	"math"

	"github.com/samber/mo"
)

// Boundaries is the view of the transcript the engine needs.
type Boundaries interface {
	FirstTimestamp() float64
	Timestamp(i int) float64
	LastBoundaryWithin(base, delta float64) int
}

// Inputs are the values Step reads but does not own.
type Inputs struct {
	Transcript  Boundaries
	PendingSeek mo.Option[float64]
}

// Command is a side effect requested by Step.
type Command interface {
	command()
}

// Highlight asks the highlighter to show the entry at Seconds.
type Highlight struct {
	Seconds float64
}

// Seek asks the player to move to Progress, resolving the pending seek to Target seconds.
type Seek struct {
	Progress float64
	Target   float64
}

func (Highlight) command() {}
func (Seek) command()      {}

// Step folds one progress sample into the state and returns the commands to issue.
func Step(s State, p float64, in Inputs) (State, []Command) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		s.IsAd = true
		s.ForwardTicks = 0
		return s, nil
	}

	if last, ok := s.LastProgress.Get(); ok && p > last {
		s.ForwardTicks++
	} else {
		s.ForwardTicks = 0
	}
	s.IsAd = s.ForwardTicks < forwardTicksForContent
	s.LastProgress = mo.Some(p)

	switch s.Phase {
	case NoBaseline:
		if s.IsAd {
			return s, nil
		}
		s.BaseProgress = p
		s.BaseTime = in.PendingSeek.OrElse(in.Transcript.FirstTimestamp())
		s.Phase = AwaitingLock
		return s, nil

	case AwaitingLock:
		dp := p - s.BaseProgress
		if dp <= 0 {
			return s, nil
		}

		i := in.Transcript.LastBoundaryWithin(s.BaseTime, dp)
		if i < 1 {
			return s, nil
		}

		scale := (in.Transcript.Timestamp(i) - s.BaseTime) / dp
		if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
			return s, nil
		}

		s.Scale = scale
		s.Phase = Locked
	}

	commands := []Command{Highlight{Seconds: s.Map(p)}}

	if target, ok := in.PendingSeek.Get(); ok && !s.IsAd {
		commands = append(commands, Seek{Progress: s.Unmap(target), Target: target})
	}

	return s, commands
}

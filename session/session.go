// Package session runs one embedded-player session: a single goroutine that owns the
// gateway, the calibration state, the pending seek and the highlighter, and folds
// poller ticks, player messages and user selections into them in arrival order.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/gateway"
	"github.com/lockstep-cli/lockstep/highlight"
	"github.com/lockstep-cli/lockstep/log"
	"github.com/lockstep-cli/lockstep/poller"
	"github.com/lockstep-cli/lockstep/seek"
	"github.com/lockstep-cli/lockstep/transcript"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// ErrTransportClosed is returned by Run when the player channel goes away.
var ErrTransportClosed = errors.New("player channel closed")

// Options configures a session.
type Options struct {
	Gateway      *gateway.Gateway
	Transcript   *transcript.Index
	View         highlight.View
	ScrollMargin int
	PollInterval time.Duration

	// Start is an initial jump, typically from a deep link.
	Start mo.Option[float64]

	// OnState, when set, is called from the session goroutine after every
	// sample that changed the calibration state.
	OnState func(calibration.State)
}

// Session must be driven by Run; Select is the only method safe to call from other goroutines.
type Session struct {
	id          string
	gateway     *gateway.Gateway
	index       *transcript.Index
	highlighter *highlight.Controller
	seeker      *seek.Coordinator
	poller      *poller.Poller
	state       calibration.State
	start       mo.Option[float64]
	onState     func(calibration.State)

	selections chan float64
	done       chan struct{}
	logger     *logrus.Entry
}

// New wires a session. It does not start polling until Run.
func New(opts Options) *Session {
	id := uuid.NewString()
	highlighter := highlight.New(opts.Transcript, opts.View, opts.ScrollMargin)

	return &Session{
		id:          id,
		gateway:     opts.Gateway,
		index:       opts.Transcript,
		highlighter: highlighter,
		seeker:      seek.New(opts.Gateway, highlighter),
		poller:      poller.New(opts.PollInterval),
		state:       calibration.NewState(),
		start:       opts.Start,
		onState:     opts.OnState,
		selections:  make(chan float64, 8),
		done:        make(chan struct{}),
		logger:      log.Component("session").WithField("session", id),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Select queues a user's request to jump to seconds. It never blocks once the
// session has stopped.
func (s *Session) Select(seconds float64) {
	select {
	case s.selections <- seconds:
	case <-s.done:
	}
}

// Run processes events until ctx is cancelled or the transport closes.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticks := s.poller.Start(ctx)
	messages := s.gateway.Messages()

	s.logger.WithField("entries", s.index.Len()).Info("session started")

	if start, ok := s.start.Get(); ok {
		s.handleSelect(ctx, start)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			s.handleTick(ctx)
		case env, ok := <-messages:
			if !ok {
				return ErrTransportClosed
			}
			s.handleEnvelope(ctx, env)
		case seconds := <-s.selections:
			s.handleSelect(ctx, seconds)
		}
	}
}

func (s *Session) handleTick(ctx context.Context) {
	if err := s.gateway.RequestProgress(ctx); err != nil && !errors.Is(err, gateway.ErrNoPeer) {
		s.logger.WithError(err).Debug("progress request failed")
	}
}

func (s *Session) handleEnvelope(ctx context.Context, env gateway.Envelope) {
	event, ok := s.gateway.Receive(env)
	if !ok {
		return
	}
	s.observe(ctx, event.Progress)
}

func (s *Session) handleSelect(ctx context.Context, seconds float64) {
	err := s.seeker.Select(ctx, seconds, s.state.Phase == calibration.Locked)
	if err != nil && !errors.Is(err, gateway.ErrNoPeer) {
		s.logger.WithError(err).Warn("play request failed")
	}
	s.logger.WithField("target", seconds).Debug("seek queued")
}

// observe folds one progress sample into the calibration state and carries out
// the resulting commands.
func (s *Session) observe(ctx context.Context, progress float64) {
	prev := s.state
	next, commands := calibration.Step(prev, progress, calibration.Inputs{
		Transcript:  s.index,
		PendingSeek: s.seeker.Pending(),
	})
	s.state = next

	s.logTransition(prev, next)

	for _, c := range commands {
		switch c := c.(type) {
		case calibration.Highlight:
			s.highlighter.Update(c.Seconds)
		case calibration.Seek:
			if err := s.seeker.Resolve(ctx, c.Target, c.Progress); err != nil {
				s.logger.WithError(err).Warn("seek failed, will retry on the next sample")
				continue
			}
			s.logger.WithFields(logrus.Fields{"target": c.Target, "progress": c.Progress}).Info("seek issued")
		}
	}

	if s.onState != nil && next != prev {
		s.onState(next)
	}
}

func (s *Session) logTransition(prev, next calibration.State) {
	if prev.IsAd != next.IsAd {
		s.logger.WithField("ad", next.IsAd).Debug("playback classification changed")
	}

	if prev.Phase == next.Phase {
		return
	}

	switch next.Phase {
	case calibration.AwaitingLock:
		entry := s.logger.WithFields(logrus.Fields{"progress": next.BaseProgress, "seconds": next.BaseTime})
		if s.seeker.Pending().IsPresent() {
			entry.Info("baseline captured at the pending seek target")
		} else {
			// Playback that started mid-episode will calibrate against the wrong offset here.
			entry.Warn("baseline assumed to be the first transcript entry")
		}
	case calibration.Locked:
		s.logger.WithField("scale", next.Scale).Info("calibration locked")
	}
}

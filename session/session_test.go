package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/gateway"
	"github.com/lockstep-cli/lockstep/transcript"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const origin = "https://player.example.com"

type view struct {
	activated []int
}

func (v *view) Activate(i int)                  { v.activated = append(v.activated, i) }
func (v *view) Deactivate(int)                  {}
func (v *view) Bounds(int) (int, int, int, bool) { return 0, 0, 0, false }
func (v *view) ScrollToCenter(int)              {}

func progress(p float64) gateway.Envelope {
	return gateway.Envelope{
		Origin:  origin,
		Source:  "frame-1",
		Payload: fmt.Sprintf(`{"event":"progress","data":{"progress":%v}}`, p),
	}
}

func newSession(memory *gateway.Memory, v *view, start mo.Option[float64]) *Session {
	entries := make([]transcript.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, transcript.Entry{Seconds: float64(i * 10), Order: i})
	}
	x, err := transcript.NewIndex(entries)
	if err != nil {
		panic(err)
	}

	return New(Options{
		Gateway:      gateway.New(memory, origin),
		Transcript:   x,
		View:         v,
		ScrollMargin: 2,
		PollInterval: time.Hour,
		Start:        start,
	})
}

func seeks(memory *gateway.Memory) []float64 {
	var out []float64
	for _, p := range memory.Sent() {
		if p.Command.Method == constant.MethodSeek {
			out = append(out, *p.Command.Value)
		}
	}
	return out
}

func TestObserve(t *testing.T) {
	Convey("Given a session over a ten-entry transcript", t, func() {
		memory := gateway.NewMemory(16)
		v := &view{}
		s := newSession(memory, v, mo.None[float64]())
		ctx := context.Background()

		Convey("A click before any handshake queues the seek but nothing reaches the player", func() {
			s.handleSelect(ctx, 42)
			So(s.seeker.Pending().MustGet(), ShouldEqual, 42)
			So(memory.Sent(), ShouldBeEmpty)
		})

		Convey("Once the player has spoken", func() {
			s.handleEnvelope(ctx, progress(8))

			Convey("A click issues play immediately but no seek", func() {
				s.handleSelect(ctx, 42)
				So(memory.Methods(), ShouldResemble, []string{constant.MethodPlay})
			})

			Convey("A click queued before calibration resolves after lock", func() {
				s.handleSelect(ctx, 42)

				s.handleEnvelope(ctx, progress(9))
				s.handleEnvelope(ctx, progress(10))
				So(s.state.Phase, ShouldEqual, calibration.AwaitingLock)
				So(s.state.BaseTime, ShouldEqual, 42)
				So(seeks(memory), ShouldBeEmpty)

				s.handleEnvelope(ctx, progress(70))
				So(s.state.Phase, ShouldEqual, calibration.Locked)
				So(s.state.Scale, ShouldEqual, (90.0-42.0)/60.0)

				Convey("The seek is issued exactly once", func() {
					So(len(seeks(memory)), ShouldEqual, 1)
					So(seeks(memory)[0], ShouldAlmostEqual, 10, 1e-9)
					So(s.seeker.Pending().IsPresent(), ShouldBeFalse)

					s.handleEnvelope(ctx, progress(71))
					So(len(seeks(memory)), ShouldEqual, 1)
				})
			})

			Convey("Stalled progress never calibrates or highlights", func() {
				for i := 0; i < 4; i++ {
					s.handleEnvelope(ctx, progress(8))
				}
				So(s.state.Phase, ShouldEqual, calibration.NoBaseline)
				So(v.activated, ShouldBeEmpty)
			})

			Convey("Playback from the start highlights entries as boundaries pass", func() {
				for _, p := range []float64{9, 10, 20, 21, 35} {
					s.handleEnvelope(ctx, progress(p))
				}
				So(s.state.Phase, ShouldEqual, calibration.Locked)
				So(s.state.Scale, ShouldEqual, 1)
				So(v.activated, ShouldResemble, []int{1, 2})
			})
		})

		Convey("Messages from another origin are ignored entirely", func() {
			env := progress(8)
			env.Origin = "https://ads.example.com"
			for i := 0; i < 5; i++ {
				s.handleEnvelope(ctx, env)
			}
			s.handleTick(ctx)
			So(memory.Sent(), ShouldBeEmpty)
			So(s.state.Phase, ShouldEqual, calibration.NoBaseline)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running session with a deep-link start", t, func() {
		memory := gateway.NewMemory(16)
		s := newSession(memory, &view{}, mo.Some(30.0))

		var states []calibration.State
		stateCh := make(chan calibration.State, 16)
		s.onState = func(st calibration.State) { stateCh <- st }

		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)
		go func() { result <- s.Run(ctx) }()

		Convey("Samples flow through the inbox and a closed transport ends the loop", func() {
			memory.Deliver(progress(1))
			memory.Deliver(progress(2))
			memory.Deliver(progress(3))

			for len(states) == 0 || states[len(states)-1].Phase != calibration.AwaitingLock {
				select {
				case st := <-stateCh:
					states = append(states, st)
				case <-time.After(time.Second):
					So("timed out waiting for the baseline", ShouldBeEmpty)
					return
				}
			}
			So(states[len(states)-1].BaseTime, ShouldEqual, 30)
			So(states[len(states)-1].BaseProgress, ShouldEqual, 3)

			memory.Close()
			select {
			case err := <-result:
				So(err, ShouldEqual, ErrTransportClosed)
			case <-time.After(time.Second):
				So("run did not return", ShouldBeEmpty)
			}

			Convey("Select no longer blocks", func() {
				s.Select(12)
			})
		})

		Reset(cancel)
	})
}

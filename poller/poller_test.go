package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	Convey("Given a fast poller", t, func() {
		p := New(5 * time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())

		var count atomic.Int32
		done := make(chan struct{})
		go func() {
			p.Run(ctx, func() { count.Add(1) })
			close(done)
		}()

		Convey("It ticks repeatedly and stops when cancelled", func() {
			So(waitFor(func() bool { return count.Load() >= 3 }), ShouldBeTrue)
			cancel()
			So(waitFor(func() bool {
				select {
				case <-done:
					return true
				default:
					return false
				}
			}), ShouldBeTrue)
		})

		Reset(cancel)
	})
}

func TestStart(t *testing.T) {
	Convey("Start delivers ticks on a channel", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ticks := New(5 * time.Millisecond).Start(ctx)
		select {
		case <-ticks:
			So(true, ShouldBeTrue)
		case <-time.After(time.Second):
			So("no tick within a second", ShouldBeEmpty)
		}
	})
}

func TestNonPositiveInterval(t *testing.T) {
	Convey("A zero or negative period falls back to the default", t, func() {
		So(New(0).Interval, ShouldEqual, DefaultInterval)
		So(New(-time.Second).Interval, ShouldEqual, DefaultInterval)

		Convey("And a poller built by hand with a zero period still ticks", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			var count atomic.Int32
			p := &Poller{}
			go p.Run(ctx, func() { count.Add(1) })

			deadline := time.Now().Add(1500 * time.Millisecond)
			for time.Now().Before(deadline) && count.Load() == 0 {
				time.Sleep(10 * time.Millisecond)
			}
			So(count.Load(), ShouldBeGreaterThan, 0)
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

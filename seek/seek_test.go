package seek

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type player struct {
	calls []string
	seeks []float64
	fail  error
}

func (p *player) Play(context.Context) error {
	p.calls = append(p.calls, "play")
	return p.fail
}

func (p *player) Seek(_ context.Context, progress float64) error {
	if p.fail != nil {
		return p.fail
	}
	p.calls = append(p.calls, "seek")
	p.seeks = append(p.seeks, progress)
	return nil
}

type highlighter struct {
	updates []float64
}

func (h *highlighter) Update(seconds float64) bool {
	h.updates = append(h.updates, seconds)
	return true
}

func TestSelect(t *testing.T) {
	Convey("Given a coordinator", t, func() {
		p, h := &player{}, &highlighter{}
		c := New(p, h)
		ctx := context.Background()

		Convey("A selection before lock queues the seek and plays immediately", func() {
			So(c.Select(ctx, 42, false), ShouldBeNil)
			So(c.Pending().MustGet(), ShouldEqual, 42)
			So(p.calls, ShouldResemble, []string{"play"})
			So(h.updates, ShouldBeEmpty)

			Convey("A newer selection replaces it", func() {
				_ = c.Select(ctx, 7, false)
				So(c.Pending().MustGet(), ShouldEqual, 7)

				Convey("And resolving the stale target does nothing", func() {
					So(c.Resolve(ctx, 42, 31), ShouldBeNil)
					So(p.seeks, ShouldBeEmpty)
					So(c.Pending().MustGet(), ShouldEqual, 7)
				})
			})

			Convey("Resolving issues the seek once and clears the intent", func() {
				So(c.Resolve(ctx, 42, 31), ShouldBeNil)
				So(p.seeks, ShouldResemble, []float64{31})
				So(c.Pending().IsPresent(), ShouldBeFalse)

				So(c.Resolve(ctx, 42, 31), ShouldBeNil)
				So(p.seeks, ShouldResemble, []float64{31})
			})
		})

		Convey("A selection after lock highlights optimistically", func() {
			_ = c.Select(ctx, 42, true)
			So(h.updates, ShouldResemble, []float64{42})
		})

		Convey("When the player cannot be reached", func() {
			p.fail = errors.New("no peer yet")

			Convey("The intent is still recorded", func() {
				So(c.Select(ctx, 12, false), ShouldNotBeNil)
				So(c.Pending().MustGet(), ShouldEqual, 12)
			})

			Convey("A failed seek keeps the intent for the next sample", func() {
				_ = c.Select(ctx, 12, false)
				So(c.Resolve(ctx, 12, 6), ShouldNotBeNil)
				So(c.Pending().MustGet(), ShouldEqual, 12)
			})
		})
	})
}

package highlight

import (
	"fmt"
	"testing"

	"github.com/lockstep-cli/lockstep/transcript"
	. "github.com/smartystreets/goconvey/convey"
)

// recorder lays entries out one row each, scrolled so that offset is the first visible row.
type recorder struct {
	events []string
	offset int
	height int
}

func (r *recorder) Activate(i int)   { r.events = append(r.events, fmt.Sprintf("+%d", i)) }
func (r *recorder) Deactivate(i int) { r.events = append(r.events, fmt.Sprintf("-%d", i)) }

func (r *recorder) Bounds(i int) (int, int, int, bool) {
	return i - r.offset, i - r.offset + 1, r.height, true
}

func (r *recorder) ScrollToCenter(i int) {
	r.events = append(r.events, fmt.Sprintf("scroll %d", i))
	r.offset = i - r.height/2
}

func index(n int) *transcript.Index {
	entries := make([]transcript.Entry, n)
	for i := range entries {
		entries[i] = transcript.Entry{Seconds: float64(i * 10), Order: i}
	}
	x, _ := transcript.NewIndex(entries)
	return x
}

func TestUpdate(t *testing.T) {
	Convey("Given a controller over 100 entries in a 20 row view", t, func() {
		view := &recorder{height: 20}
		c := New(index(100), view, 2)

		Convey("The first update activates the entry without scrolling when it is well inside", func() {
			So(c.Update(55), ShouldBeTrue)
			So(view.events, ShouldResemble, []string{"+5"})
			So(c.Active().MustGet(), ShouldEqual, 5)

			Convey("The same mapped time twice produces one activation", func() {
				So(c.Update(55), ShouldBeFalse)
				So(c.Update(59), ShouldBeFalse)
				So(view.events, ShouldResemble, []string{"+5"})
			})

			Convey("A change deactivates the previous entry first", func() {
				c.Update(61)
				So(view.events, ShouldResemble, []string{"+5", "-5", "+6"})
			})
		})

		Convey("An entry close to the bottom edge is recentred", func() {
			c.Update(180)
			So(view.events, ShouldResemble, []string{"+18", "scroll 18"})
		})

		Convey("An entry close to the top edge is recentred", func() {
			view.offset = 40
			c.Update(410)
			So(view.events, ShouldResemble, []string{"+41", "scroll 41"})
		})

		Convey("An entry off screen is recentred", func() {
			c.Update(900)
			So(view.events, ShouldResemble, []string{"+90", "scroll 90"})
		})

		Convey("Times before the transcript clamp to the first entry", func() {
			c.Update(-30)
			So(c.Active().MustGet(), ShouldEqual, 0)
		})
	})
}

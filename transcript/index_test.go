package transcript

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func indexOf(times ...float64) *Index {
	entries := make([]Entry, len(times))
	for i, t := range times {
		entries[i] = Entry{Seconds: t, Order: i}
	}
	x, err := NewIndex(entries)
	if err != nil {
		panic(err)
	}
	return x
}

func TestNewIndex(t *testing.T) {
	Convey("Given entries out of order with a tie", t, func() {
		x, err := NewIndex([]Entry{
			{Seconds: 30, Text: "c", Order: 0},
			{Seconds: 10, Text: "a", Order: 1},
			{Seconds: 30, Text: "d", Order: 2},
			{Seconds: 20, Text: "b", Order: 3},
		})
		So(err, ShouldBeNil)

		Convey("They are sorted ascending and ties keep document order", func() {
			texts := make([]string, 0, x.Len())
			for _, e := range x.Entries() {
				texts = append(texts, e.Text)
			}
			So(texts, ShouldResemble, []string{"a", "b", "c", "d"})
			So(x.FirstTimestamp(), ShouldEqual, 10)
		})
	})

	Convey("Given no entries", t, func() {
		_, err := NewIndex(nil)
		So(err, ShouldEqual, ErrEmpty)
	})
}

func TestEntryAtOrBefore(t *testing.T) {
	Convey("Given timestamps 0, 10, 20, 30", t, func() {
		x := indexOf(0, 10, 20, 30)

		Convey("Exact hits return the matching entry", func() {
			So(x.EntryAtOrBefore(0), ShouldEqual, 0)
			So(x.EntryAtOrBefore(10), ShouldEqual, 1)
			So(x.EntryAtOrBefore(30), ShouldEqual, 3)
		})

		Convey("Times between entries return the earlier entry", func() {
			So(x.EntryAtOrBefore(9.99), ShouldEqual, 0)
			So(x.EntryAtOrBefore(25), ShouldEqual, 2)
		})

		Convey("Times outside the range clamp to the first and last entries", func() {
			So(x.EntryAtOrBefore(-5), ShouldEqual, 0)
			So(x.EntryAtOrBefore(1e9), ShouldEqual, 3)
		})
	})

	Convey("Given a transcript starting late", t, func() {
		x := indexOf(12, 40)
		So(x.EntryAtOrBefore(3), ShouldEqual, 0)
	})

	Convey("For every query on a longer sequence the answer matches a linear scan", t, func() {
		x := indexOf(1, 2, 2, 5, 8, 13, 21, 34)
		for q := -1.0; q < 40; q += 0.5 {
			want := 0
			for i := 0; i < x.Len(); i++ {
				if x.Timestamp(i) <= q {
					want = i
				}
			}
			So(x.EntryAtOrBefore(q), ShouldEqual, want)
		}
	})
}

func TestLastBoundaryWithin(t *testing.T) {
	Convey("Given timestamps 0, 10, 20, 30", t, func() {
		x := indexOf(0, 10, 20, 30)

		Convey("A delta short of the first boundary finds nothing", func() {
			So(x.LastBoundaryWithin(0, 9), ShouldEqual, -1)
		})

		Convey("A delta reaching a boundary returns the furthest one crossed", func() {
			So(x.LastBoundaryWithin(0, 10), ShouldEqual, 1)
			So(x.LastBoundaryWithin(0, 25), ShouldEqual, 2)
			So(x.LastBoundaryWithin(0, 500), ShouldEqual, 3)
		})

		Convey("The base shifts the window", func() {
			So(x.LastBoundaryWithin(20, 5), ShouldEqual, 2)
			So(x.LastBoundaryWithin(20, 10), ShouldEqual, 3)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given a transcript with speakers", t, func() {
		x, _ := NewIndex([]Entry{
			{Seconds: 0, Speaker: "Host", Text: "Welcome back to the show"},
			{Seconds: 5, Speaker: "Guest", Text: "Thanks for having me"},
			{Seconds: 9, Speaker: "Host", Text: "Let's talk about the budget"},
		})

		Convey("Matches are found across text and speaker, case-insensitively", func() {
			So(x.Search("budget"), ShouldResemble, []int{2})
			So(x.Search("guest"), ShouldResemble, []int{1})
			So(x.Search("WELCOME"), ShouldResemble, []int{0})
		})

		Convey("An empty query matches nothing", func() {
			So(x.Search(""), ShouldBeEmpty)
		})
	})
}

func TestFormatSeconds(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		So(FormatSeconds(0), ShouldEqual, "0:00")
		So(FormatSeconds(75.9), ShouldEqual, "1:15")
		So(FormatSeconds(3723), ShouldEqual, "1:02:03")
		So(FormatSeconds(-4), ShouldEqual, "0:00")
	})
}

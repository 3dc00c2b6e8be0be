package transcript

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseStart(t *testing.T) {
	Convey("ParseStart", t, func() {
		Convey("Reads t from a full deep link", func() {
			So(ParseStart("https://episodes.example.com/ep-12?t=90").MustGet(), ShouldEqual, 90)
		})

		Convey("Reads t from a relative link", func() {
			So(ParseStart("/ep-12?t=1m30s").MustGet(), ShouldEqual, 90)
		})

		Convey("Accepts bare seconds, durations and clock times", func() {
			So(ParseStart("42.5").MustGet(), ShouldEqual, 42.5)
			So(ParseStart("2m").MustGet(), ShouldEqual, 120)
			So(ParseStart("1:02:03").MustGet(), ShouldEqual, 3723)
			So(ParseStart("4:05").MustGet(), ShouldEqual, 245)
		})

		Convey("Rejects empty, negative and garbage values", func() {
			So(ParseStart("").IsPresent(), ShouldBeFalse)
			So(ParseStart("-3").IsPresent(), ShouldBeFalse)
			So(ParseStart("soon").IsPresent(), ShouldBeFalse)
			So(ParseStart("https://example.com/ep").IsPresent(), ShouldBeFalse)
		})
	})
}

func TestLink(t *testing.T) {
	Convey("Link", t, func() {
		So(Link("https://example.com/ep?x=1", 91.7), ShouldEqual, "https://example.com/ep?t=91&x=1")
		So(Link("", 5), ShouldEqual, "?t=5")
	})
}

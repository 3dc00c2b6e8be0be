package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Each supported platform has a launcher", t, func() {
		cmd, ok := command("linux", "https://example.com/?t=5")
		So(ok, ShouldBeTrue)
		So(cmd.Args, ShouldResemble, []string{"xdg-open", "https://example.com/?t=5"})

		cmd, ok = command("darwin", "x")
		So(ok, ShouldBeTrue)
		So(cmd.Args[0], ShouldEqual, "open")

		_, ok = command("plan9", "x")
		So(ok, ShouldBeFalse)
	})
}

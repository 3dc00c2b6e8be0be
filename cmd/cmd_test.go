package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lockstep-cli/lockstep/config"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/filesystem"
	"github.com/lockstep-cli/lockstep/key"
	"github.com/lockstep-cli/lockstep/transcript"
	"github.com/lockstep-cli/lockstep/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func TestTitle(t *testing.T) {
	Convey("Media titles come from the transcript location", t, func() {
		bare, err := transcript.NewIndex([]transcript.Entry{{Seconds: 0, Text: "hi"}})
		So(err, ShouldBeNil)

		So(title(bare, "https://example.com/ep/12?t=30"), ShouldEqual, "example.com/ep/12")
		So(title(bare, "/home/me/episodes/ep12.html"), ShouldEqual, "ep12.html")
	})

	Convey("Page metadata names the media when present", t, func() {
		page := `<html><head><title>Night Walk | Show</title>
<script type="application/ld+json">{"episodeNumber": 3}</script></head>
<body><p data-start="0">hi</p></body></html>`
		index, err := transcript.Load(strings.NewReader(page), transcript.DefaultOptions())
		So(err, ShouldBeNil)
		So(title(index, "https://example.com/ep/3"), ShouldEqual, "#3 Night Walk")
	})
}

func TestRenderEntries(t *testing.T) {
	Convey("The table lists entries with their labels", t, func() {
		meta := transcript.Meta{Title: "Night Walk", Episode: 3, Published: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
		out := renderEntries(meta, []transcript.Entry{
			{Seconds: 0, Text: "hello", Order: 0},
			{Seconds: 75, Speaker: "Ann", Text: "hi", Order: 1},
		})

		So(out, ShouldContainSubstring, "1:15")
		So(out, ShouldContainSubstring, "Ann")
		So(out, ShouldContainSubstring, "#3 Night Walk · 2024-01-02")
		So(strings.Count(out, "\n"), ShouldBeGreaterThan, 3)
	})
}

func TestProtocol(t *testing.T) {
	Convey("The protocol command prints both schemas", t, func() {
		var out bytes.Buffer
		protocolCmd.SetOut(&out)
		protocolCmd.Run(protocolCmd, nil)

		var doc map[string]any
		So(json.Unmarshal(out.Bytes(), &doc), ShouldBeNil)
		So(doc, ShouldContainKey, "inbound")
		So(doc, ShouldContainKey, "outbound")
	})
}

func TestErrUnknownKey(t *testing.T) {
	Convey("Unknown config keys suggest the closest known one", t, func() {
		err := errUnknownKey("player.poll_interval")
		So(err.Error(), ShouldContainSubstring, "player.poll_interval_ms")
	})
}

func TestParseValue(t *testing.T) {
	Convey("Given values typed on the command line", t, func() {
		parse := func(k string, raw ...string) (any, error) {
			return parseValue(config.Default[k], raw)
		}

		Convey("The transport must name a known channel", func() {
			v, err := parse(key.PlayerTransport, "bridge")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, constant.TransportBridge)

			_, err = parse(key.PlayerTransport, "vlc")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "vlc")
		})

		Convey("The poll interval must be a positive integer", func() {
			v, err := parse(key.PlayerPollIntervalMs, "250")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 250)

			_, err = parse(key.PlayerPollIntervalMs, "0")
			So(err, ShouldNotBeNil)
			_, err = parse(key.PlayerPollIntervalMs, "-100")
			So(err, ShouldNotBeNil)
			_, err = parse(key.PlayerPollIntervalMs, "fast")
			So(err.Error(), ShouldContainSubstring, "integer")
		})

		Convey("The scroll margin may be zero but not negative", func() {
			v, err := parse(key.HighlightScrollMargin, "0")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0)

			_, err = parse(key.HighlightScrollMargin, "-1")
			So(err, ShouldNotBeNil)
		})

		Convey("The origin must parse as scheme and host", func() {
			v, err := parse(key.PlayerOrigin, "https://player.example")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "https://player.example")

			_, err = parse(key.PlayerOrigin, "player.example")
			So(err, ShouldNotBeNil)
			_, err = parse(key.PlayerOrigin, "https://player.example/watch")
			So(err, ShouldNotBeNil)
		})

		Convey("Booleans are parsed and a missing value is an error", func() {
			v, err := parse(key.TUIWrap, "false")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			_, err = parse(key.TUIWrap)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFollowRejectsBadConfig(t *testing.T) {
	Convey("Following refuses to start on a zero poll interval", t, func() {
		viper.Set(key.PlayerPollIntervalMs, 0)
		Reset(func() { viper.Set(key.PlayerPollIntervalMs, 500) })

		err := follow(rootCmd, "/does/not/matter.html")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, key.PlayerPollIntervalMs)
	})
}

func TestEnvVars(t *testing.T) {
	Convey("Every config key has a prefixed variable", t, func() {
		env := map[string]string{"LOCKSTEP_PLAYER_TRANSPORT": "bridge"}
		vars := envVars(func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		})

		So(len(vars), ShouldEqual, len(config.EnvExposed)+1)

		transport, ok := lo.Find(vars, func(v envVar) bool { return v.Key == key.PlayerTransport })
		So(ok, ShouldBeTrue)
		So(transport.Name, ShouldEqual, "LOCKSTEP_PLAYER_TRANSPORT")
		So(transport.Set, ShouldBeTrue)
		So(transport.Value, ShouldEqual, "bridge")

		_, ok = lo.Find(vars, func(v envVar) bool { return v.Name == where.EnvConfigPath && !v.Set })
		So(ok, ShouldBeTrue)

		names := lo.Map(vars, func(v envVar, _ int) string { return v.Name })
		So(lo.IsSortedByKey(names, func(s string) string { return s }), ShouldBeTrue)
	})
}

func TestLocations(t *testing.T) {
	Convey("Every location resolves to a path", t, func() {
		for _, l := range resolve(locations) {
			So(l.Path, ShouldNotBeEmpty)
		}
		So(resolve(locations)[0].Path, ShouldEndWith, "lockstep.toml")
	})
}

func TestCurrentBuild(t *testing.T) {
	Convey("Build info carries the configured channel", t, func() {
		info := currentBuild()
		So(info.Version, ShouldEqual, constant.Version)
		So(info.Transport, ShouldEqual, viper.GetString(key.PlayerTransport))
		So(info.Property, ShouldEqual, "percent-pos")
		So(info.Platform, ShouldContainSubstring, "/")
	})
}

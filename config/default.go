// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/lockstep-cli/lockstep/color"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/key"
	"github.com/lockstep-cli/lockstep/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string

	// Validate rejects values the rest of the program cannot use. Nil accepts anything.
	Validate func(any) error
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Lockstep + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string, validate ...func(any) error) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		if len(validate) > 0 {
			f.Validate = validate[0]
		}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerTransport, constant.TransportMPV, "Channel used to reach the player.\nAvailable options are: mpv, bridge", oneOf(constant.TransportMPV, constant.TransportBridge))
	register(key.PlayerOrigin, "", "Origin the player must report from.\nEmpty means the transport default (mpv://<socket> for mpv, required for bridge)", origin)
	register(key.PlayerProgressProperty, "percent-pos", "mpv property polled as the opaque progress value.\nAny numeric, writable property works (percent-pos, time-pos, playback-time)")
	register(key.PlayerPollIntervalMs, 500, "Interval between progress requests, in milliseconds", positive)
	register(key.PlayerBinary, "mpv", "mpv executable used when lockstep launches the player itself")
	register(key.BridgeListen, "127.0.0.1:7777", "Address the websocket bridge listens on")
	register(key.TranscriptSelector, "[data-start]", "CSS selector matching transcript entries")
	register(key.TranscriptStartAttr, "data-start", "Attribute holding an entry's start time in seconds")
	register(key.TranscriptSpeakerAttr, "data-speaker", "Attribute holding an entry's speaker name")
	register(key.HighlightScrollMargin, 2, "Rows from the top or bottom edge at which the active entry is scrolled to the centre", nonNegative)
	register(key.TUIShowSpeakers, true, "Show speaker names in front of transcript entries")
	register(key.TUIWrap, true, "Wrap long transcript entries to the terminal width")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, kaomoji, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))

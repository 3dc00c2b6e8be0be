// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Player Channel - these keys select and tune the transport to the embedded player.
const (
	PlayerTransport        = "player.transport"
	PlayerOrigin           = "player.origin"
	PlayerProgressProperty = "player.progress_property"
	PlayerPollIntervalMs   = "player.poll_interval_ms"
	PlayerBinary           = "player.binary"
)

// Websocket Bridge - these keys configure the HTTP surface embedding pages connect to.
const (
	BridgeListen = "bridge.listen"
)

// Transcript Markup - these keys describe how entries are found in a transcript page.
const (
	TranscriptSelector    = "transcript.selector"
	TranscriptStartAttr   = "transcript.start_attr"
	TranscriptSpeakerAttr = "transcript.speaker_attr"
)

// Highlighting
const (
	HighlightScrollMargin = "highlight.scroll_margin"
)

// Terminal User Interface (TUI) - these keys define the follower's styling.
const (
	TUIShowSpeakers = "tui.show_speakers"
	TUIWrap         = "tui.wrap"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

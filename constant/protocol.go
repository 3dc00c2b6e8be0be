package constant

// Inbound player event names.
const (
	EventProgress = "progress"
	EventSeekAck  = "seekAck"
)

// Outbound player command names.
const (
	MethodRequestProgress = "requestProgress"
	MethodSeek            = "seek"
	MethodPlay            = "play"
)

// Transport identifiers accepted by the player.transport setting.
const (
	TransportMPV    = "mpv"
	TransportBridge = "bridge"
)

// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Lockstep is the canonical application identifier used for filesystem paths and CLI branding.
	Lockstep = "lockstep"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent when transcript pages are fetched over HTTP.
	UserAgent = "lockstep/" + Version
)

// Build metadata, stamped with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

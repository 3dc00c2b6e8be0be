// Package transcript builds the time-ordered index of a transcript page and answers
// nearest-entry and boundary-crossing queries against it.
package transcript

import "fmt"

// Entry is one timestamped line of a transcript.
type Entry struct {
	Seconds float64 `json:"seconds"`
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`

	// Order is the entry's position in the source document.
	Order int `json:"order"`
}

// Label renders the entry start as h:mm:ss or m:ss.
func (e Entry) Label() string {
	return FormatSeconds(e.Seconds)
}

// FormatSeconds renders a non-negative offset the way transcript pages display it.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

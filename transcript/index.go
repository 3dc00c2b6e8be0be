package transcript

import (
	"errors"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrEmpty is returned when a page declares no usable timestamped entries.
var ErrEmpty = errors.New("transcript has no timestamped entries")

// Index is an immutable, ascending sequence of transcript entries.
type Index struct {
	entries []Entry
	times   []float64
	meta    Meta
}

// NewIndex sorts entries by start time, keeping document order for ties.
func NewIndex(entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seconds < sorted[j].Seconds
	})

	times := make([]float64, len(sorted))
	for i, e := range sorted {
		times[i] = e.Seconds
	}

	return &Index{entries: sorted, times: times}, nil
}

// Meta returns the page metadata found by Load; zero for indexes built directly.
func (x *Index) Meta() Meta {
	return x.meta
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// At returns the i-th entry in time order.
func (x *Index) At(i int) Entry {
	return x.entries[i]
}

// Timestamp returns the start of the i-th entry in seconds.
func (x *Index) Timestamp(i int) float64 {
	return x.times[i]
}

// Entries returns a copy of all entries in time order.
func (x *Index) Entries() []Entry {
	out := make([]Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

// FirstTimestamp returns the earliest start time.
func (x *Index) FirstTimestamp() float64 {
	return x.times[0]
}

// EntryAtOrBefore returns the largest index whose timestamp is <= seconds.
// Times before the first entry clamp to 0.
func (x *Index) EntryAtOrBefore(seconds float64) int {
	// first index with timestamp > seconds
	i := sort.Search(len(x.times), func(i int) bool {
		return x.times[i] > seconds
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// LastBoundaryWithin returns the furthest index i >= 1 such that
// Timestamp(i)-base <= delta, or -1 when no boundary after the first fits.
func (x *Index) LastBoundaryWithin(base, delta float64) int {
	i := sort.Search(len(x.times), func(i int) bool {
		return x.times[i]-base > delta
	})
	if i-1 < 1 {
		return -1
	}
	return i - 1
}

// Search returns, in time order, the indices of entries whose text fuzzily contains query.
func (x *Index) Search(query string) []int {
	if query == "" {
		return nil
	}

	var found []int
	for i, e := range x.entries {
		if fuzzy.MatchFold(query, e.Text) || fuzzy.MatchFold(query, e.Speaker) {
			found = append(found, i)
		}
	}
	return found
}

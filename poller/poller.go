// Package poller drives the engine forward by requesting progress on a fixed period.
package poller

import (
	"context"
	"time"
)

// DefaultInterval replaces a non-positive period.
const DefaultInterval = 500 * time.Millisecond

// Poller fires tick every Interval until its context is cancelled.
type Poller struct {
	Interval time.Duration
}

// New returns a poller with the given period, or DefaultInterval when it is not positive.
func New(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{Interval: interval}
}

// Run blocks, calling tick once per period. A slow tick delays the next one;
// ticks are never run concurrently.
func (p *Poller) Run(ctx context.Context, tick func()) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// Start runs the poller in the background, delivering ticks on the returned channel.
// A tick is dropped when the previous one has not been consumed.
func (p *Poller) Start(ctx context.Context) <-chan time.Time {
	ticks := make(chan time.Time, 1)
	go p.Run(ctx, func() {
		select {
		case ticks <- time.Now():
		default:
		}
	})
	return ticks
}

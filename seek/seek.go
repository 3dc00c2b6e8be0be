// Package seek turns user selections into player seeks once the progress mapping can be trusted.
package seek

import (
	"context"

	"github.com/samber/mo"
)

// Player is the subset of the gateway the coordinator commands.
type Player interface {
	Play(ctx context.Context) error
	Seek(ctx context.Context, progress float64) error
}

// Highlighter is the optimistic highlight hook.
type Highlighter interface {
	Update(seconds float64) bool
}

// Coordinator holds at most one pending seek. Not safe for concurrent use.
type Coordinator struct {
	player      Player
	highlighter Highlighter
	pending     mo.Option[float64]
}

func New(player Player, highlighter Highlighter) *Coordinator {
	return &Coordinator{
		player:      player,
		highlighter: highlighter,
		pending:     mo.None[float64](),
	}
}

// Pending returns the unresolved seek target in transcript seconds.
func (c *Coordinator) Pending() mo.Option[float64] {
	return c.pending
}

// Select records a user's intent to jump to seconds, replacing any unresolved
// intent. When the mapping is locked the highlight moves right away. Play is
// always issued; its error (usually no peer yet) is returned for logging only.
func (c *Coordinator) Select(ctx context.Context, seconds float64, locked bool) error {
	c.pending = mo.Some(seconds)

	if locked {
		c.highlighter.Update(seconds)
	}

	return c.player.Play(ctx)
}

// Resolve issues the seek for target and clears the pending intent. A stale
// resolution whose target was replaced in the meantime is ignored.
func (c *Coordinator) Resolve(ctx context.Context, target, progress float64) error {
	pending, ok := c.pending.Get()
	if !ok || pending != target {
		return nil
	}

	if err := c.player.Seek(ctx, progress); err != nil {
		return err
	}

	c.pending = mo.None[float64]()
	return nil
}

// Package highlight keeps the active transcript entry in step with mapped playback time.
package highlight

import (
	"github.com/samber/mo"
)

// Locator finds the entry active at a given time.
type Locator interface {
	EntryAtOrBefore(seconds float64) int
}

// View is the visual surface the controller drives.
type View interface {
	Activate(index int)
	Deactivate(index int)

	// Bounds reports the entry's top and bottom edge relative to the top of the
	// visible area, and the height of that area. ok is false when the view
	// cannot tell, in which case no scrolling happens.
	Bounds(index int) (top, bottom, height int, ok bool)

	ScrollToCenter(index int)
}

// Controller is not safe for concurrent use.
type Controller struct {
	locator Locator
	view    View
	margin  int
	active  mo.Option[int]
}

// New returns a controller that recentres the active entry once it comes within
// margin of the visible area's top or bottom edge.
func New(locator Locator, view View, margin int) *Controller {
	return &Controller{
		locator: locator,
		view:    view,
		margin:  margin,
		active:  mo.None[int](),
	}
}

// Active returns the currently highlighted entry.
func (c *Controller) Active() mo.Option[int] {
	return c.active
}

// Update highlights the entry at seconds. It reports whether the active entry changed.
func (c *Controller) Update(seconds float64) bool {
	next := c.locator.EntryAtOrBefore(seconds)

	prev, ok := c.active.Get()
	if ok && prev == next {
		return false
	}
	if ok {
		c.view.Deactivate(prev)
	}

	c.view.Activate(next)
	c.active = mo.Some(next)

	if top, bottom, height, ok := c.view.Bounds(next); ok && c.nearEdge(top, bottom, height) {
		c.view.ScrollToCenter(next)
	}

	return true
}

func (c *Controller) nearEdge(top, bottom, height int) bool {
	return top < c.margin || bottom > height-c.margin
}

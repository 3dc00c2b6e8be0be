// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/icon"
	"github.com/lockstep-cli/lockstep/internal/ui"
	"github.com/lockstep-cli/lockstep/open"
	"github.com/lockstep-cli/lockstep/transcript"
	"github.com/lockstep-cli/lockstep/util"
	"github.com/samber/mo"
)

// Messages sent into the program by the session goroutine.
type (
	activateMsg   struct{ index int }
	deactivateMsg struct{ index int }
	centerMsg     struct{ index int }
	stateMsg      struct{ state calibration.State }
)

// onActivate marks index as the playing entry; the cursor tracks it while following.
func (b *statefulBubble) onActivate(index int) {
	b.active = mo.Some(index)
	if b.following {
		b.cursor = index
	}
	b.render()
}

func (b *statefulBubble) onDeactivate(index int) {
	if active, ok := b.active.Get(); ok && active == index {
		b.active = mo.None[int]()
	}
	b.render()
}

// center scrolls so that the entry's middle sits in the middle of the viewport.
func (b *statefulBubble) center(index int) {
	top, bottom, _, ok := b.layout.bounds(index)
	if !ok {
		return
	}

	mid := b.viewportC.YOffset + (top+bottom)/2
	b.viewportC.SetYOffset(mid - b.viewportC.Height/2)
}

// reveal scrolls the minimum needed for the entry to be fully visible.
func (b *statefulBubble) reveal(index int) {
	top, bottom, height, ok := b.layout.bounds(index)
	if !ok {
		return
	}

	switch {
	case top < 0:
		b.viewportC.SetYOffset(b.viewportC.YOffset + top)
	case bottom > height:
		b.viewportC.SetYOffset(b.viewportC.YOffset + bottom - height)
	}
}

// moveCursor places the cursor on index and stops following playback.
func (b *statefulBubble) moveCursor(index int) {
	if b.index.Len() == 0 {
		return
	}

	b.cursor = util.Clamp(index, 0, b.index.Len()-1)
	b.following = false
	b.render()
	b.syncViewport()
	b.reveal(b.cursor)
}

// resumeFollowing returns the cursor to the playing entry.
func (b *statefulBubble) resumeFollowing() tea.Cmd {
	b.following = true
	active, ok := b.active.Get()
	if !ok {
		return ui.Notify("nothing is playing yet")
	}

	b.cursor = active
	b.render()
	b.syncViewport()
	b.center(active)
	return nil
}

// seekToCursor hands the cursor entry to the session. The send happens off the
// update loop so a busy session cannot stall the interface.
func (b *statefulBubble) seekToCursor() tea.Cmd {
	if b.selector == nil {
		return nil
	}

	entry := b.index.At(b.cursor)
	selector := b.selector
	b.following = true

	return tea.Batch(
		func() tea.Msg {
			selector.Select(entry.Seconds)
			return nil
		},
		ui.Notify(fmt.Sprintf("%s %s", icon.Get(icon.Seek), entry.Label())),
	)
}

// copyCursor puts the cursor entry and a deep link to it on the clipboard.
func (b *statefulBubble) copyCursor() tea.Cmd {
	entry := b.index.At(b.cursor)
	text := entry.Text
	if b.location != "" {
		text += "\n" + transcript.Link(b.location, entry.Seconds)
	}

	if err := clipboard.WriteAll(text); err != nil {
		return ui.Notify(fmt.Sprintf("%s clipboard: %v", icon.Get(icon.Fail), err))
	}
	return ui.Notify(icon.Get(icon.Copy) + " " + entry.Label())
}

// openCursor opens the deep link to the cursor entry in the browser.
func (b *statefulBubble) openCursor() tea.Cmd {
	if b.location == "" {
		return nil
	}

	link := transcript.Link(b.location, b.index.At(b.cursor).Seconds)
	if err := open.Start(link); err != nil {
		return ui.Notify(fmt.Sprintf("%s open: %v", icon.Get(icon.Fail), err))
	}
	return nil
}

// runFind searches the transcript and jumps to the first hit.
func (b *statefulBubble) runFind(query string) tea.Cmd {
	b.query = query
	b.matches = b.index.Search(query)
	b.matchAt = 0

	if len(b.matches) == 0 {
		b.render()
		return ui.Notify(fmt.Sprintf("%s no match for %q", icon.Get(icon.Search), query))
	}

	b.moveCursor(b.matches[0])
	return nil
}

// stepMatch moves to the next (delta 1) or previous (delta -1) search hit.
func (b *statefulBubble) stepMatch(delta int) {
	if len(b.matches) == 0 {
		return
	}

	b.matchAt = (b.matchAt + delta + len(b.matches)) % len(b.matches)
	b.moveCursor(b.matches[b.matchAt])
}

// syncViewport publishes the viewport position to the session side.
func (b *statefulBubble) syncViewport() {
	b.layout.storeViewport(b.viewportC.YOffset, b.viewportC.Height)
}

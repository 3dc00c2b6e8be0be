// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/icon"
	"github.com/lockstep-cli/lockstep/internal/ui"
	"github.com/lockstep-cli/lockstep/key"
	"github.com/lockstep-cli/lockstep/transcript"
	"github.com/lockstep-cli/lockstep/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Selector receives the user's seek requests.
type Selector interface {
	Select(seconds float64)
}

// layout is the rendered geometry shared with the session goroutine, which asks
// for entry bounds while the program owns the viewport.
type layout struct {
	mu      sync.RWMutex
	offsets []int // first content row of each entry
	heights []int
	yOffset int
	height  int
}

func (l *layout) storeRows(offsets, heights []int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.offsets, l.heights = offsets, heights
}

func (l *layout) storeViewport(yOffset, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.yOffset, l.height = yOffset, height
}

// bounds returns the entry's rows relative to the top of the viewport.
func (l *layout) bounds(index int) (top, bottom, height int, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.offsets) || l.height == 0 {
		return 0, 0, 0, false
	}

	top = l.offsets[index] - l.yOffset
	return top, top + l.heights[index], l.height, true
}

// statefulBubble is the follower screen: the transcript in a viewport, a cursor
// for picking seek targets and a calibration status line.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	viewportC viewport.Model
	inputC    textinput.Model
	helpC     help.Model
	notifier  *ui.Model

	index    *transcript.Index
	location string
	title    string
	selector Selector
	layout   *layout

	cursor    int
	active    mo.Option[int]
	following bool
	status    calibration.State

	query   string
	matches []int
	matchAt int

	lastError     error
	width, height int
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()

	input := textinput.New()
	input.Placeholder = "find in transcript"
	input.Prompt = icon.Get(icon.Search) + " "
	input.CharLimit = 120

	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		viewportC:     viewport.New(0, 0),
		inputC:        input,
		helpC:         help.New(),
		notifier:      &ui.Model{},
		index:         options.Transcript,
		location:      options.Location,
		title:         lo.Ternary(options.Title != "", options.Title, "Transcript"),
		layout:        &layout{},
		active:        mo.None[int](),
		following:     true,
		status:        calibration.NewState(),
	}

	// the viewport's own bindings would fight the cursor keys
	bubble.viewportC.KeyMap = viewport.KeyMap{}
	bubble.setState(followState)

	return &bubble
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState transitions to s and records the previous state, unless already there.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	b.statesHistory.Push(b.state)
	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates terminal dimension changes to the viewport and re-lays out the transcript.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.viewportC.Width = b.width
	b.viewportC.Height = max(b.height-chromeRows, 1)
	b.helpC.Width = b.width
	b.inputC.Width = b.width - 4

	b.render()
}

func (b *statefulBubble) showSpeakers() bool {
	return viper.GetBool(key.TUIShowSpeakers)
}

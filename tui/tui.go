// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/transcript"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Transcript *transcript.Index

	// Location is where the transcript was loaded from; copied entries link back to it.
	Location string
	Title    string
}

// Follower is the interactive transcript view. It implements highlight.View;
// those methods are safe to call from any goroutine.
type Follower struct {
	bubble  *statefulBubble
	program *tea.Program
}

// New prepares the interface. Nothing is drawn until Run.
func New(options *Options) *Follower {
	bubble := newBubble(options)
	return &Follower{
		bubble:  bubble,
		program: tea.NewProgram(bubble, tea.WithAltScreen()),
	}
}

// Run executes the Bubble Tea loop until the user quits or ctx is cancelled.
func (f *Follower) Run(ctx context.Context, selector Selector) error {
	f.bubble.selector = selector

	go func() {
		<-ctx.Done()
		f.program.Quit()
	}()

	_, err := f.program.Run()
	return err
}

// Activate implements highlight.View.
func (f *Follower) Activate(index int) {
	f.program.Send(activateMsg{index: index})
}

// Deactivate implements highlight.View.
func (f *Follower) Deactivate(index int) {
	f.program.Send(deactivateMsg{index: index})
}

// Bounds implements highlight.View from the last published layout.
func (f *Follower) Bounds(index int) (top, bottom, height int, ok bool) {
	return f.bubble.layout.bounds(index)
}

// ScrollToCenter implements highlight.View.
func (f *Follower) ScrollToCenter(index int) {
	f.program.Send(centerMsg{index: index})
}

// SetState shows a calibration change in the status line.
func (f *Follower) SetState(state calibration.State) {
	f.program.Send(stateMsg{state: state})
}

// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	defer b.syncViewport()

	// Process Ephemeral UI Notifications
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case activateMsg:
		b.onActivate(msg.index)
		return b, cmd
	case deactivateMsg:
		b.onDeactivate(msg.index)
		return b, cmd
	case centerMsg:
		b.syncViewport()
		b.center(msg.index)
		return b, cmd
	case stateMsg:
		b.status = msg.state
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		if bubblesKey.Matches(msg, b.keymap.back) && b.state != followState {
			b.inputC.Blur()
			b.previousState()
			return b, cmd
		}
	}

	var stateCmd tea.Cmd
	switch b.state {
	case followState:
		stateCmd = b.updateFollow(msg)
	case findState:
		stateCmd = b.updateFind(msg)
	case errorState:
		stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

func (b *statefulBubble) updateFollow(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		b.viewportC, cmd = b.viewportC.Update(msg)
		return cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.up):
		b.moveCursor(b.cursor - 1)
	case bubblesKey.Matches(keyMsg, b.keymap.down):
		b.moveCursor(b.cursor + 1)
	case bubblesKey.Matches(keyMsg, b.keymap.top):
		b.moveCursor(0)
	case bubblesKey.Matches(keyMsg, b.keymap.bottom):
		b.moveCursor(b.index.Len() - 1)
	case bubblesKey.Matches(keyMsg, b.keymap.seek):
		return b.seekToCursor()
	case bubblesKey.Matches(keyMsg, b.keymap.follow):
		return b.resumeFollowing()
	case bubblesKey.Matches(keyMsg, b.keymap.copy):
		return b.copyCursor()
	case bubblesKey.Matches(keyMsg, b.keymap.openLink):
		return b.openCursor()
	case bubblesKey.Matches(keyMsg, b.keymap.nextMatch):
		b.stepMatch(1)
	case bubblesKey.Matches(keyMsg, b.keymap.prevMatch):
		b.stepMatch(-1)
	case bubblesKey.Matches(keyMsg, b.keymap.find):
		b.inputC.SetValue(b.query)
		b.newState(findState)
		return b.inputC.Focus()
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

func (b *statefulBubble) updateFind(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(keyMsg, b.keymap.confirm) {
		query := strings.TrimSpace(b.inputC.Value())
		b.inputC.Blur()
		b.previousState()

		if query == "" {
			b.query, b.matches = "", nil
			b.render()
			return nil
		}
		return b.runFind(query)
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(keyMsg, b.keymap.quit) {
		return tea.Quit
	}
	return nil
}

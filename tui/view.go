// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/color"
	"github.com/lockstep-cli/lockstep/icon"
	"github.com/lockstep-cli/lockstep/key"
	"github.com/lockstep-cli/lockstep/style"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// chromeRows is everything around the viewport: title, two spacers, status and help.
const chromeRows = 5

var (
	paddingStyle = lipgloss.NewStyle().Padding(1, 2)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor)
	speakerStyle = lipgloss.NewStyle().Foreground(style.SecondaryColor)
	matchStyle   = lipgloss.NewStyle().Underline(true)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case followState:
		output = b.viewFollow()
	case findState:
		output = b.viewFind()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewFollow() string {
	return b.renderLines(true, []string{
		style.Title(b.title),
		"",
		b.viewportC.View(),
		"",
		style.Truncate(b.width)(b.statusLine()),
	})
}

func (b *statefulBubble) viewFind() string {
	return b.renderLines(true, []string{
		style.Title("Find"),
		"",
		b.inputC.View(),
	})
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError.Error()))
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

// statusLine summarizes calibration for the user.
func (b *statefulBubble) statusLine() string {
	s := b.status

	var phase string
	switch s.Phase {
	case calibration.Locked:
		phase = style.Fg(color.Green)(icon.Get(icon.Locked) + " locked") +
			style.Faint(fmt.Sprintf(" %.4f s/unit", s.Scale))
	case calibration.AwaitingLock:
		phase = style.Fg(color.Yellow)(icon.Get(icon.Calibrating) + " calibrating")
	default:
		phase = style.Faint(icon.Get(icon.Waiting) + " waiting for player")
	}

	parts := []string{phase}
	if s.IsAd && s.Phase != calibration.NoBaseline {
		parts = append(parts, style.Fg(color.Red)(icon.Get(icon.Ad)+" not content"))
	}
	if active, ok := b.active.Get(); ok {
		parts = append(parts, style.Faint(b.index.At(active).Label()))
	}
	if len(b.matches) > 0 {
		parts = append(parts, style.Faint(fmt.Sprintf("match %d/%d", b.matchAt+1, len(b.matches))))
	}

	return strings.Join(parts, "  ")
}

// render lays out every entry, feeds the viewport and publishes the geometry.
func (b *statefulBubble) render() {
	if b.width <= 0 {
		return
	}

	n := b.index.Len()
	offsets := make([]int, n)
	heights := make([]int, n)
	blocks := make([]string, n)

	row := 0
	for i := 0; i < n; i++ {
		blocks[i] = b.renderEntry(i)
		offsets[i] = row
		heights[i] = lipgloss.Height(blocks[i])
		row += heights[i]
	}

	b.viewportC.SetContent(strings.Join(blocks, "\n"))
	b.layout.storeRows(offsets, heights)
}

func (b *statefulBubble) labelWidth() int {
	last := b.index.At(b.index.Len() - 1)
	return lipgloss.Width(last.Label())
}

func (b *statefulBubble) renderEntry(i int) string {
	entry := b.index.At(i)

	marker := "  "
	if i == b.cursor {
		marker = style.Fg(color.Orange)("> ")
	}

	label := fmt.Sprintf("%*s ", b.labelWidth(), entry.Label())
	gutter := lipgloss.Width(marker) + lipgloss.Width(label)

	text := entry.Text
	if b.showSpeakers() && entry.Speaker != "" {
		text = speakerStyle.Render(entry.Speaker+":") + " " + text
	}

	if lo.Contains(b.matches, i) {
		text = matchStyle.Render(text)
	}

	width := max(b.width-gutter, 1)
	if viper.GetBool(key.TUIWrap) {
		text = wrap.String(wordwrap.String(text, width), width)
	} else {
		text = truncate.StringWithTail(text, uint(width), "…")
	}

	if active, ok := b.active.Get(); ok && active == i {
		text = activeStyle.Render(text)
		label = activeStyle.Render(label)
	} else {
		label = style.Faint(label)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, marker, label, text)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	for _, line := range lines {
		h += lipgloss.Height(line) - 1
	}

	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

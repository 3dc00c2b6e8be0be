// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/lockstep-cli/lockstep/calibration"
	"github.com/lockstep-cli/lockstep/icon"
	"github.com/lockstep-cli/lockstep/transcript"
)

// Plain prints each newly active entry as a line. It never scrolls.
type Plain struct {
	mu    sync.Mutex
	out   io.Writer
	index *transcript.Index
	phase calibration.Phase
	ad    bool
}

// NewPlain writes to out.
func NewPlain(out io.Writer, index *transcript.Index) *Plain {
	return &Plain{out: out, index: index, phase: calibration.NoBaseline, ad: true}
}

func (p *Plain) Activate(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry := p.index.At(index)
	if entry.Speaker != "" {
		fmt.Fprintf(p.out, "[%s] %s: %s\n", entry.Label(), entry.Speaker, entry.Text)
		return
	}
	fmt.Fprintf(p.out, "[%s] %s\n", entry.Label(), entry.Text)
}

func (p *Plain) Deactivate(int) {}

func (p *Plain) Bounds(int) (int, int, int, bool) {
	return 0, 0, 0, false
}

func (p *Plain) ScrollToCenter(int) {}

// SetState reports phase changes and ad transitions once calibration started.
func (p *Plain) SetState(state calibration.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if state.Phase != p.phase {
		p.phase = state.Phase
		switch state.Phase {
		case calibration.AwaitingLock:
			fmt.Fprintf(p.out, "%s calibrating from %s\n", icon.Get(icon.Calibrating), transcript.FormatSeconds(state.BaseTime))
		case calibration.Locked:
			fmt.Fprintf(p.out, "%s locked at %.4f s/unit\n", icon.Get(icon.Locked), state.Scale)
		}
	}

	if state.Phase != calibration.NoBaseline && state.IsAd != p.ad {
		if state.IsAd {
			fmt.Fprintf(p.out, "%s not content\n", icon.Get(icon.Ad))
		}
	}
	p.ad = state.IsAd
}

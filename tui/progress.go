package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const progressInterval = 100 * time.Millisecond

// progress is written by the runner's workers and read by View.
type progress struct {
	done  atomic.Int64
	total atomic.Int64
}

func (p *progress) update(done, total int) {
	p.total.Store(int64(total))
	for {
		cur := p.done.Load()
		if int64(done) <= cur || p.done.CompareAndSwap(cur, int64(done)) {
			return
		}
	}
}

func (p *progress) reset() {
	p.done.Store(0)
	p.total.Store(0)
}

func (p *progress) load() (done, total int) {
	return int(p.done.Load()), int(p.total.Load())
}

// progressTickMsg redraws the status bar while a command runs.
type progressTickMsg struct{}

func tickProgress() tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/skirmish/console"
	"github.com/nathoo/skirmish/types"
)

// status is a snapshot of the session for the status bar. It is taken
// on the goroutine that ran the command so View never reads the session
// while a run is in flight.
type status struct {
	scenario string
	terrain  types.Terrain
	seed     int64
	victory  float64
	trials   int // trials of the last run, 0 before any run
}

func snapshot(s *console.Session) status {
	st := status{seed: s.Seed()}
	if sc, ok := s.Current(); ok {
		st.scenario = sc.Name
		st.terrain = sc.Terrain
	}
	if last := s.Last(); last != nil {
		st.trials = last.Trials
		st.victory = last.Percent(types.OutcomeVictory)
	}
	return st
}

// renderStatusBar produces a full-width inverted status line showing the
// selected scenario, terrain, seed and the last run's victory share.
func (m Model) renderStatusBar() string {
	st := m.status

	name := st.scenario
	if name == "" {
		name = "no scenario"
	}
	left := fmt.Sprintf(" %s | %s | Seed: %d", name, st.terrain, st.seed)
	if st.terrain == "" {
		left = fmt.Sprintf(" %s | Seed: %d", name, st.seed)
	}

	right := ""
	if st.trials > 0 {
		right = fmt.Sprintf("V: %.1f%% of %d ", st.victory, st.trials)
	}
	style := styleStatusBar
	if m.busy {
		right = "running... "
		if done, total := m.progress.load(); total > 0 {
			right = fmt.Sprintf("running... %d/%d ", done, total)
		}
		style = styleBusy
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return style.Width(m.width).Render(bar)
}

package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

// MaxBuckets limits the rows of the combined view.
const MaxBuckets = 10

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Render formats a summary as text tables. Width limits the table width;
// zero means unconstrained.
func Render(s *sim.Summary, width int) string {
	var b strings.Builder

	title := s.Scenario
	if s.Title != "" {
		title = s.Title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Terrain: %s  Trials: %d  Seed: %d\n", s.Terrain, s.Trials, s.Seed)

	outcomes := newTable(width).Headers("Outcome", "Count", "Share")
	for _, o := range sim.Outcomes() {
		if o == types.OutcomeUndecided && s.Outcomes[o] == 0 {
			continue
		}
		outcomes.Row(string(o), fmt.Sprint(s.Outcomes[o]), fmt.Sprintf("%.1f%%", s.Percent(o)))
	}
	b.WriteString(outcomes.String())
	b.WriteString("\n")

	stats := newTable(width).Headers("Net resources", "Value")
	stats.Row("mean", fmt.Sprintf("%.2f", s.NetMean))
	stats.Row("min", fmt.Sprint(s.NetMin))
	stats.Row("max", fmt.Sprint(s.NetMax))
	stats.Row("mean rounds", fmt.Sprintf("%.2f", s.MeanRounds))
	b.WriteString(stats.String())
	b.WriteString("\n")

	buckets := s.Buckets()
	combined := newTable(width).Headers("Outcome, net resources", "Count")
	for i, bk := range buckets {
		if i == MaxBuckets {
			combined.Row(fmt.Sprintf("(%d more)", len(buckets)-MaxBuckets), "")
			break
		}
		combined.Row(bk.Key, fmt.Sprint(bk.Count))
	}
	b.WriteString(combined.String())

	if s.Anomalies > 0 {
		fmt.Fprintf(&b, "\nWarning: %d trials hit the round cap and are undecided.", s.Anomalies)
	}
	return b.String()
}

func newTable(width int) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t
}

package sim

import (
	"fmt"
	"sort"

	"github.com/nathoo/skirmish/types"
)

// Summary aggregates the results of one run.
type Summary struct {
	Scenario string        `json:"scenario"`
	Title    string        `json:"title,omitempty"`
	Terrain  types.Terrain `json:"terrain"`
	Seed     int64         `json:"seed"`
	Trials   int           `json:"trials"`

	Outcomes map[types.Outcome]int `json:"outcomes"`
	// Combined counts "outcome, net resources" pairs.
	Combined map[string]int `json:"combined"`

	NetMean    float64 `json:"net_mean"`
	NetMin     int     `json:"net_min"`
	NetMax     int     `json:"net_max"`
	MeanRounds float64 `json:"mean_rounds"`
	Anomalies  int     `json:"anomalies"`
}

// CombinedKey formats the combined outcome and net-resource bucket.
func CombinedKey(r types.BattleResult) string {
	return fmt.Sprintf("%s, %d", r.Outcome, r.NetResources)
}

// Summarize aggregates results. It runs after every trial has finished.
func Summarize(sc Scenario, seed int64, results []types.BattleResult) *Summary {
	s := &Summary{
		Scenario: sc.Name,
		Title:    sc.Title,
		Terrain:  sc.Terrain,
		Seed:     seed,
		Trials:   len(results),
		Outcomes: map[types.Outcome]int{},
		Combined: map[string]int{},
	}
	if len(results) == 0 {
		return s
	}

	s.NetMin, s.NetMax = results[0].NetResources, results[0].NetResources
	netSum, roundSum := 0, 0
	for _, r := range results {
		s.Outcomes[r.Outcome]++
		s.Combined[CombinedKey(r)]++
		netSum += r.NetResources
		roundSum += r.Rounds
		s.NetMin = min(s.NetMin, r.NetResources)
		s.NetMax = max(s.NetMax, r.NetResources)
		if r.Anomaly {
			s.Anomalies++
		}
	}
	s.NetMean = float64(netSum) / float64(len(results))
	s.MeanRounds = float64(roundSum) / float64(len(results))
	return s
}

// Percent returns the share of trials with outcome o, in percent.
func (s *Summary) Percent(o types.Outcome) float64 {
	if s.Trials == 0 {
		return 0
	}
	return 100 * float64(s.Outcomes[o]) / float64(s.Trials)
}

// Bucket is one row of the combined view.
type Bucket struct {
	Key   string
	Count int
}

// Buckets returns the combined counts, most frequent first, ties by key.
func (s *Summary) Buckets() []Bucket {
	out := make([]Bucket, 0, len(s.Combined))
	for k, n := range s.Combined {
		out = append(out, Bucket{k, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Outcomes lists the outcomes in display order.
func Outcomes() []types.Outcome {
	return []types.Outcome{types.OutcomeVictory, types.OutcomeDraw, types.OutcomeDefeat, types.OutcomeUndecided}
}

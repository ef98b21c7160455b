package console

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

func testSet() *loader.Set {
	return &loader.Set{
		Scenarios: []sim.Scenario{
			{
				Name:    "uprising",
				Title:   "The Uprising",
				Terrain: types.TerrainFrozenWastes,
				Player: types.ArmySpec{Variant: "standard", Units: []types.UnitCount{
					{Name: "CrabRider", Count: 2},
					{Name: "Harpooneers", Count: 2},
					{Name: "Reef King", Count: 1},
				}},
				Enemy: types.ArmySpec{Variant: "garrison", Units: []types.UnitCount{
					{Name: "Garrison2", Count: 1},
				}},
				Roll:   []types.ModSpec{{Name: "TerrainRoll"}},
				Result: []types.ModSpec{{Name: "TerrainResult"}, {Name: "Harvest", Side: types.SidePlayer}},
				Trials: 40,
			},
			{
				Name:    "forest",
				Terrain: types.TerrainForest,
				Player: types.ArmySpec{Variant: "standard", Units: []types.UnitCount{
					{Name: "Stoneshell", Count: 3},
				}},
				Enemy: types.ArmySpec{Variant: "garrison", Units: []types.UnitCount{
					{Name: "Garrison3", Count: 1},
				}},
				Result:   []types.ModSpec{{Name: "Reroll", Side: types.SideEnemy, Count: 2}},
				RoundCap: 50,
			},
		},
		Warnings: []string{"forest: something minor"},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New(testSet(), &sim.Runner{Seed: 7, Workers: 2}, t.TempDir())
}

func step(s *Session, input string) types.Output {
	return s.Step(context.Background(), input)
}

func joined(out types.Output) string {
	return strings.Join(out.Lines, "\n")
}

func TestIntro(t *testing.T) {
	out := newTestSession(t).Intro()
	text := joined(out)
	assert.Contains(t, text, "2 scenarios loaded.")
	assert.Contains(t, text, "warning: forest: something minor")
	assert.Contains(t, text, "Selected uprising.")

	empty := New(nil, nil, "").Intro()
	assert.Contains(t, joined(empty), "No scenarios loaded")
}

func TestListAndUse(t *testing.T) {
	s := newTestSession(t)
	out := step(s, "ls")
	require.Len(t, out.Lines, 2)
	assert.Equal(t, "* uprising - The Uprising (Frozen Wastes)", out.Lines[0])
	assert.Equal(t, "  forest (Forest)", out.Lines[1])

	assert.Contains(t, joined(step(s, "use nowhere")), `No scenario named "nowhere"`)
	assert.Contains(t, joined(step(s, "use")), "Use which scenario?")

	step(s, "use forest")
	sc, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "forest", sc.Name)
}

func TestShow(t *testing.T) {
	s := newTestSession(t)
	text := joined(step(s, "show"))
	assert.Contains(t, text, "uprising: The Uprising")
	assert.Contains(t, text, "Trials: 40")
	assert.Contains(t, text, "Player (standard): 2 CrabRider, 2 Harpooneers, 1 Reef King")
	assert.Contains(t, text, "Enemy (garrison): 1 Garrison2")
	assert.Contains(t, text, "Result: TerrainResult, Harvest(player)")

	step(s, "use forest")
	text = joined(step(s, "info"))
	assert.Contains(t, text, "Round cap: 50")
	assert.Contains(t, text, "Reroll(enemy, 2)")
}

func TestUnits(t *testing.T) {
	text := joined(step(newTestSession(t), "units"))
	assert.Contains(t, text, "Reef King")
	assert.Contains(t, text, "Garrison3")
}

func TestRun(t *testing.T) {
	s := newTestSession(t)
	out := step(s, "run 25")
	text := joined(out)
	assert.Contains(t, text, "The Uprising")
	assert.Contains(t, text, "Trials: 25")
	assert.Empty(t, out.Trace, "run logs are off by default")

	require.NotNil(t, s.Last())
	assert.Equal(t, 25, s.Last().Trials)

	step(s, "/trace")
	out = step(s, "r 5")
	assert.Contains(t, strings.Join(out.Trace, "\n"), "starting run")
}

func TestRun_BadArgument(t *testing.T) {
	s := newTestSession(t)
	assert.Contains(t, joined(step(s, "run lots")), "positive number")
	assert.Contains(t, joined(step(s, "run 0")), "positive number")
	assert.Nil(t, s.Last())
}

func TestBattle_MatchesRun(t *testing.T) {
	s := newTestSession(t)
	runner := &sim.Runner{Seed: 7}
	sc, _ := s.Current()
	results, err := runner.Results(context.Background(), sc)
	require.NoError(t, err)

	out := step(s, "battle 3")
	text := joined(out)
	assert.Contains(t, text, "performing archery round")
	assert.Contains(t, text, "Trial 3: "+string(results[3].Outcome))

	assert.Contains(t, joined(step(s, "b -1")), "Trial must be a number")
}

func TestTerrain(t *testing.T) {
	s := newTestSession(t)
	assert.Contains(t, joined(step(s, "terrain")), "Options: Mountain, Forest")

	step(s, "terrain mountain")
	sc, _ := s.Current()
	assert.Equal(t, types.TerrainMountain, sc.Terrain)

	assert.Contains(t, joined(step(s, "terrain lava")), "unknown terrain")

	step(s, "use uprising")
	sc, _ = s.Current()
	assert.Equal(t, types.TerrainFrozenWastes, sc.Terrain, "selecting again drops the override")
}

func TestSeed(t *testing.T) {
	s := newTestSession(t)
	assert.Contains(t, joined(step(s, "seed")), "Seed is 7.")
	step(s, "seed 42")
	assert.Equal(t, int64(42), s.Seed())
	assert.Contains(t, joined(step(s, "seed x")), "must be an integer")
}

func TestAgain(t *testing.T) {
	s := newTestSession(t)
	out := step(s, "g")
	assert.True(t, out.System)
	assert.Contains(t, joined(out), "Nothing to repeat.")

	step(s, "seed 9")
	step(s, "seed")
	assert.Contains(t, joined(step(s, "again")), "Seed is 9.")
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestSession(t)
	assert.Contains(t, joined(step(s, "/save")), "Nothing to save yet")

	step(s, "run 10")
	out := step(s, "/save")
	assert.True(t, out.System)
	assert.Contains(t, joined(out), "uprising.json")
	_, err := os.Stat(filepath.Join(s.reportDir, "uprising.json"))
	require.NoError(t, err)

	loaded := joined(step(s, "/load"))
	assert.Contains(t, loaded, "Report uprising loaded (seed 7).")
	assert.Contains(t, loaded, "Trials: 10")

	assert.Contains(t, joined(step(s, "/load missing")), "Load failed")
	assert.Contains(t, joined(step(s, "/save ../escape")), "Save failed")
}

func TestMetaCommands(t *testing.T) {
	s := newTestSession(t)
	help := joined(step(s, "/help"))
	for _, want := range []string{"/save", "/load", "/quit", "run [trials]"} {
		assert.Contains(t, help, want)
	}

	state := joined(step(s, "/state"))
	assert.Contains(t, state, "Seed: 7")
	assert.Contains(t, state, "Scenario: uprising on Frozen Wastes, 40 trials")

	assert.Contains(t, joined(step(s, "/trace")), "enabled")
	assert.True(t, s.Trace())
	assert.Contains(t, joined(step(s, "/trace")), "disabled")

	assert.Contains(t, joined(step(s, "/bogus")), "Unknown command: /bogus")

	out := step(s, "/quit")
	assert.True(t, out.Quit)
}

func TestUnknownAndEmpty(t *testing.T) {
	s := newTestSession(t)
	assert.Contains(t, joined(step(s, "dance")), `Unknown command "dance"`)
	assert.Empty(t, step(s, "   ").Lines)
}

func TestNoScenario(t *testing.T) {
	s := New(nil, nil, t.TempDir())
	for _, cmd := range []string{"run", "battle", "show", "terrain Forest"} {
		assert.Contains(t, joined(step(s, cmd)), "No scenario selected", cmd)
	}
	assert.Contains(t, joined(step(s, "list")), "No scenarios loaded.")
}

func TestRun_TraceWithConcurrentWorkers(t *testing.T) {
	set := &loader.Set{Scenarios: []sim.Scenario{{
		Name:    "stalemate",
		Terrain: types.TerrainForest,
		Player: types.ArmySpec{Variant: "standard", Units: []types.UnitCount{
			{Name: "Stoneshell", Count: 5},
		}},
		Enemy: types.ArmySpec{Variant: "garrison", Units: []types.UnitCount{
			{Name: "Garrison3", Count: 1},
		}},
		RoundCap: 1,
		Trials:   1000,
	}}}
	s := New(set, &sim.Runner{Seed: 7, Workers: 8}, t.TempDir())
	step(s, "/trace")

	out := step(s, "run")
	require.NotNil(t, s.Last())
	assert.Equal(t, 1000, s.Last().Trials)

	var capped int
	for _, line := range out.Trace {
		if strings.Contains(line, "trial hit the round cap") {
			capped++
		}
	}
	assert.Positive(t, capped)
	assert.Equal(t, s.Last().Anomalies, capped, "one intact warning line per capped trial")
}

func TestRun_ReportsProgress(t *testing.T) {
	s := newTestSession(t)
	var (
		mu        sync.Mutex
		calls     int
		maxDone   int
		totalSeen int
	)
	s.Progress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		maxDone = max(maxDone, done)
		totalSeen = total
	}
	step(s, "run 30")

	assert.Equal(t, 30, calls)
	assert.Equal(t, 30, maxDone)
	assert.Equal(t, 30, totalSeen)
}

// Package console implements the command session shared by the plain and
// the full-screen front ends: scenario selection, Monte-Carlo runs, traced
// single-battle replays and report save/load.
package console

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/engine/dice"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/logging"
	"github.com/nathoo/skirmish/report"
	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

// Session holds the interactive state between commands. It is not safe
// for concurrent use; front ends run one Step at a time.
type Session struct {
	// Width limits rendered tables; zero means unconstrained.
	Width int
	// Progress, if set, receives trial progress during run. It is called
	// from the runner's worker goroutines.
	Progress func(done, total int)

	set       *loader.Set
	runner    *sim.Runner
	reportDir string

	current *sim.Scenario
	lastSc  sim.Scenario
	last    *sim.Summary
	lastCmd string
	trace   bool
}

// New creates a session over the loaded scenarios. The first scenario is
// selected.
func New(set *loader.Set, runner *sim.Runner, reportDir string) *Session {
	if set == nil {
		set = &loader.Set{}
	}
	if runner == nil {
		runner = &sim.Runner{}
	}
	s := &Session{set: set, runner: runner, reportDir: reportDir}
	if len(set.Scenarios) > 0 {
		sc := set.Scenarios[0]
		s.current = &sc
	}
	return s
}

// Current returns the selected scenario, with any terrain override.
func (s *Session) Current() (sim.Scenario, bool) {
	if s.current == nil {
		return sim.Scenario{}, false
	}
	return *s.current, true
}

// Seed returns the run seed.
func (s *Session) Seed() int64 {
	return s.runner.Seed
}

// Last returns the summary of the most recent run, or nil.
func (s *Session) Last() *sim.Summary {
	return s.last
}

// Trace reports whether run logs are included in the output.
func (s *Session) Trace() bool {
	return s.trace
}

// SetTrace enables or disables run logs in the output.
func (s *Session) SetTrace(on bool) {
	s.trace = on
}

// Intro describes what was loaded.
func (s *Session) Intro() types.Output {
	n := len(s.set.Scenarios)
	var lines []string
	switch n {
	case 0:
		lines = append(lines, "No scenarios loaded. Pass a .lua file or directory.")
	case 1:
		lines = append(lines, "1 scenario loaded.")
	default:
		lines = append(lines, fmt.Sprintf("%d scenarios loaded.", n))
	}
	for _, w := range s.set.Warnings {
		lines = append(lines, "warning: "+w)
	}
	if s.current != nil {
		lines = append(lines, "Selected "+s.current.Name+".")
	}
	lines = append(lines, "Type /help for commands.")
	return types.Output{Lines: lines}
}

// Step executes one input line.
func (s *Session) Step(ctx context.Context, input string) types.Output {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Output{}
	}
	if strings.HasPrefix(input, "/") {
		return s.meta(input)
	}

	cmd := Parse(input)
	if cmd.Verb == "again" {
		if s.lastCmd == "" {
			return system("Nothing to repeat.")
		}
		cmd = Parse(s.lastCmd)
	} else {
		s.lastCmd = input
	}

	switch cmd.Verb {
	case "list":
		return s.cmdList()
	case "use":
		return s.cmdUse(cmd.Rest(0))
	case "show":
		return s.cmdShow()
	case "units":
		return s.cmdUnits()
	case "run":
		return s.cmdRun(ctx, cmd.Arg(0))
	case "battle":
		return s.cmdBattle(cmd.Arg(0))
	case "terrain":
		return s.cmdTerrain(cmd.Rest(0))
	case "seed":
		return s.cmdSeed(cmd.Arg(0))
	default:
		return types.Output{Lines: []string{
			fmt.Sprintf("Unknown command %q. Type /help for commands.", cmd.Verb),
		}}
	}
}

func (s *Session) meta(input string) types.Output {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		out := system("Goodbye.")
		out.Quit = true
		return out
	case "/save":
		return s.cmdSave(arg)
	case "/load":
		return s.cmdLoad(arg)
	case "/help":
		return types.Output{Lines: helpLines}
	case "/state":
		return s.cmdState()
	case "/trace":
		s.trace = !s.trace
		if s.trace {
			return system("Trace output enabled.")
		}
		return system("Trace output disabled.")
	default:
		return system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
}

func (s *Session) cmdList() types.Output {
	if len(s.set.Scenarios) == 0 {
		return types.Output{Lines: []string{"No scenarios loaded."}}
	}
	var lines []string
	for _, sc := range s.set.Scenarios {
		mark := "  "
		if s.current != nil && s.current.Name == sc.Name {
			mark = "* "
		}
		line := mark + sc.Name
		if sc.Title != "" {
			line += " - " + sc.Title
		}
		lines = append(lines, fmt.Sprintf("%s (%s)", line, sc.Terrain))
	}
	return types.Output{Lines: lines}
}

func (s *Session) cmdUse(name string) types.Output {
	if name == "" {
		return types.Output{Lines: []string{"Use which scenario? Try list."}}
	}
	sc, ok := s.set.Find(name)
	if !ok {
		return types.Output{Lines: []string{fmt.Sprintf("No scenario named %q.", name)}}
	}
	s.current = &sc
	return types.Output{Lines: []string{fmt.Sprintf("Selected %s (%s).", sc.Name, sc.Terrain)}}
}

func (s *Session) cmdShow() types.Output {
	sc, ok := s.Current()
	if !ok {
		return noScenario()
	}
	title := sc.Name
	if sc.Title != "" {
		title += ": " + sc.Title
	}
	roundCap := "default"
	if sc.RoundCap > 0 {
		roundCap = strconv.Itoa(sc.RoundCap)
	}
	lines := []string{
		title,
		fmt.Sprintf("Terrain: %s  Trials: %d  Round cap: %s", sc.Terrain, s.runner.TrialCount(sc), roundCap),
		describeArmy("Player", sc.Player),
		describeArmy("Enemy", sc.Enemy),
	}
	if len(sc.Roll) > 0 {
		lines = append(lines, "Roll: "+describeMods(sc.Roll))
	}
	if len(sc.Result) > 0 {
		lines = append(lines, "Result: "+describeMods(sc.Result))
	}
	return types.Output{Lines: lines}
}

func (s *Session) cmdUnits() types.Output {
	cat := s.runner.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	lines := []string{fmt.Sprintf("%-12s %4s  %-14s %-18s %s", "Unit", "Cost", "Role", "Archery", "Clash")}
	for _, name := range cat.Names() {
		k := cat.MustLookup(name)
		lines = append(lines, fmt.Sprintf("%-12s %4d  %-14s %-18s %s",
			k.Name, k.Cost, k.Role, joinVariants(k.Archery), joinVariants(k.Clash)))
	}
	return types.Output{Lines: lines}
}

func (s *Session) cmdRun(ctx context.Context, arg string) types.Output {
	sc, ok := s.Current()
	if !ok {
		return noScenario()
	}
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return types.Output{Lines: []string{fmt.Sprintf("Trial count must be a positive number, got %q.", arg)}}
		}
		sc.Trials = n
	}

	r := *s.runner
	r.OnProgress = s.Progress
	var logBuf bytes.Buffer
	if s.trace {
		r.Logger = logging.New(&logBuf, zapcore.InfoLevel)
	}
	summary, err := r.Run(ctx, sc)
	out := types.Output{Trace: splitLines(logBuf.String())}
	if err != nil {
		out.Lines = []string{fmt.Sprintf("Run failed: %v", err)}
		return out
	}
	s.lastSc, s.last = sc, summary
	out.Lines = splitLines(report.Render(summary, s.Width))
	return out
}

func (s *Session) cmdBattle(arg string) types.Output {
	sc, ok := s.Current()
	if !ok {
		return noScenario()
	}
	trial := 0
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return types.Output{Lines: []string{fmt.Sprintf("Trial must be a number from 0, got %q.", arg)}}
		}
		trial = n
	}

	var buf bytes.Buffer
	res, err := s.runner.Replay(sc, trial, logging.NewTrace(&buf))
	if err != nil {
		return types.Output{Lines: []string{fmt.Sprintf("Battle failed: %v", err)}}
	}
	lines := splitLines(buf.String())
	lines = append(lines,
		fmt.Sprintf("Trial %d: %s after %d rounds, net resources %d.", trial, res.Outcome, res.Rounds, res.NetResources))
	if res.Anomaly {
		lines = append(lines, "The round cap was reached before either side fell.")
	}
	return types.Output{Lines: lines}
}

func (s *Session) cmdTerrain(name string) types.Output {
	if s.current == nil {
		return noScenario()
	}
	if name == "" {
		opts := make([]string, 0, len(engine.Terrains()))
		for _, t := range engine.Terrains() {
			opts = append(opts, string(t))
		}
		return types.Output{Lines: []string{
			fmt.Sprintf("Terrain is %s. Options: %s.", s.current.Terrain, strings.Join(opts, ", ")),
		}}
	}
	t, err := engine.ParseTerrain(name)
	if err != nil {
		return types.Output{Lines: []string{err.Error()}}
	}
	s.current.Terrain = t
	return types.Output{Lines: []string{fmt.Sprintf("%s will be fought on %s.", s.current.Name, t)}}
}

func (s *Session) cmdSeed(arg string) types.Output {
	if arg == "" {
		return types.Output{Lines: []string{fmt.Sprintf("Seed is %d.", s.runner.Seed)}}
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return types.Output{Lines: []string{fmt.Sprintf("Seed must be an integer, got %q.", arg)}}
	}
	s.runner.Seed = n
	return types.Output{Lines: []string{fmt.Sprintf("Seed set to %d.", n)}}
}

func (s *Session) cmdSave(name string) types.Output {
	if s.last == nil {
		return system("Nothing to save yet. Run a scenario first.")
	}
	if name == "" {
		name = s.lastSc.Name
	}
	path, err := report.Save(s.reportDir, name, s.lastSc, s.last)
	if err != nil {
		return system(fmt.Sprintf("Save failed: %v", err))
	}
	return system(fmt.Sprintf("Report saved to %s.", path))
}

func (s *Session) cmdLoad(name string) types.Output {
	if name == "" {
		if s.current == nil {
			return system("Load which report?")
		}
		name = s.current.Name
	}
	doc, err := report.Load(s.reportDir, name)
	if err != nil {
		return system(fmt.Sprintf("Load failed: %v", err))
	}
	lines := []string{fmt.Sprintf("Report %s loaded (seed %d).", name, doc.Summary.Seed)}
	lines = append(lines, splitLines(report.Render(&doc.Summary, s.Width))...)
	return types.Output{Lines: lines}
}

func (s *Session) cmdState() types.Output {
	lines := []string{
		fmt.Sprintf("Seed: %d", s.runner.Seed),
		fmt.Sprintf("Workers: %d", s.runner.Workers),
		fmt.Sprintf("Trace: %t", s.trace),
		fmt.Sprintf("Reports: %s", s.reportDir),
	}
	if sc, ok := s.Current(); ok {
		lines = append(lines, fmt.Sprintf("Scenario: %s on %s, %d trials", sc.Name, sc.Terrain, s.runner.TrialCount(sc)))
	}
	if s.last != nil {
		lines = append(lines, fmt.Sprintf("Last run: %s, %d trials, %.1f%% victories",
			s.last.Scenario, s.last.Trials, s.last.Percent(types.OutcomeVictory)))
	}
	return types.Output{Lines: lines, System: true}
}

var helpLines = []string{
	"System:",
	"  /save [name]  Save the last run as a JSON report",
	"  /load [name]  Show a saved report",
	"  /state        Show session settings",
	"  /trace        Toggle run logs",
	"  /help         Show this help",
	"  /quit         Exit",
	"",
	"Commands:",
	"  list (ls)            List scenarios",
	"  use <name>           Select a scenario",
	"  show                 Describe the selected scenario",
	"  units                List the unit catalog",
	"  run [trials] (r)     Simulate the selected scenario",
	"  battle [trial] (b)   Replay one trial round by round",
	"  terrain [name]       Show or change the terrain",
	"  seed [n]             Show or change the run seed",
	"  again (g)            Repeat the last command",
}

func system(text string) types.Output {
	return types.Output{Lines: []string{text}, System: true}
}

func noScenario() types.Output {
	return types.Output{Lines: []string{"No scenario selected. Try list, then use <name>."}}
}

func describeArmy(label string, spec types.ArmySpec) string {
	parts := make([]string, 0, len(spec.Units))
	for _, u := range spec.Units {
		parts = append(parts, fmt.Sprintf("%d %s", u.Count, u.Name))
	}
	return fmt.Sprintf("%s (%s): %s", label, spec.Variant, strings.Join(parts, ", "))
}

func describeMods(specs []types.ModSpec) string {
	parts := make([]string, 0, len(specs))
	for _, m := range specs {
		switch {
		case m.Count > 0:
			parts = append(parts, fmt.Sprintf("%s(%s, %d)", m.Name, sideOrPlayer(m.Side), m.Count))
		case m.Side != "":
			parts = append(parts, fmt.Sprintf("%s(%s)", m.Name, m.Side))
		default:
			parts = append(parts, m.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func sideOrPlayer(s types.Side) types.Side {
	if s == "" {
		return types.SidePlayer
	}
	return s
}

func joinVariants(vs []dice.Variant) string {
	if len(vs) == 0 {
		return "-"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

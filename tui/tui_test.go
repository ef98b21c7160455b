package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/skirmish/console"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[trace] starting run", kindTrace},
		{"warning: raid: garrison army lists 2 units", kindWarning},
		{"Warning: 3 trials hit the round cap and are undecided.", kindWarning},
		{"The round cap was reached before either side fell.", kindWarning},
		{`Unknown command "dance". Type /help for commands.`, kindError},
		{"No scenario selected. Try list, then use <name>.", kindError},
		{"Run failed: scenario raid: unknown terrain", kindError},
		{"Trial 3: Player defeat! after 4 rounds, net resources -9.", kindDefeat},
		{"│ Player victory! │ 12 │ 60.0% │", kindVictory},
		{"Terrain: Badlands  Trials: 20  Seed: 3", kindText},
		{"", kindText},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"No scenario selected. Try list, then use a name.", 24,
			"No scenario selected.\nTry list, then use a\nname."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
		// Table rows fit by display width even though box runes are multi-byte.
		{"│ Draw! │  3 │", 14, "│ Draw! │  3 │"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("use raid")
	h.Push("run 100")

	prev, ok := h.Prev()
	if !ok || prev != "run 100" {
		t.Errorf("expected 'run 100', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "use raid" {
		t.Errorf("expected 'use raid', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "list" {
		t.Errorf("expected 'list', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "list" {
		t.Errorf("expected 'list' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("use raid")

	h.Prev() // "use raid"
	h.Prev() // "list"

	next, ok := h.Next()
	if !ok || next != "use raid" {
		t.Errorf("expected 'use raid', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("run")
	h.Push("run") // skipped
	h.Push("run") // skipped

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

func TestHistory_SkipsAgain(t *testing.T) {
	h := NewHistory(5)
	h.Push("run 50")
	h.Push("again")
	h.Push("g")

	if len(h.entries) != 1 {
		t.Errorf("expected only 'run 50', got %v", h.entries)
	}
}

func TestHistory_RepeatMovesToNewest(t *testing.T) {
	h := NewHistory(5)
	h.Push("seed 4")
	h.Push("run")
	h.Push("seed 4")

	prev, _ := h.Prev()
	if prev != "seed 4" {
		t.Errorf("expected 'seed 4' newest, got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "run" {
		t.Errorf("expected 'run', got %q", prev)
	}
}

func TestHistory_Complete(t *testing.T) {
	h := NewHistory(5)
	h.Push("use forest_siege")
	h.Push("use marsh_ambush")
	h.Push("run 200")

	if got, ok := h.Complete("use"); !ok || got != "use marsh_ambush" {
		t.Errorf("Complete(use) = %q, %v", got, ok)
	}
	if got, ok := h.Complete("use f"); !ok || got != "use forest_siege" {
		t.Errorf("Complete(use f) = %q, %v", got, ok)
	}
	if _, ok := h.Complete("battle"); ok {
		t.Error("no command starts with battle")
	}
	if _, ok := h.Complete(""); ok {
		t.Error("empty input should not complete")
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("list")
	h.Push("run")

	h.Prev() // "run"
	h.ResetCursor()

	prev, ok := h.Prev()
	if !ok || prev != "run" {
		t.Errorf("expected 'run' after reset, got %q", prev)
	}
}

// testSession returns a session over one small scenario.
func testSession(t *testing.T) *console.Session {
	t.Helper()
	set := &loader.Set{Scenarios: []sim.Scenario{{
		Name:    "raid",
		Terrain: types.TerrainBadlands,
		Player: types.ArmySpec{Variant: "standard", Units: []types.UnitCount{
			{Name: "CrabRider", Count: 3},
		}},
		Enemy: types.ArmySpec{Variant: "garrison", Units: []types.UnitCount{
			{Name: "Garrison1", Count: 1},
		}},
		Trials: 10,
	}}}
	return console.New(set, &sim.Runner{Seed: 3}, t.TempDir())
}

func TestHandleEnter_RunsAsCommand(t *testing.T) {
	m := New(testSession(t))
	m.input.SetValue("run 6")

	next, cmd := m.handleEnter()
	mm := next.(Model)
	if !mm.busy {
		t.Fatal("model should be busy while the command runs")
	}
	if cmd == nil {
		t.Fatal("expected a command to run the step")
	}

	// Input is held while busy.
	mm.input.SetValue("seed 1")
	if _, held := mm.handleEnter(); held != nil {
		t.Error("no second command should start while busy")
	}

	msg, ok := stepFromBatch(t, cmd)
	if !ok {
		t.Fatal("expected the batch to carry a stepOutputMsg")
	}
	if done, total := mm.progress.load(); done != 6 || total != 6 {
		t.Errorf("progress = %d/%d, want 6/6", done, total)
	}
	updated, _ := mm.Update(msg)
	um := updated.(Model)
	if um.busy {
		t.Error("model should be idle after output arrives")
	}
	if um.status.trials != 6 {
		t.Errorf("status trials = %d, want 6", um.status.trials)
	}

	var text []string
	for _, rl := range um.rawLines {
		text = append(text, rl.text)
	}
	joined := strings.Join(text, "\n")
	if !strings.Contains(joined, "> run 6") || !strings.Contains(joined, "Trials: 6") {
		t.Errorf("expected echoed input and summary, got:\n%s", joined)
	}
}

// stepFromBatch runs the command batch started by handleEnter and returns
// its step output. The progress tick is not run.
func stepFromBatch(t *testing.T, cmd tea.Cmd) (stepOutputMsg, bool) {
	t.Helper()
	got := cmd()
	batch, ok := got.(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected tea.BatchMsg, got %T", got)
	}
	if len(batch) != 2 {
		t.Fatalf("expected step and tick commands, got %d", len(batch))
	}
	msg, ok := batch[0]().(stepOutputMsg)
	return msg, ok
}

func TestProgressTick(t *testing.T) {
	m := New(testSession(t))
	m.busy = true
	if _, cmd := m.Update(progressTickMsg{}); cmd == nil {
		t.Error("a busy model should keep ticking")
	}
	m.busy = false
	if _, cmd := m.Update(progressTickMsg{}); cmd != nil {
		t.Error("an idle model should stop ticking")
	}
}

func TestProgress_KeepsHighestDone(t *testing.T) {
	var p progress
	p.update(5, 10)
	p.update(3, 10)
	if done, total := p.load(); done != 5 || total != 10 {
		t.Errorf("progress = %d/%d, want 5/10", done, total)
	}
	p.reset()
	if done, total := p.load(); done != 0 || total != 0 {
		t.Errorf("after reset = %d/%d", done, total)
	}
}

func TestHandleEnter_Empty(t *testing.T) {
	m := New(testSession(t))
	m.input.SetValue("   ")
	next, cmd := m.handleEnter()
	if cmd != nil || next.(Model).busy {
		t.Error("blank input should do nothing")
	}
}

func TestStep_Quit(t *testing.T) {
	m := New(testSession(t))
	msg := m.step("/quit")().(stepOutputMsg)
	if !msg.out.Quit {
		t.Fatal("expected /quit to request exit")
	}
	updated, cmd := m.Update(msg)
	if !updated.(Model).quitting {
		t.Error("model should be quitting")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.Quit")
	}
}

func TestStep_SystemAndTraceLines(t *testing.T) {
	m := New(testSession(t))
	m = m.appendOutput(m.step("/trace")().(stepOutputMsg))
	m = m.appendOutput(m.step("run 2")().(stepOutputMsg))

	var sawSystem, sawTrace bool
	for _, rl := range m.rawLines {
		if rl.isSystem && strings.Contains(rl.text, "Trace output enabled") {
			sawSystem = true
		}
		if rl.kind == kindTrace && strings.HasPrefix(rl.text, "[trace] ") {
			sawTrace = true
		}
	}
	if !sawSystem {
		t.Error("expected the /trace confirmation as a system line")
	}
	if !sawTrace {
		t.Error("expected run logs as trace lines")
	}
}

func TestRenderStatusBar(t *testing.T) {
	m := New(testSession(t))
	m.width = 60

	bar := m.renderStatusBar()
	for _, want := range []string{"raid", "Badlands", "Seed: 3"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar %q should contain %q", bar, want)
		}
	}

	m.status.trials = 10
	m.status.victory = 40
	if bar := m.renderStatusBar(); !strings.Contains(bar, "V: 40.0% of 10") {
		t.Errorf("status bar should show the last run, got %q", bar)
	}

	m.busy = true
	if bar := m.renderStatusBar(); !strings.Contains(bar, "running...") {
		t.Errorf("status bar should show the busy marker, got %q", bar)
	}
	m.progress.update(4, 10)
	if bar := m.renderStatusBar(); !strings.Contains(bar, "running... 4/10") {
		t.Errorf("status bar should show trial progress, got %q", bar)
	}
}

func TestRenderStatusBar_NoScenario(t *testing.T) {
	m := New(console.New(nil, nil, t.TempDir()))
	m.width = 40
	if bar := m.renderStatusBar(); !strings.Contains(bar, "no scenario") {
		t.Errorf("got %q", bar)
	}
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nathoo/skirmish/console"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

// testSet returns a single small scenario for CLI testing.
func testSet() *loader.Set {
	return &loader.Set{Scenarios: []sim.Scenario{{
		Name:    "raid",
		Title:   "Border Raid",
		Terrain: types.TerrainBadlands,
		Player: types.ArmySpec{Variant: "standard", Units: []types.UnitCount{
			{Name: "CrabRider", Count: 3},
		}},
		Enemy: types.ArmySpec{Variant: "garrison", Units: []types.UnitCount{
			{Name: "Garrison1", Count: 1},
		}},
		Roll:   []types.ModSpec{{Name: "TerrainRoll"}},
		Trials: 20,
	}}}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	s := console.New(testSet(), &sim.Runner{Seed: 3}, t.TempDir())
	var out bytes.Buffer
	c := &CLI{
		Session: s,
		In:      strings.NewReader(input),
		Out:     &out,
	}
	return c, &out
}

func TestCLI_Intro(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "1 scenario loaded.") {
		t.Error("expected scenario count in intro")
	}
	if !strings.Contains(output, "Selected raid.") {
		t.Error("expected the first scenario to be selected")
	}
}

func TestCLI_Run(t *testing.T) {
	c, out := newTestCLI(t, "run\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Border Raid") || !strings.Contains(output, "Trials: 20") {
		t.Errorf("expected a rendered summary, got:\n%s", output)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	for _, want := range []string{"/save [name]", "/load [name]", "/quit"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	c := &CLI{
		Session: console.New(testSet(), &sim.Runner{Seed: 3}, dir),
		In:      strings.NewReader("run 15\n/save test\n/quit\n"),
		Out:     &out,
	}
	c.Run(context.Background())
	if !strings.Contains(out.String(), "Report saved to") {
		t.Fatalf("expected save confirmation, got:\n%s", out.String())
	}

	// Start fresh and load.
	var out2 bytes.Buffer
	c2 := &CLI{
		Session: console.New(testSet(), &sim.Runner{Seed: 99}, dir),
		In:      strings.NewReader("/load test\n/quit\n"),
		Out:     &out2,
	}
	c2.Run(context.Background())

	loadOutput := out2.String()
	if !strings.Contains(loadOutput, "Report test loaded (seed 3).") {
		t.Error("expected load confirmation with the saved seed")
	}
	if !strings.Contains(loadOutput, "Trials: 15") {
		t.Error("expected the saved summary to be rendered")
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "[Unknown command: /bogus") {
		t.Error("expected unknown command message as a system line")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nrun 5\n/trace\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace] ") || !strings.Contains(output, "starting run") {
		t.Error("expected run logs while tracing")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_ScriptEchoAndComments(t *testing.T) {
	c, out := newTestCLI(t, "# a comment\nseed 11\n/quit\n")
	c.EchoInput = true
	c.Run(context.Background())

	output := out.String()
	if strings.Contains(output, "a comment") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> seed 11\nSeed set to 11.") {
		t.Errorf("expected echoed input before its output, got:\n%s", output)
	}
}

func TestCLI_EndOfInput(t *testing.T) {
	c, out := newTestCLI(t, "seed\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Seed is 3.") {
		t.Error("expected the command before EOF to run")
	}
}

func TestCLI_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, out := newTestCLI(t, "seed 5\n")
	c.Run(ctx)

	if strings.Contains(out.String(), "Seed set to 5.") {
		t.Error("a cancelled context should stop the loop")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "seed\nagain\n/quit\n")
	c.Run(context.Background())

	if n := strings.Count(out.String(), "Seed is 3."); n != 2 {
		t.Errorf("expected the seed twice, got %d", n)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "g\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "[Nothing to repeat.]") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

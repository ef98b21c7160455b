// Skirmish is a Monte-Carlo simulator for dice battles between two armies.
// Usage: skirmish [--version] [--plain] [--script <file>] [--trace]
//
//	[--run <scenario>] [--trials <n>] [--seed <n>] [--workers <n>] [path]
//
// The path is a .lua scenario file or a directory of them; it defaults to
// ./scenarios. Settings not given as flags come from SKIRMISH_* variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"go.uber.org/zap"

	"github.com/nathoo/skirmish/cli"
	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/console"
	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/logging"
	"github.com/nathoo/skirmish/report"
	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: skirmish [--version] [--plain] [--script <file>] [--trace] [--run <scenario>] [--trials <n>] [--seed <n>] [--workers <n>] [path]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in environment: %v\n", err)
		os.Exit(1)
	}

	plain := false
	trace := false
	var path, scriptFile, runName string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("skirmish %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			i++
			scriptFile = flagValue(args, i, "--script requires a file path")
		case "--run":
			i++
			runName = flagValue(args, i, "--run requires a scenario name")
		case "--trials":
			i++
			cfg.Trials = intFlag(args, i, "--trials")
		case "--workers":
			i++
			cfg.Workers = intFlag(args, i, "--workers")
		case "--seed":
			i++
			n, err := strconv.ParseInt(flagValue(args, i, "--seed requires a number"), 10, 64)
			if err != nil {
				fail("--seed must be an integer")
			}
			cfg.Seed = n
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			if path == "" {
				path = args[i]
			}
		}
	}
	if path == "" {
		path = "scenarios"
	}
	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	log := logging.New(os.Stderr, level)
	defer func() { _ = log.Sync() }()

	cat := catalog.Default()
	set, err := loader.Load(path, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenarios: %v\n", err)
		os.Exit(1)
	}
	for _, w := range set.Warnings {
		log.Warn("scenario warning", zap.String("detail", w))
	}

	runner := &sim.Runner{
		Catalog:  cat,
		Workers:  cfg.Workers,
		Seed:     cfg.Seed,
		Trials:   cfg.Trials,
		RoundCap: cfg.RunnerRoundCap(),
		Logger:   log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Non-interactive: run one scenario and print the summary.
	if runName != "" {
		sc, ok := set.Find(runName)
		if !ok {
			fail(fmt.Sprintf("no scenario named %q in %s", runName, path))
		}
		summary, err := runner.Run(ctx, sc)
		if err != nil {
			fail(err.Error())
		}
		fmt.Println(report.Render(summary, 0))
		return
	}

	session := console.New(set, runner, cfg.ReportDir)
	session.SetTrace(trace)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fail(fmt.Sprintf("opening script: %v", err))
		}
		defer f.Close()
		c := cli.New(session)
		c.In = f
		c.EchoInput = true
		c.Run(ctx)
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		cli.New(session).Run(ctx)
		return
	}

	if err := tui.Run(session); err != nil {
		fail(err.Error())
	}
}

func flagValue(args []string, i int, msg string) string {
	if i >= len(args) {
		fail(msg)
	}
	return args[i]
}

func intFlag(args []string, i int, name string) int {
	n, err := strconv.Atoi(flagValue(args, i, name+" requires a number"))
	if err != nil {
		fail(name + " must be an integer")
	}
	return n
}

func fail(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n%s\n", msg, usage)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

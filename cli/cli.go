// Package cli provides the plain line-oriented front end: terminal or
// script input, output formatting and trace printing.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/skirmish/console"
	"github.com/nathoo/skirmish/types"
)

// CLI drives a console session from a reader and writes to a writer.
type CLI struct {
	Session   *console.Session
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI on stdin and stdout.
func New(s *console.Session) *CLI {
	return &CLI{
		Session: s,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run shows the intro, then loops: prompt, input, step, output. It
// returns when the input ends, /quit is entered or ctx is cancelled.
func (c *CLI) Run(ctx context.Context) {
	c.printOutput(c.Session.Intro())

	scanner := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		c.print("> ")
		if !scanner.Scan() {
			c.printLine("")
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		out := c.Session.Step(ctx, input)
		c.printOutput(out)
		if out.Quit {
			return
		}
	}
}

func (c *CLI) printOutput(out types.Output) {
	for _, line := range out.Lines {
		if out.System {
			c.printSystem(line)
			continue
		}
		c.printLine(line)
	}
	for _, line := range out.Trace {
		c.printLine("[trace] " + line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	if text == "" {
		c.printLine("")
		return
	}
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

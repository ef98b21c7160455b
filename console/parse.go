package console

import "strings"

// Command is one parsed console line.
type Command struct {
	Verb string
	Args []string
}

// Arg returns the i-th argument or "" when absent.
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Rest joins the arguments from i on, for names containing spaces.
func (c Command) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

var verbAliases = map[string]string{
	// List / select
	"ls":        "list",
	"scenarios": "list",
	"select":    "use",
	"pick":      "use",

	// Inspect
	"info":     "show",
	"describe": "show",
	"x":        "show",
	"catalog":  "units",
	"u":        "units",

	// Simulate
	"r":        "run",
	"simulate": "run",
	"sim":      "run",
	"b":        "battle",
	"replay":   "battle",
	"fight":    "battle",

	// Settings
	"t":     "terrain",
	"field": "terrain",
	"rng":   "seed",

	"g": "again",
}

// Parse splits a console line into a verb and arguments. The verb is
// lowercased and resolved through the alias table; arguments keep their
// case because unit and scenario names are case sensitive.
func Parse(input string) Command {
	words := strings.Fields(strings.TrimSpace(input))
	if len(words) == 0 {
		return Command{}
	}

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	return Command{Verb: verb, Args: words[1:]}
}

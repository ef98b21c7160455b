package loader

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/nathoo/skirmish/engine/army"
	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks every scenario against the catalog and the modification
// registry. Warnings are returned even when the load succeeds.
func validate(scenarios []sim.Scenario, cat *catalog.Catalog) ([]string, error) {
	ve := &ValidationError{}
	seen := map[string]bool{}

	for _, sc := range scenarios {
		if seen[sc.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate scenario %q", sc.Name))
		}
		seen[sc.Name] = true

		for _, err := range multierr.Errors(sc.Validate(cat)) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("scenario %q: %v", sc.Name, err))
		}
		ve.Warnings = append(ve.Warnings, capacityWarnings(sc.Name, "player", sc.Player, cat)...)
		ve.Warnings = append(ve.Warnings, capacityWarnings(sc.Name, "enemy", sc.Enemy, cat)...)
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

// capacityWarnings reports units that will be dropped when the army is
// fielded, and garrison kinds in a standard army. Those clash with more
// than one die, so worst-first losses never remove them and the battle
// can only end at the round cap.
func capacityWarnings(name, side string, spec types.ArmySpec, cat *catalog.Catalog) []string {
	variant, err := army.ParseVariant(spec.Variant)
	if err != nil {
		return nil
	}
	total := 0
	for _, u := range spec.Units {
		total += u.Count
	}
	var out []string
	switch {
	case variant == army.Garrison && total > 1:
		out = append(out, fmt.Sprintf("scenario %q: %s garrison army fields only its last garrison of %d", name, side, total))
	case variant == army.Standard && total > army.MaxUnits:
		out = append(out, fmt.Sprintf("scenario %q: %s army has %d units, only the first %d are fielded", name, side, total, army.MaxUnits))
	}
	if variant != army.Standard {
		return out
	}
	for _, u := range spec.Units {
		k, err := cat.Lookup(u.Name)
		if err != nil || k.Hook != catalog.HookGarrison {
			continue
		}
		out = append(out, fmt.Sprintf("scenario %q: %s standard army fields garrison %s, which losses never remove", name, side, k.Name))
	}
	return out
}

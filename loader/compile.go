// Package loader loads Lua scenario files into sim.Scenario values.
// The Lua VM is discarded after loading; no Lua runs during a battle.
package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

// rawScenario holds a scenario table before compilation.
type rawScenario struct {
	name  string
	file  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts the collected Lua tables into scenarios, in definition
// order.
func compile(coll *collector) ([]sim.Scenario, error) {
	out := make([]sim.Scenario, 0, len(coll.scenarios))
	for _, raw := range coll.scenarios {
		sc, err := compileScenario(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: scenario %q: %w", raw.file, raw.name, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

func compileScenario(raw rawScenario) (sim.Scenario, error) {
	tbl := raw.table
	sc := sim.Scenario{
		Name:     raw.name,
		Title:    getString(tbl, "title"),
		Terrain:  types.Terrain(getString(tbl, "terrain")),
		Trials:   getInt(tbl, "trials"),
		RoundCap: getInt(tbl, "round_cap"),
	}

	var err error
	if sc.Player, err = compileArmy(getTable(tbl, "player")); err != nil {
		return sc, fmt.Errorf("player: %w", err)
	}
	if sc.Enemy, err = compileArmy(getTable(tbl, "enemy")); err != nil {
		return sc, fmt.Errorf("enemy: %w", err)
	}
	if sc.Roll, err = compileMods(getTable(tbl, "roll")); err != nil {
		return sc, fmt.Errorf("roll: %w", err)
	}
	if sc.Result, err = compileMods(getTable(tbl, "result")); err != nil {
		return sc, fmt.Errorf("result: %w", err)
	}
	return sc, nil
}

// compileArmy accepts an Army "variant" {...} marker table. A bare list of
// Units is a standard army.
func compileArmy(tbl *lua.LTable) (types.ArmySpec, error) {
	if tbl == nil {
		return types.ArmySpec{}, fmt.Errorf("missing army")
	}
	spec := types.ArmySpec{Variant: getString(tbl, "variant")}
	units := getTable(tbl, "units")
	if spec.Variant == "" {
		spec.Variant = "standard"
		units = tbl
	}
	if units == nil {
		return spec, fmt.Errorf("army has no units table")
	}
	for i := 1; i <= units.Len(); i++ {
		u, ok := units.RawGetInt(i).(*lua.LTable)
		if !ok {
			return spec, fmt.Errorf("unit entry %d is not a Units(...) table", i)
		}
		spec.Units = append(spec.Units, types.UnitCount{
			Name:  getString(u, "name"),
			Count: getInt(u, "count"),
		})
	}
	return spec, nil
}

func compileMods(tbl *lua.LTable) ([]types.ModSpec, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.ModSpec
	for i := 1; i <= tbl.Len(); i++ {
		m, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("entry %d is not a modification", i)
		}
		out = append(out, types.ModSpec{
			Name:  getString(m, "name"),
			Side:  types.Side(getString(m, "side")),
			Count: getInt(m, "count"),
		})
	}
	return out, nil
}

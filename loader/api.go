package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/skirmish/types"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerModHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Scenario "name" { ... } is curried: Scenario("name") returns a function
	// that takes a table.
	L.SetGlobal("Scenario", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		file := coll.file
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.scenarios = append(coll.scenarios, rawScenario{name: name, file: file, table: tbl})
			return 0
		}))
		return 1
	}))

	// Army "standard" { Units(...), ... } is curried and returns a marker table.
	L.SetGlobal("Army", L.NewFunction(func(L *lua.LState) int {
		variant := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			units := L.CheckTable(1)
			tbl := L.NewTable()
			tbl.RawSetString("variant", lua.LString(variant))
			tbl.RawSetString("units", units)
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Units("CrabRider", 2): count defaults to 1.
	L.SetGlobal("Units", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		count := L.OptInt(2, 1)
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString(name))
		tbl.RawSetString("count", lua.LNumber(count))
		L.Push(tbl)
		return 1
	}))
}

func registerModHelpers(L *lua.LState) {
	// TerrainRoll()
	L.SetGlobal("TerrainRoll", L.NewFunction(func(L *lua.LState) int {
		L.Push(modTable(L, "TerrainRoll", "", 0))
		return 1
	}))

	// TerrainResult()
	L.SetGlobal("TerrainResult", L.NewFunction(func(L *lua.LState) int {
		L.Push(modTable(L, "TerrainResult", "", 0))
		return 1
	}))

	// MountainHeart("player")
	L.SetGlobal("MountainHeart", L.NewFunction(func(L *lua.LState) int {
		L.Push(modTable(L, "MountainHeart", L.OptString(1, string(types.SidePlayer)), 0))
		return 1
	}))

	// Harvest("player")
	L.SetGlobal("Harvest", L.NewFunction(func(L *lua.LState) int {
		L.Push(modTable(L, "Harvest", L.OptString(1, string(types.SidePlayer)), 0))
		return 1
	}))

	// Reroll("enemy", 2)
	L.SetGlobal("Reroll", L.NewFunction(func(L *lua.LState) int {
		side := L.CheckString(1)
		count := L.CheckInt(2)
		L.Push(modTable(L, "Reroll", side, count))
		return 1
	}))

	// Mod("Name", "side", count): any registered modification by name.
	L.SetGlobal("Mod", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		side := L.OptString(2, "")
		count := L.OptInt(3, 0)
		L.Push(modTable(L, name, side, count))
		return 1
	}))
}

func modTable(L *lua.LState, name, side string, count int) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(name))
	if side != "" {
		tbl.RawSetString("side", lua.LString(side))
	}
	if count != 0 {
		tbl.RawSetString("count", lua.LNumber(count))
	}
	return tbl
}

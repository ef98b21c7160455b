package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/sim"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	scenarios []rawScenario
	file      string
}

// Set is the result of a load: every scenario in definition order plus
// non-fatal warnings.
type Set struct {
	Scenarios []sim.Scenario
	Warnings  []string
}

// Find returns the scenario with the given name.
func (s *Set) Find(name string) (sim.Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return sim.Scenario{}, false
}

// Names lists the scenario names in definition order.
func (s *Set) Names() []string {
	out := make([]string, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		out[i] = sc.Name
	}
	return out
}

// LoadFile executes one .lua file and returns its scenarios, compiled and
// validated against cat. A nil cat means catalog.Default().
func LoadFile(path string, cat *catalog.Catalog) (*Set, error) {
	return load([]string{path}, cat)
}

// LoadDir executes every .lua file in dir in name order and returns all
// scenarios they define.
func LoadDir(dir string, cat *catalog.Catalog) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Strings(luaFiles)
	return load(luaFiles, cat)
}

// Load loads a single file or every file of a directory.
func Load(path string, cat *catalog.Catalog) (*Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path, cat)
	}
	return LoadFile(path, cat)
}

func load(files []string, cat *catalog.Catalog) (*Set, error) {
	if cat == nil {
		cat = catalog.Default()
	}

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		coll.file = filepath.Base(f)
		if err := L.DoFile(f); err != nil {
			return nil, fmt.Errorf("executing %s: %w", coll.file, err)
		}
	}
	if len(coll.scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios defined in %s", strings.Join(files, ", "))
	}

	scenarios, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling scenarios: %w", err)
	}
	warnings, err := validate(scenarios, cat)
	if err != nil {
		return nil, err
	}
	return &Set{Scenarios: scenarios, Warnings: warnings}, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Trial seeds come from the runner, never from scripts.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("randomseed", lua.LNil)
		mathTbl.RawSetString("random", lua.LNil)
	}
}

package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/l1jgo/factory/internal/core/ecs"
	"github.com/l1jgo/factory/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Builder is the part of the simulation a script may drive.
type Builder interface {
	Spawn(k ecs.Kind, pos world.Coord) ecs.ID
	Connect(source, target ecs.ID) bool
	Delete(id ecs.ID) bool
	Lookup(pos world.Coord) ecs.ID
	Tick() uint64
}

// Engine wraps a single gopher-lua VM that builds and edits the world.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm      *lua.LState
	builder Builder
	log     *zap.Logger
}

// NewEngine creates a Lua engine bound to b and runs every script in
// scriptsDir. A missing directory is not an error.
func NewEngine(scriptsDir string, b Builder, log *zap.Logger) (*Engine, error) {
	e := New(b, log)
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// New creates a Lua engine bound to b without loading any script.
func New(b Builder, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, builder: b, log: log}
	e.register()
	return e
}

func (e *Engine) Close() { e.vm.Close() }

// loadDir runs all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

func (e *Engine) register() {
	funcs := map[string]lua.LGFunction{
		"spawn":         e.luaSpawn,
		"spawn_miner":   e.spawnKind(ecs.KindMiner),
		"spawn_factory": e.spawnKind(ecs.KindFactory),
		"spawn_belt":    e.spawnKind(ecs.KindBelt),
		"connect":       e.luaConnect,
		"delete":        e.luaDelete,
		"lookup":        e.luaLookup,
		"tick":          e.luaTick,
		"log":           e.luaLog,
	}
	for name, fn := range funcs {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

func checkCoord(L *lua.LState, first int) world.Coord {
	return world.Coord{X: checkInt32(L, first), Y: checkInt32(L, first+1)}
}

// checkInt32 raises an argument error for numbers that do not fit a grid
// coordinate instead of letting them wrap.
func checkInt32(L *lua.LState, n int) int32 {
	v := math.Trunc(float64(L.CheckNumber(n)))
	if math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
		L.ArgError(n, fmt.Sprintf("coordinate %v out of range", L.Get(n)))
		return 0
	}
	return int32(v)
}

func checkID(L *lua.LState, n int) ecs.ID {
	v := L.CheckInt(n)
	if v < 0 {
		return 0
	}
	return ecs.ID(v)
}

func (e *Engine) spawnKind(k ecs.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		id := e.builder.Spawn(k, checkCoord(L, 1))
		L.Push(lua.LNumber(id))
		return 1
	}
}

// spawn("belt", x, y)
func (e *Engine) luaSpawn(L *lua.LState) int {
	name := L.CheckString(1)
	k, ok := ecs.ParseKind(name)
	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown building kind %q", name))
		return 0
	}
	id := e.builder.Spawn(k, checkCoord(L, 2))
	L.Push(lua.LNumber(id))
	return 1
}

func (e *Engine) luaConnect(L *lua.LState) int {
	ok := e.builder.Connect(checkID(L, 1), checkID(L, 2))
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaDelete(L *lua.LState) int {
	L.Push(lua.LBool(e.builder.Delete(checkID(L, 1))))
	return 1
}

func (e *Engine) luaLookup(L *lua.LState) int {
	L.Push(lua.LNumber(e.builder.Lookup(checkCoord(L, 1))))
	return 1
}

func (e *Engine) luaTick(L *lua.LState) int {
	L.Push(lua.LNumber(e.builder.Tick()))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// HasTickHook reports whether a script defined on_tick.
func (e *Engine) HasTickHook() bool {
	return e.vm.GetGlobal("on_tick") != lua.LNil
}

// OnTick calls the Lua on_tick(tick) hook if one is defined. Script
// errors are logged and do not stop the simulation.
func (e *Engine) OnTick(tick uint64) {
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(tick)); err != nil {
		e.log.Error("lua on_tick error", zap.Uint64("tick", tick), zap.Error(err))
	}
}

// Global returns a Lua global as a Go value: numbers as float64, strings,
// booleans, nil for anything else.
func (e *Engine) Global(name string) any {
	switch v := e.vm.GetGlobal(name).(type) {
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case lua.LBool:
		return bool(v)
	}
	return nil
}

package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine runs item effect scripts inside a single sandboxed Lua VM.
//
// Each *.lua file in the script directory defines one or more global
// functions. A consumable item names one of them via its effect_script
// field; the function receives (hp, max_hp, effect_amount) and returns the
// heal amount to apply.
//
// The VM is single-threaded; Effect serializes callers with a mutex.
type Engine struct {
	mu     sync.Mutex
	state  *lua.LState
	budget int
	cancel func()
	logger *zap.Logger
}

// NewEngine creates a sandboxed Engine and executes every *.lua file in
// scriptDir in lexicographic order so their function definitions are
// available to Effect.
//
// Precondition: scriptDir must be a readable directory; logger must be non-nil.
// Postcondition: Returns a ready Engine or a non-nil error; on error no VM
// is left open.
func NewEngine(scriptDir string, opcodeBudget int, logger *zap.Logger) (*Engine, error) {
	L, cancel := newSandboxedState(opcodeBudget)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	if opcodeBudget <= 0 {
		opcodeBudget = DefaultOpcodeBudget
	}
	return &Engine{state: L, budget: opcodeBudget, cancel: cancel, logger: logger}, nil
}

// Effect calls the named Lua function with (hp, maxHP, amount) and returns
// the integer it produces. Unknown functions and Lua runtime errors fall
// back to amount so a broken script degrades to the item's plain effect;
// runtime errors are logged at Warn level.
//
// Precondition: name must be non-empty; hp, maxHP, amount as validated by
// the caller.
// Postcondition: Returns a non-negative heal amount.
func (e *Engine) Effect(name string, hp, maxHP, amount int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Re-arm the opcode budget so each effect call gets the full allowance;
	// a runaway script kills its own call, not the whole session.
	ctx, cancel := newBudgetContext(e.budget)
	e.cancel()
	e.cancel = cancel
	e.state.SetContext(ctx)

	fn := e.state.GetGlobal(name)
	if fn == lua.LNil {
		e.logger.Warn("scripting: effect function not defined",
			zap.String("effect", name),
		)
		return amount
	}

	if err := e.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(hp), lua.LNumber(maxHP), lua.LNumber(amount)); err != nil {
		e.logger.Warn("scripting: Lua runtime error",
			zap.String("effect", name),
			zap.Error(err),
		)
		return amount
	}

	ret := e.state.Get(-1)
	e.state.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		e.logger.Warn("scripting: effect returned non-number",
			zap.String("effect", name),
			zap.String("type", ret.Type().String()),
		)
		return amount
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// Close releases the Lua VM.
//
// Postcondition: the Engine is no longer usable after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancel()
	e.state.Close()
}

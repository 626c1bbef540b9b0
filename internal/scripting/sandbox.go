// Package scripting provides a sandboxed GopherLua environment for item
// effect scripts. It has no dependency on game domain packages; callers
// pass plain values in and get plain values back.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultOpcodeBudget is the maximum number of Lua opcodes allowed per
// script execution when no override is configured. Effect scripts are tiny;
// the budget exists to terminate accidental infinite loops in content.
const DefaultOpcodeBudget = 100_000

// budgetContext is a context.Context that cancels itself after Done() has
// been called budget times. GopherLua's main loop calls Done() once per
// opcode, making this an exact instruction-count limit.
type budgetContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the underlying cancellation channel. Each call decrements
// the remaining counter; when it reaches zero the cancel function fires,
// terminating the Lua VM on the next opcode boundary.
func (c *budgetContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newBudgetContext returns a context that cancels after budget calls to Done().
// Precondition: budget > 0.
func newBudgetContext(budget int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(budget))
	return &budgetContext{
		Context:   base,
		cancel:    cancel,
		remaining: rem,
	}, cancel
}

// newSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - Execution limited to at most budget Lua opcodes
//
// Precondition: budget >= 0; 0 uses DefaultOpcodeBudget.
// Postcondition: Returns a non-nil LState. The caller owns the LState and
// must call L.Close() when done.
func newSandboxedState(budget int) (*lua.LState, context.CancelFunc) {
	if budget <= 0 {
		budget = DefaultOpcodeBudget
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Strip dangerous globals left by OpenBase.
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	ctx, cancel := newBudgetContext(budget)
	L.SetContext(ctx)

	return L, cancel
}

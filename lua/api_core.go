package lua

import glua "github.com/yuin/gopher-lua"

// registerCoreFuncs registers internal chart._* primitives (wrapped by Lua)
func (e *Engine) registerCoreFuncs() {
	// chart._push(name, payload): Sends a message to the form
	e.L.SetField(e.chartTable, "_push", e.L.NewFunction(func(L *glua.LState) int {
		name := L.CheckString(1)
		payload := L.Get(2)

		if e.sink == nil {
			L.RaiseError("no form attached")
			return 0
		}
		raw, err := e.encode(payload)
		if err != nil {
			L.RaiseError("%s: %s", name, err.Error())
			return 0
		}
		if err := e.sink.Deliver(name, raw); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}))

	// chart._log(text): Writes to the host log
	e.L.SetField(e.chartTable, "_log", e.L.NewFunction(func(L *glua.LState) int {
		e.logger.Print(L.CheckString(1))
		return 0
	}))
}

package lua

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/form"
)

// Engine wraps gopher-lua and runs the scripted host: the stand-in for the
// document runtime and evaluator that answers the form's notifications with
// authoritative patches.
type Engine struct {
	L *glua.LState

	// Cached table references
	chartTable *glua.LTable
	null       *glua.LUserData

	sink   Sink
	logger *log.Logger
}

// NewEngine creates an Engine. Messages pushed by scripts go to sink, which may
// be attached later with SetSink.
func NewEngine(sink Sink, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{sink: sink, logger: logger}
}

// SetSink attaches the receiver of pushed messages.
func (e *Engine) SetSink(sink Sink) { e.sink = sink }

// --- Lifecycle ---

// Init initializes (or re-initializes) the Lua VM with fresh state.
// It registers the API but does NOT load any scripts - use Boot for that.
func (e *Engine) Init() error {
	if e.L != nil {
		e.L.Close()
	}
	e.L = glua.NewState()

	e.chartTable = e.L.NewTable()
	e.L.SetGlobal("chart", e.chartTable)

	e.null = e.L.NewUserData()
	e.L.SetField(e.chartTable, "null", e.null)

	e.registerCoreFuncs()
	return nil
}

// Boot runs Init, the embedded core scripts, then any user scripts in order.
func (e *Engine) Boot(core fs.FS, userScripts ...string) error {
	if err := e.Init(); err != nil {
		return err
	}

	entries, err := fs.ReadDir(core, "core")
	if err != nil {
		return fmt.Errorf("reading core scripts: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".lua") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(core, "core/"+file)
		if err != nil {
			return fmt.Errorf("core/%s: %w", file, err)
		}
		if err := e.DoString(file, string(content)); err != nil {
			return fmt.Errorf("core/%s: %w", file, err)
		}
	}

	for _, path := range userScripts {
		if err := e.DoFile(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Close cleans up the Lua state.
func (e *Engine) Close() {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
}

// --- Execution Primitives ---

// DoString executes a raw string of Lua code.
// The name parameter is used for stack traces.
func (e *Engine) DoString(name, code string) error {
	fn, err := e.L.Load(strings.NewReader(code), name)
	if err != nil {
		return err
	}
	e.L.Push(fn)
	return e.L.PCall(0, 0, nil)
}

// DoFile executes a Lua file from the filesystem.
// It temporarily adjusts package.path to allow local requires.
func (e *Engine) DoFile(path string) error {
	path = expandTilde(path)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	pkg := e.L.GetGlobal("package").(*glua.LTable)
	oldPath := e.L.GetField(pkg, "path").String()
	e.L.SetField(pkg, "path", glua.LString(dir+"/?.lua;"+oldPath))

	err = e.L.DoFile(absPath)

	e.L.SetField(pkg, "path", glua.LString(oldPath))
	return err
}

// --- Host protocol ---

// Mount hands the datasets to the script and returns the init payload it builds.
func (e *Engine) Mount(datasets []form.Dataset) (event.Init, error) {
	return e.callInit("mount", datasets)
}

// Restore seeds the script's state from an init payload loaded elsewhere and
// returns the payload as the script normalised it.
func (e *Engine) Restore(init event.Init) (event.Init, error) {
	return e.callInit("restore", init)
}

// callInit calls chart.<name>(arg) and decodes the init payload it returns.
func (e *Engine) callInit(name string, arg any) (event.Init, error) {
	fn := e.L.GetField(e.chartTable, name)
	if fn.Type() != glua.LTFunction {
		return event.Init{}, fmt.Errorf("host script does not define chart.%s", name)
	}

	larg, err := e.toLua(arg)
	if err != nil {
		return event.Init{}, err
	}
	if err := e.L.CallByParam(glua.P{Fn: fn, NRet: 1, Protect: true}, larg); err != nil {
		return event.Init{}, fmt.Errorf("chart.%s: %w", name, err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)

	raw, err := e.encode(ret)
	if err != nil {
		return event.Init{}, fmt.Errorf("chart.%s: %w", name, err)
	}
	return event.DecodeInit(raw)
}

// SetDatasets tells the script the available datasets changed.
func (e *Engine) SetDatasets(datasets []form.Dataset) {
	arg, err := e.toLua(datasets)
	if err != nil {
		e.logger.Printf("set datasets: %v", err)
		return
	}
	e.CallHook("datasets", arg)
}

// SetMissingDependency reports a dependency the evaluator needs but cannot find.
func (e *Engine) SetMissingDependency(dep string) {
	e.CallHook("missing_dep", glua.LString(dep))
}

// Push delivers a form notification to the script. It implements session.Host.
func (e *Engine) Push(ev event.Outbound) {
	payload, err := e.toLua(ev.Payload)
	if err != nil {
		e.logger.Printf("%s: %v", ev.Name, err)
		return
	}
	e.CallHook(ev.Name, payload)
}

// CallHook calls chart.hooks.call(event, args...).
func (e *Engine) CallHook(name string, args ...glua.LValue) {
	if e.L == nil {
		return
	}
	call := e.getHooksCall()
	if call.Type() != glua.LTFunction {
		return
	}
	luaArgs := append([]glua.LValue{glua.LString(name)}, args...)
	if err := e.L.CallByParam(glua.P{
		Fn:      call,
		NRet:    0,
		Protect: true,
	}, luaArgs...); err != nil {
		e.logger.Printf("hook %s: %v", name, err)
	}
}

// getHooksCall returns the chart.hooks.call function.
func (e *Engine) getHooksCall() glua.LValue {
	hooks, ok := e.L.GetField(e.chartTable, "hooks").(*glua.LTable)
	if !ok {
		return glua.LNil
	}
	return e.L.GetField(hooks, "call")
}

// --- Private Helpers ---

// expandTilde expands ~ to home directory.
func expandTilde(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

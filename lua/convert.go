package lua

import (
	"encoding/json"
	"fmt"
	"math"

	glua "github.com/yuin/gopher-lua"
)

// Values cross the Lua boundary as JSON, the same encoding the host protocol
// uses. chart.null stands for JSON null inside tables, where nil cannot be stored.

// toLua converts a Go value into Lua through its JSON form.
func (e *Engine) toLua(v any) (glua.LValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return glua.LNil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return glua.LNil, err
	}
	return e.fromGo(generic), nil
}

func (e *Engine) fromGo(v any) glua.LValue {
	switch t := v.(type) {
	case nil:
		return glua.LNil
	case bool:
		return glua.LBool(t)
	case float64:
		return glua.LNumber(t)
	case string:
		return glua.LString(t)
	case []any:
		tbl := e.L.NewTable()
		for _, item := range t {
			if item == nil {
				tbl.Append(e.null)
				continue
			}
			tbl.Append(e.fromGo(item))
		}
		return tbl
	case map[string]any:
		tbl := e.L.NewTable()
		for k, item := range t {
			if item == nil {
				continue
			}
			tbl.RawSetString(k, e.fromGo(item))
		}
		return tbl
	}
	return glua.LNil
}

// encode converts a Lua value into JSON.
func (e *Engine) encode(v glua.LValue) ([]byte, error) {
	g, err := e.toGo(v, 0)
	if err != nil {
		return nil, err
	}
	return json.Marshal(g)
}

const maxDepth = 32

func (e *Engine) toGo(v glua.LValue, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("table nested too deeply")
	}
	switch t := v.(type) {
	case *glua.LNilType:
		return nil, nil
	case glua.LBool:
		return bool(t), nil
	case glua.LNumber:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("number %v has no JSON form", f)
		}
		return f, nil
	case glua.LString:
		return string(t), nil
	case *glua.LUserData:
		if t == e.null {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot encode userdata")
	case *glua.LTable:
		return e.tableToGo(t, depth)
	}
	return nil, fmt.Errorf("cannot encode %s", v.Type())
}

// tableToGo maps a sequence to a slice and anything else to an object.
// An empty table becomes null so it decodes as either an empty list or map.
func (e *Engine) tableToGo(t *glua.LTable, depth int) (any, error) {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ glua.LValue) { count++ })

	if count == 0 {
		return nil, nil
	}

	if n > 0 && n == count {
		list := make([]any, n)
		for i := 1; i <= n; i++ {
			item, err := e.toGo(t.RawGetInt(i), depth+1)
			if err != nil {
				return nil, err
			}
			list[i-1] = item
		}
		return list, nil
	}

	obj := make(map[string]any, count)
	var err error
	t.ForEach(func(k, val glua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(glua.LString)
		if !ok {
			err = fmt.Errorf("mixed table keys are not supported (key %v)", k)
			return
		}
		var item any
		item, err = e.toGo(val, depth+1)
		obj[string(key)] = item
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

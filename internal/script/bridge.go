package script

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// toLuaValue converts the Go values carried in command results.
func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.NewTable()
		for i, s := range val {
			t.RawSetInt(i+1, lua.LString(s))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			t.RawSetString(k, toLuaValue(L, val[k]))
		}
		return t
	case lua.LValue:
		return val
	case fmt.Stringer:
		return lua.LString(val.String())
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// stringField reads an optional string field of an options table.
func stringField(L *lua.LState, t *lua.LTable, key string) string {
	v := L.GetField(t, key)
	switch s := v.(type) {
	case *lua.LNilType:
		return ""
	case lua.LString:
		return string(s)
	default:
		L.RaiseError("option %q must be a string, got %s", key, v.Type())
		return ""
	}
}

package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tablekit/internal/command"
)

// ModuleName is the global the table API is installed under.
const ModuleName = "tables"

// Host is the editing session a script drives. Table indices are 0-based
// on the Go side; the Lua API is 1-based.
type Host interface {
	Execute(name string, opts command.Options) command.Result
	IsEnabled(name string) bool
	SelectCell(table, row, col int) error
	Undo() error
	Redo() error
	TableCount() int
	TableSize(index int) (rows, columns int, err error)
	Commands() []string
}

type tablesModule struct {
	host Host
}

// registerTables installs the tables module bound to host.
func registerTables(s *State, host Host) {
	m := &tablesModule{host: host}
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"execute":  m.execute,
		"enabled":  m.enabled,
		"select":   m.selectCell,
		"undo":     m.undo,
		"redo":     m.redo,
		"count":    m.count,
		"size":     m.size,
		"commands": m.commands,
	})
}

// execute(name [, {order = ...}]) returns status, message and data.
func (m *tablesModule) execute(L *lua.LState) int {
	name := L.CheckString(1)
	var opts command.Options
	if t := L.OptTable(2, nil); t != nil {
		order, err := command.ParseOrder(stringField(L, t, "order"))
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		opts.Order = order
	}

	res := m.host.Execute(name, opts)
	msg := res.Message
	if res.Error != nil {
		msg = res.Error.Error()
	}
	L.Push(lua.LString(res.Status.String()))
	L.Push(lua.LString(msg))
	L.Push(toLuaValue(L, res.Data))
	return 3
}

func (m *tablesModule) enabled(L *lua.LState) int {
	L.Push(lua.LBool(m.host.IsEnabled(L.CheckString(1))))
	return 1
}

// select(table, row, col), all 1-based.
func (m *tablesModule) selectCell(L *lua.LState) int {
	t, r, c := L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)
	return pushResult(L, m.host.SelectCell(t-1, r-1, c-1))
}

func (m *tablesModule) undo(L *lua.LState) int {
	return pushResult(L, m.host.Undo())
}

func (m *tablesModule) redo(L *lua.LState) int {
	return pushResult(L, m.host.Redo())
}

func (m *tablesModule) count(L *lua.LState) int {
	L.Push(lua.LNumber(m.host.TableCount()))
	return 1
}

// size(table) returns rows and columns, or nil and a message.
func (m *tablesModule) size(L *lua.LState) int {
	rows, cols, err := m.host.TableSize(L.CheckInt(1) - 1)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(rows))
	L.Push(lua.LNumber(cols))
	return 2
}

func (m *tablesModule) commands(L *lua.LState) int {
	L.Push(toLuaValue(L, m.host.Commands()))
	return 1
}

// pushResult pushes true, or false and the error message.
func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

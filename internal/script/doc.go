// Package script runs Lua scripts against a table editing session.
//
// Scripts run in a gopher-lua state holding the base, table, string and
// math libraries only. Loading code from files or strings and require are
// removed, and print writes to the runner's output. Each run is bounded by
// a timeout enforced through the state's context.
//
// The session is reachable through the global tables module:
//
//	tables.execute(name [, {order = "before"}])  --> status, message, data
//	tables.enabled(name)                         --> bool
//	tables.select(table, row, col)               --> true | false, message
//	tables.undo() / tables.redo()                --> true | false, message
//	tables.count()                               --> number of tables
//	tables.size(table)                           --> rows, columns
//	tables.commands()                            --> list of command names
//
// Indices are 1-based. Status is "ok", "no-op" or "error".
package script

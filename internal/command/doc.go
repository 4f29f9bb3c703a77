// Package command exposes the table edits as user-invokable commands.
//
// A command is enabled when the selection focus lies inside a table. It is
// the only layer that reads the live selection: it resolves the table and
// the selected cell, then hands an explicit grid and index to the planners
// in package table, and applies the resulting plan as one document change.
//
// Commands are registered under action names in a [Registry]:
//
//	reg := command.NewDefaultRegistry(command.DefaultConfig())
//	if reg.IsEnabled(command.ActionInsertColumnAfter, doc) {
//	    res := reg.Execute(command.ActionInsertColumnAfter, doc, command.Options{})
//	    if res.IsError() {
//	        // the document is unchanged
//	    }
//	}
//
// A disabled command returns a no-op result. An invalid table yields an
// error result wrapping table.ErrInvalidTable.
package command

// Package convert translates between the table model and its HTML view.
//
// Downcast renders a model table as a figure-wrapped HTML table, placing
// the heading row band in thead and turning cells of either heading band
// into th. Upcast reads such markup back, inferring the heading bands from
// thead and from leading th columns. ParseHTML and RenderHTML apply the same
// conversions to whole documents.
//
// ViewSync listens for model.change events and keeps the view of every
// touched table current:
//
//	sync := convert.NewViewSync(doc)
//	if err := sync.Attach(bus); err != nil {
//	    return err
//	}
//	view, ok := sync.View(tbl.ID())
package convert

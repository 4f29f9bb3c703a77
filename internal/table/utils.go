package table

import "github.com/dshills/tablekit/internal/model"

// ParentTable returns the closest table containing pos, or nil.
func ParentTable(pos model.Position) *model.Node {
	return pos.FindAncestor(model.TableName)
}

// ParentCell returns the closest table cell containing pos, or nil.
func ParentCell(pos model.Position) *model.Node {
	return pos.FindAncestor(model.CellName)
}

// CellStart returns the position at the start of the cell's first block, or
// at the start of the cell when it holds no block.
func CellStart(cell *model.Node) model.Position {
	if first := cell.Child(0); first != nil && !first.IsText() {
		return model.PositionAt(first, 0)
	}
	return model.PositionAt(cell, 0)
}

// Tables returns the tables directly under root, in document order.
func Tables(root *model.Node) []*model.Node {
	var out []*model.Node
	for _, c := range root.Children() {
		if c.Is(model.TableName) {
			out = append(out, c)
		}
	}
	return out
}

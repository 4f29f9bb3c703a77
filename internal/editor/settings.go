package editor

import (
	"fmt"

	"github.com/dshills/tablekit/internal/command"
	"github.com/dshills/tablekit/internal/config"
	"github.com/dshills/tablekit/internal/table"
)

// tableOptions converts the table section for the planners.
func tableOptions(t config.TableConfig) table.Options {
	return table.Options{
		EmptyCellParagraph: t.EmptyCellParagraph,
		CellText:           t.CellText,
		AllowRaggedRows:    t.AllowRaggedRows,
	}
}

// gridOptions returns the grid options matching the table section.
func gridOptions(t config.TableConfig) []table.GridOption {
	if t.AllowRaggedRows {
		return []table.GridOption{table.WithRaggedRows()}
	}
	return nil
}

// commandConfig builds the command layer configuration.
func commandConfig(cfg *config.Config, log command.Logger) (command.Config, error) {
	t := cfg.Table()
	cc := command.DefaultConfig()
	cc.Table = tableOptions(t)
	cc.Logger = log

	col, err := command.ParseOrder(t.DefaultColumnOrder)
	if err != nil {
		return cc, fmt.Errorf("table.defaultColumnOrder: %w", err)
	}
	if col != "" {
		cc.ColumnOrder = col
	}
	row, err := command.ParseOrder(t.DefaultRowOrder)
	if err != nil {
		return cc, fmt.Errorf("table.defaultRowOrder: %w", err)
	}
	if row != "" {
		cc.RowOrder = row
	}
	return cc, nil
}

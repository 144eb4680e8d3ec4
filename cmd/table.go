package cmd

import (
	"github.com/pterm/pterm"
)

// PrintTableNoPad renders rows as a compact table. The first row is the
// header when hasHeader is set.
func PrintTableNoPad(rows pterm.TableData, hasHeader bool) {
	table := pterm.DefaultTable.WithData(rows).WithLeftAlignment()
	if hasHeader {
		table = table.WithHasHeader()
	}
	if err := table.Render(); err != nil {
		pterm.Error.Printf("Failed to render table: %v\n", err)
	}
}

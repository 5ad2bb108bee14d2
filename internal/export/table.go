package export

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/models"
)

// Table writes the records as a formatted terminal table.
func Table(w io.Writer, k inventory.Kind, records []models.InventoryRecord) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(k.Headers())

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, rec := range records {
		table.Append(k.Row(rec))
	}

	table.Render()
	return nil
}

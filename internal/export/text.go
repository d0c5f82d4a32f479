package export

import (
	"io"
	"strings"

	"github.com/bekirdag/gridview/grid"
	"github.com/olekukonko/tablewriter"
)

// Text writes rows as a bordered text table in the given order.
func Text(w io.Writer, columns []grid.Column, rows []grid.Record) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	header := make([]string, len(columns))
	align := make([]int, len(columns))
	for i, col := range columns {
		header[i] = col.Title()
		align[i] = tablewriter.ALIGN_LEFT
		if col.Align == grid.AlignRight {
			align[i] = tablewriter.ALIGN_RIGHT
		}
	}
	table.SetHeader(header)
	table.SetColumnAlignment(align)

	for _, row := range rows {
		table.Append(cells(columns, row, oneLine))
	}
	table.Render()
}

func cells(columns []grid.Column, row grid.Record, clean func(string) string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = clean(row.Cell(col.Property))
	}
	return out
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

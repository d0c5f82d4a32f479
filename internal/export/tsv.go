package export

import (
	"strings"

	"github.com/bekirdag/gridview/grid"
)

var tsvEscaper = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// TSV formats rows as tab separated lines with a header, the shape
// spreadsheets accept from the clipboard.
func TSV(columns []grid.Column, rows []grid.Record) string {
	var b strings.Builder
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = tsvEscaper.Replace(col.Title())
	}
	b.WriteString(strings.Join(header, "\t"))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(cells(columns, row, tsvEscaper.Replace), "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

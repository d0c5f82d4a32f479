package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bekirdag/gridview/grid"
)

// readDelimited reads a header row followed by records. Cell types are
// inferred per cell; short records leave trailing properties unset.
func readDelimited(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var order keyOrder
	properties := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column%d", i+1)
		}
		properties[i] = name
		order.add(name)
	}

	table := &Table{Properties: order.names}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(grid.Record, len(properties))
		for i, cell := range record {
			if i >= len(properties) {
				break
			}
			row[properties[i]] = grid.Parse(cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bekirdag/gridview/grid"
)

// readJSON expects an array of objects. Keys are kept in document order and
// numbers keep their exact integer value. Nested objects and arrays are shown
// as compact JSON text.
func readJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var order keyOrder
	table := &Table{}
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(table.Rows), err)
		}
		row := grid.Record{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("row %d: unexpected key %v", len(table.Rows), tok)
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("row %d, %q: %w", len(table.Rows), name, err)
			}
			value, err := jsonValue(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d, %q: %w", len(table.Rows), name, err)
			}
			order.add(name)
			row[name] = value
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	table.Properties = order.names
	return table, nil
}

func jsonValue(raw json.RawMessage) (grid.Value, error) {
	if len(raw) > 0 && (raw[0] == '{' || raw[0] == '[') {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return grid.Value{}, err
		}
		return grid.String(buf.String()), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return grid.Value{}, err
	}
	return grid.Of(v), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, found %v", want, tok)
	}
	return nil
}

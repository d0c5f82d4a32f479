package source

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bekirdag/gridview/grid"
	"gopkg.in/yaml.v3"
)

// readYAML expects a sequence of mappings. Scalars keep their YAML type;
// nested collections are shown in YAML flow style.
func readYAML(r io.Reader) (*Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence of mappings", root.Line)
	}

	var order keyOrder
	table := &Table{}
	for i, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("row %d (line %d): expected a mapping", i, item.Line)
		}
		row := grid.Record{}
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, value := item.Content[j], item.Content[j+1]
			v, err := yamlValue(value)
			if err != nil {
				return nil, fmt.Errorf("row %d, %q: %w", i, key.Value, err)
			}
			order.add(key.Value)
			row[key.Value] = v
		}
		table.Rows = append(table.Rows, row)
	}
	table.Properties = order.names
	return table, nil
}

func yamlValue(node *yaml.Node) (grid.Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		flow := *node
		flow.Style = yaml.FlowStyle
		out, err := yaml.Marshal(&flow)
		if err != nil {
			return grid.Value{}, err
		}
		return grid.String(strings.TrimSpace(string(out))), nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return grid.Value{}, err
	}
	return grid.Of(v), nil
}

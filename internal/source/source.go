// Package source loads tabular records from files for display in a grid.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bekirdag/gridview/grid"
)

type Format string

const (
	FormatAuto   Format = ""
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return FormatAuto, nil
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unknown source format %q", value)
	}
}

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("cannot detect format of %s; pass a format explicitly", path)
	}
}

// Options select what to load. Table and Query apply to SQLite only; Query
// wins when both are set.
type Options struct {
	Path   string
	Format Format
	Table  string
	Query  string
}

// Table is a loaded data set. Properties lists every key seen, in first
// appearance order.
type Table struct {
	Properties []string
	Rows       []grid.Record
}

func Load(ctx context.Context, opts Options) (*Table, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return nil, fmt.Errorf("no data file given")
	}
	format := opts.Format
	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if format == FormatSQLite {
		return loadSQLite(ctx, path, opts.Table, opts.Query)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var table *Table
	switch format {
	case FormatCSV:
		table, err = readDelimited(f, ',')
	case FormatTSV:
		table, err = readDelimited(f, '\t')
	case FormatJSON:
		table, err = readJSON(f)
	case FormatYAML:
		table, err = readYAML(f)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// keyOrder collects property names in first appearance order.
type keyOrder struct {
	seen  map[string]struct{}
	names []string
}

func (k *keyOrder) add(name string) {
	if k.seen == nil {
		k.seen = map[string]struct{}{}
	}
	if _, ok := k.seen[name]; ok {
		return
	}
	k.seen[name] = struct{}{}
	k.names = append(k.names, name)
}

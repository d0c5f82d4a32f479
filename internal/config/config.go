// Package config reads and writes grid definition files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bekirdag/gridview/grid"
	"github.com/bekirdag/gridview/internal/source"
	"gopkg.in/yaml.v3"
)

type Column struct {
	HeaderName string `yaml:"headerName,omitempty"`
	Property   string `yaml:"property"`
	Width      int    `yaml:"width,omitempty"`
	Align      string `yaml:"align,omitempty"`
	Sortable   bool   `yaml:"sortable,omitempty"`
}

type Source struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
	Table  string `yaml:"table,omitempty"`
	Query  string `yaml:"query,omitempty"`
}

// Definition describes one grid: its columns, display flags and where its
// rows come from. A nil ShowHeader means shown.
type Definition struct {
	Title          string   `yaml:"title,omitempty"`
	ShowHeader     *bool    `yaml:"showHeader,omitempty"`
	Selection      string   `yaml:"selection,omitempty"`
	RowIdentityKey string   `yaml:"rowIdentityKey,omitempty"`
	Breakpoint     int      `yaml:"breakpoint,omitempty"`
	UnitsPerCell   int      `yaml:"unitsPerCell,omitempty"`
	Columns        []Column `yaml:"columns,omitempty"`
	Source         Source   `yaml:"source,omitempty"`
}

// Load reads a definition. Relative source paths are resolved against the
// directory of the definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p := def.Source.Path; p != "" && !filepath.IsAbs(p) {
		def.Source.Path = filepath.Join(filepath.Dir(path), p)
	}
	return &def, nil
}

func Save(def *Definition, path string) error {
	if def == nil {
		def = &Definition{}
	}
	data, err := yaml.Marshal(def)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (d *Definition) Validate() error {
	seen := map[string]bool{}
	for i, col := range d.Columns {
		prop := strings.TrimSpace(col.Property)
		if prop == "" {
			return fmt.Errorf("column %d: property is required", i+1)
		}
		if seen[prop] {
			return fmt.Errorf("column %d: duplicate property %q", i+1, prop)
		}
		seen[prop] = true
		if col.Width < 0 {
			return fmt.Errorf("column %q: negative width", prop)
		}
	}
	if d.Source.Format != "" {
		if _, err := source.ParseFormat(d.Source.Format); err != nil {
			return err
		}
	}
	return nil
}

func (d *Definition) HeaderShown() bool {
	return d.ShowHeader == nil || *d.ShowHeader
}

func (d *Definition) SelectionMode() grid.SelectionMode {
	return grid.ParseSelectionMode(d.Selection)
}

func (d *Definition) GridColumns() []grid.Column {
	out := make([]grid.Column, 0, len(d.Columns))
	for _, col := range d.Columns {
		out = append(out, grid.Column{
			HeaderName: col.HeaderName,
			Property:   strings.TrimSpace(col.Property),
			Width:      col.Width,
			Align:      grid.ParseAlignment(col.Align),
			Sortable:   col.Sortable,
		})
	}
	return out
}

func (d *Definition) SourceOptions() (source.Options, error) {
	format, err := source.ParseFormat(d.Source.Format)
	if err != nil {
		return source.Options{}, err
	}
	return source.Options{
		Path:   d.Source.Path,
		Format: format,
		Table:  d.Source.Table,
		Query:  d.Source.Query,
	}, nil
}

// GridOptions translates the display settings into grid options.
func (d *Definition) GridOptions() []grid.Option {
	opts := []grid.Option{
		grid.WithShowHeader(d.HeaderShown()),
		grid.WithSelectionMode(d.SelectionMode()),
	}
	if d.Title != "" {
		opts = append(opts, grid.WithTitle(d.Title))
	}
	if d.RowIdentityKey != "" {
		opts = append(opts, grid.WithRowIdentityKey(d.RowIdentityKey))
	}
	if d.Breakpoint > 0 {
		opts = append(opts, grid.WithBreakpoint(d.Breakpoint))
	}
	if d.UnitsPerCell > 0 {
		opts = append(opts, grid.WithUnitsPerCell(d.UnitsPerCell))
	}
	return opts
}

// FromTable derives a definition whose columns cover every property of
// table, sized to the widest value.
func FromTable(table *source.Table, src source.Options) *Definition {
	units := grid.DefaultUnitsPerCell
	def := &Definition{
		Selection: grid.SelectSingle.String(),
		Source: Source{
			Path:   src.Path,
			Format: string(src.Format),
			Table:  src.Table,
			Query:  src.Query,
		},
	}
	if table == nil {
		return def
	}
	for _, col := range grid.DeriveColumns(table.Properties, table.Rows, units) {
		def.Columns = append(def.Columns, Column{
			HeaderName: titleCase(col.Property),
			Property:   col.Property,
			Width:      col.Width,
			Align:      col.Align.String(),
			Sortable:   col.Sortable,
		})
	}
	return def
}

func titleCase(property string) string {
	words := strings.FieldsFunc(property, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

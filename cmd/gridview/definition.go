package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bekirdag/gridview/internal/config"
	"github.com/bekirdag/gridview/internal/source"
	"github.com/spf13/viper"
)

// loadDefinition reads the --config definition, if any, and applies the
// flags that were set explicitly on top of it. A positional data file wins
// over the definition's source path.
func loadDefinition(v *viper.Viper, args []string) (*config.Definition, error) {
	def := &config.Definition{}
	if path := strings.TrimSpace(v.GetString("config")); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		def = loaded
	}

	if len(args) > 0 {
		def.Source.Path = args[0]
	}
	if v.IsSet("input-format") {
		def.Source.Format = v.GetString("input-format")
	}
	if v.IsSet("table") {
		def.Source.Table = v.GetString("table")
	}
	if v.IsSet("query") {
		def.Source.Query = v.GetString("query")
	}
	if v.IsSet("title") {
		def.Title = v.GetString("title")
	}
	if v.IsSet("no-header") {
		show := !v.GetBool("no-header")
		def.ShowHeader = &show
	}
	if v.IsSet("breakpoint") {
		def.Breakpoint = v.GetInt("breakpoint")
	}

	if strings.TrimSpace(def.Source.Path) == "" {
		return nil, fmt.Errorf("no data file: pass one as an argument or set source.path in --config")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// loadTable loads the rows a definition points at. Columns and the
// selection mode are derived from the data when the definition leaves them
// out.
func loadTable(ctx context.Context, def *config.Definition) (*source.Table, source.Options, error) {
	opts, err := def.SourceOptions()
	if err != nil {
		return nil, source.Options{}, err
	}
	table, err := source.Load(ctx, opts)
	if err != nil {
		return nil, opts, err
	}
	derived := config.FromTable(table, opts)
	if len(def.Columns) == 0 {
		def.Columns = derived.Columns
	}
	if strings.TrimSpace(def.Selection) == "" {
		def.Selection = derived.Selection
	}
	return table, opts, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bekirdag/gridview/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInitCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [data-file]",
		Short: "Write a grid definition derived from a data file",
		Long: `init reads a data file and writes a YAML definition listing every property
as a column, sized to its widest value. Edit the result and pass it back
with --config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, v, args)
		},
	}
	flags := cmd.Flags()
	flags.StringP("output", "o", "grid.yaml", "definition file to write")
	flags.Bool("force", false, "overwrite an existing definition")
	bindFlags(v, "init.", flags)
	return cmd
}

func runInit(cmd *cobra.Command, v *viper.Viper, args []string) error {
	out := strings.TrimSpace(v.GetString("init.output"))
	if out == "" {
		return fmt.Errorf("no output file given")
	}
	if _, err := os.Stat(out); err == nil && !v.GetBool("init.force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", out)
	}

	def, err := loadDefinition(v, args)
	if err != nil {
		return err
	}
	table, opts, err := loadTable(cmd.Context(), def)
	if err != nil {
		return err
	}

	derived := config.FromTable(table, opts)
	derived.Title = def.Title
	derived.ShowHeader = def.ShowHeader
	derived.Breakpoint = def.Breakpoint
	if abs, err := filepath.Abs(opts.Path); err == nil {
		if rel, err := filepath.Rel(filepath.Dir(absOrSelf(out)), abs); err == nil {
			derived.Source.Path = rel
		}
	}
	if err := config.Save(derived, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d columns, %d rows sampled)\n", out, len(derived.Columns), len(table.Rows))
	return nil
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

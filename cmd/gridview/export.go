package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bekirdag/gridview/grid"
	"github.com/bekirdag/gridview/internal/export"
	"github.com/bekirdag/gridview/internal/telemetry"
	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [data-file]",
		Short: "Write the grid as text, HTML, Markdown or TSV",
		Long: `export renders the grid without the interactive view. The html and view
formats follow the same desktop or stacked layout the terminal would show at
--width cells.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, v, args)
		},
	}
	flags := cmd.Flags()
	flags.String("format", "text", "output format: text, html, markdown, tsv, view")
	flags.String("sort", "", "property to sort by")
	flags.Bool("desc", false, "sort in descending order")
	flags.Int("width", 0, "width in cells for the html and view formats (default: terminal width)")
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	bindFlags(v, "export.", flags)
	return cmd
}

func runExport(cmd *cobra.Command, v *viper.Viper, args []string) error {
	log, closeLog, err := newLogger(v)
	if err != nil {
		return err
	}
	defer closeLog()

	format := strings.ToLower(strings.TrimSpace(v.GetString("export.format")))
	switch format {
	case "text", "html", "markdown", "md", "tsv", "view":
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	def, err := loadDefinition(v, args)
	if err != nil {
		return err
	}
	table, opts, err := loadTable(cmd.Context(), def)
	if err != nil {
		return err
	}

	width := v.GetInt("export.width")
	if width <= 0 {
		width, _ = terminalSize()
	}
	if width <= 0 {
		width = defaultWidth
	}
	gridOpts := append(def.GridOptions(),
		grid.WithSelectionMode(grid.SelectNone),
		grid.WithWidth(width),
		grid.WithFocused(false),
		grid.WithLogger(log),
	)
	m := grid.New(def.GridColumns(), table.Rows, gridOpts...)
	defer m.Close()

	if prop := strings.TrimSpace(v.GetString("export.sort")); prop != "" {
		if !m.HeaderClick(prop) {
			return fmt.Errorf("cannot sort by %q: no sortable column with that property", prop)
		}
		if v.GetBool("export.desc") {
			m.HeaderClick(prop)
		}
	}

	title := def.Title
	if title == "" {
		title = filepath.Base(opts.Path)
	}
	if path := strings.TrimSpace(v.GetString("export.output")); path != "" {
		err = exportToFile(path, format, title, m)
	} else {
		err = writeExport(cmd.OutOrStdout(), format, title, m)
	}
	if err != nil {
		return err
	}

	tel, err := newTelemetry(v, log)
	if err != nil {
		return err
	}
	defer tel.Close()
	tel.Emit(telemetry.Event{
		Event:  telemetry.EventExport,
		Source: filepath.Base(opts.Path),
		Extra: map[string]string{
			"format": format,
			"rows":   strconv.Itoa(len(table.Rows)),
		},
	})
	log.WithFields(logrus.Fields{"format": format, "rows": len(table.Rows)}).Info("gridview: exported")
	return nil
}

// createOutput opens an export target; tests replace it.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// exportToFile writes the export to path. A failed close is reported since
// it can lose buffered data.
func exportToFile(path, format, title string, m *grid.Model) (err error) {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return writeExport(f, format, title, m)
}

func writeExport(w io.Writer, format, title string, m *grid.Model) error {
	var err error
	switch format {
	case "text":
		export.Text(w, m.Columns(), m.SortedRows())
	case "tsv":
		_, err = io.WriteString(w, export.TSV(m.Columns(), m.SortedRows()))
	case "markdown", "md":
		_, err = io.WriteString(w, export.Markdown(m.Columns(), m.SortedRows()))
	case "html":
		err = export.HTML(w, title, m.Tree())
	case "view":
		_, err = fmt.Fprintln(w, ansi.Strip(m.View()))
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	return err
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bekirdag/gridview/internal/logging"
	"github.com/bekirdag/gridview/internal/source"
	"github.com/bekirdag/gridview/internal/telemetry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const envPrefix = "GRIDVIEW"

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gridview [data-file]",
		Short: "Browse tabular data in a sortable, selectable grid",
		Long: `gridview opens a CSV, TSV, JSON, YAML or SQLite file in an interactive grid.
Click a sortable header (or press s) to sort, click a row (or press space) to
select it. Narrow terminals switch to a stacked layout.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initSettings(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, v, args)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.String("config", "", "grid definition file (YAML)")
	persistent.String("input-format", "", "data format: csv, tsv, json, yaml, sqlite (default: from the file extension)")
	persistent.String("table", "", "SQLite table to read (default: the first table)")
	persistent.String("query", "", "SQLite query to run instead of reading a table")
	persistent.String("title", "", "title shown above the stacked layout")
	persistent.Bool("no-header", false, "hide the header row")
	persistent.Int("breakpoint", 0, "width in units below which the stacked layout is used")
	persistent.String("telemetry", "", "append interaction events to this JSON lines file")
	persistent.String("log-file", "", "write logs to this file")
	persistent.String("log-level", "info", "log level: debug, info, warn, error")
	persistent.String("log-format", "text", "log format: text, json")

	flags := cmd.Flags()
	flags.String("selection", "", "selection mode: none, single, multiple")
	flags.Bool("watch", false, "reload the data file when it changes")
	flags.String("theme", "auto", "detail pane theme: auto, dark, light")

	bindFlags(v, "", persistent)
	bindFlags(v, "", flags)

	cmd.AddCommand(newExportCmd(v), newInitCmd(v))
	return cmd
}

// bindFlags exposes every flag of fs through v under prefix, so each can
// also be set from a GRIDVIEW_* variable or the settings file.
func bindFlags(v *viper.Viper, prefix string, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(prefix+f.Name, f)
	})
}

// initSettings enables GRIDVIEW_* overrides and reads optional user
// preferences from settings.yaml in the user config directory.
func initSettings(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(filepath.Join(dir, "gridview"))
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	return nil
}

func newLogger(v *viper.Viper) (*logrus.Logger, func() error, error) {
	return logging.New(logging.Options{
		File:   v.GetString("log-file"),
		Level:  v.GetString("log-level"),
		Format: v.GetString("log-format"),
	})
}

// newTelemetry returns nil when --telemetry is unset; a nil logger discards
// events.
func newTelemetry(v *viper.Viper, log logrus.FieldLogger) (*telemetry.Logger, error) {
	path := strings.TrimSpace(v.GetString("telemetry"))
	if path == "" {
		return nil, nil
	}
	tel, err := telemetry.NewLogger(path, telemetry.ResolveUserID(), log)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	return tel, nil
}

// terminalSize reports the size of stdout, or zeros when it is not a
// terminal.
func terminalSize() (width, height int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0
	}
	width, height, err := term.GetSize(fd)
	if err != nil {
		return 0, 0
	}
	return width, height
}

func runView(cmd *cobra.Command, v *viper.Viper, args []string) error {
	log, closeLog, err := newLogger(v)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	def, err := loadDefinition(v, args)
	if err != nil {
		return err
	}
	if v.IsSet("selection") {
		def.Selection = v.GetString("selection")
	}
	table, opts, err := loadTable(ctx, def)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"path":   opts.Path,
		"format": opts.Format,
		"rows":   len(table.Rows),
	}).Info("gridview: data loaded")

	tel, err := newTelemetry(v, log)
	if err != nil {
		return err
	}
	defer tel.Close()

	width, height := terminalSize()
	a := newApp(appOptions{
		Definition: def,
		Table:      table,
		Source:     opts,
		Theme:      v.GetString("theme"),
		Width:      width,
		Height:     height,
		Telemetry:  tel,
		Logger:     log,
	})
	defer a.Close()

	if v.GetBool("watch") {
		changes := make(chan struct{}, 1)
		w, err := source.Watch(ctx, opts.Path, source.DefaultDebounce, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		}, log)
		if err != nil {
			return fmt.Errorf("watch %s: %w", opts.Path, err)
		}
		defer w.Close()
		a.changes = changes
	}

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

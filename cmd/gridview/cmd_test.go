package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bekirdag/gridview/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleCSV = "name,age,email\nJohn,30,j@x\nJane,25,j2@x\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the command tree with settings isolated from the user's
// config directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExportFormats(t *testing.T) {
	data := writeFile(t, t.TempDir(), "people.csv", peopleCSV)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "tsv in file order",
			args: []string{"export", data, "--format", "tsv"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, "Name\tAge\tEmail\nJohn\t30\tj@x\nJane\t25\tj2@x\n", out)
			},
		},
		{
			name: "tsv sorted by age",
			args: []string{"export", data, "--format", "tsv", "--sort", "age"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, "Name\tAge\tEmail\nJane\t25\tj2@x\nJohn\t30\tj@x\n", out)
			},
		},
		{
			name: "tsv sorted by name descending",
			args: []string{"export", data, "--format", "tsv", "--sort", "name", "--desc"},
			check: func(t *testing.T, out string) {
				lines := strings.Split(strings.TrimSpace(out), "\n")
				require.Len(t, lines, 3)
				assert.True(t, strings.HasPrefix(lines[1], "John"))
			},
		},
		{
			name: "markdown",
			args: []string{"export", data, "--format", "markdown"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "| Name | Age | Email |")
				assert.Contains(t, out, "| --- | ---: | --- |")
			},
		},
		{
			name: "html",
			args: []string{"export", data, "--format", "html", "--title", "People"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "<title>People</title>")
				assert.Contains(t, out, "grid-header-cell")
			},
		},
		{
			name: "text",
			args: []string{"export", data},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "John")
				assert.Contains(t, out, "Jane")
			},
		},
		{
			name: "stacked view on a narrow width",
			args: []string{"export", data, "--format", "view", "--width", "60"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "Details")
				assert.Contains(t, out, "Name : John")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestExportErrors(t *testing.T) {
	data := writeFile(t, t.TempDir(), "people.csv", peopleCSV)

	_, err := execute(t, "export", data, "--format", "pdf")
	assert.ErrorContains(t, err, "unknown export format")

	_, err = execute(t, "export", data, "--sort", "missing")
	assert.ErrorContains(t, err, `cannot sort by "missing"`)

	_, err = execute(t, "export")
	assert.ErrorContains(t, err, "no data file")
}

func TestExportToFileWithTelemetry(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "people.csv", peopleCSV)
	out := filepath.Join(dir, "people.html")
	events := filepath.Join(dir, "events.jsonl")

	_, err := execute(t, "export", data, "--format", "html", "-o", out, "--telemetry", events)
	require.NoError(t, err)

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "John")

	logged, err := os.ReadFile(events)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"event":"export"`)
	assert.Contains(t, string(logged), `"format":"html"`)
}

type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error { return errors.New("disk full") }

func TestExportReportsCloseError(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "people.csv", peopleCSV)

	target := &failingCloser{}
	orig := createOutput
	createOutput = func(string) (io.WriteCloser, error) { return target, nil }
	t.Cleanup(func() { createOutput = orig })

	_, err := execute(t, "export", data, "--format", "tsv", "-o", filepath.Join(dir, "out.tsv"))
	assert.ErrorContains(t, err, "disk full")
	assert.Contains(t, target.String(), "John", "the export was written before the close failed")
}

func TestInitWritesDefinition(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "people.csv", peopleCSV)
	target := filepath.Join(dir, "defs", "people.yaml")

	out, err := execute(t, "init", data, "-o", target, "--title", "People")
	require.NoError(t, err)
	assert.Contains(t, out, "3 columns")

	def, err := config.Load(target)
	require.NoError(t, err)
	assert.Equal(t, "People", def.Title)
	assert.Equal(t, "single", def.Selection)
	require.Len(t, def.Columns, 3)
	assert.Equal(t, "Age", def.Columns[1].HeaderName)
	assert.Equal(t, "right", def.Columns[1].Align)
	assert.Equal(t, data, def.Source.Path, "relative path resolves back to the data file")

	_, err = execute(t, "init", data, "-o", target)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "init", data, "-o", target, "--force")
	assert.NoError(t, err)
}

func TestDefinitionFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "people.csv", peopleCSV)
	show := true
	defPath := filepath.Join(dir, "grid.yaml")
	require.NoError(t, config.Save(&config.Definition{
		Title:      "From file",
		ShowHeader: &show,
		Selection:  "multiple",
		Columns: []config.Column{
			{HeaderName: "Who", Property: "name", Width: 80},
		},
		Source: config.Source{Path: "people.csv"},
	}, defPath))

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GRIDVIEW_TITLE", "From env")

	v := viper.New()
	cmd := newRootCmd(v)
	require.NoError(t, cmd.ParseFlags([]string{"--config", defPath, "--no-header"}))
	require.NoError(t, initSettings(v))

	def, err := loadDefinition(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "From env", def.Title)
	assert.False(t, def.HeaderShown())
	assert.Equal(t, "multiple", def.Selection)
	assert.Equal(t, data, def.Source.Path)

	table, _, err := loadTable(context.Background(), def)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
	require.Len(t, def.Columns, 1, "columns from the definition are kept")
	assert.Equal(t, "Who", def.Columns[0].HeaderName)
}

func TestSettingsFile(t *testing.T) {
	cfgHome := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cfgHome, "gridview"), 0o755))
	writeFile(t, filepath.Join(cfgHome, "gridview"), "settings.yaml", "theme: light\nlog-level: debug\n")
	t.Setenv("XDG_CONFIG_HOME", cfgHome)

	v := viper.New()
	newRootCmd(v)
	require.NoError(t, initSettings(v))
	assert.Equal(t, "light", v.GetString("theme"))
	assert.Equal(t, "debug", v.GetString("log-level"))
}

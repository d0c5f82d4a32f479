package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bekirdag/gridview/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"people.csv", FormatCSV},
		{"people.TSV", FormatTSV},
		{"people.json", FormatJSON},
		{"people.yml", FormatYAML},
		{"people.sqlite3", FormatSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := DetectFormat("people.txt")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("auto")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "people.csv", "Name,age,email\nJohn,30,j@x\nJane,25\n")

	table, err := Load(context.Background(), Options{Path: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "age", "email"}, table.Properties)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, grid.Int(30), table.Rows[0]["age"])
	assert.Equal(t, "j@x", table.Rows[0].Cell("email"))
	_, ok := table.Rows[1].Get("email")
	assert.False(t, ok, "short record leaves the property unset")
}

func TestLoadTSV(t *testing.T) {
	path := writeFile(t, "data.tsv", "a\tb\n1.5\ttrue\n")
	table, err := Load(context.Background(), Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, grid.Float(1.5), table.Rows[0]["a"])
	assert.Equal(t, grid.Bool(true), table.Rows[0]["b"])
}

func TestLoadEmptyCSV(t *testing.T) {
	path := writeFile(t, "empty.csv", "")
	table, err := Load(context.Background(), Options{Path: path})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "people.json", `[
		{"name": "John", "age": 30, "email": "j@x", "id": 9007199254740993},
		{"name": "Jane", "age": 25.5, "tags": ["a", "b"], "email": null}
	]`)

	table, err := Load(context.Background(), Options{Path: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "email", "id", "tags"}, table.Properties)
	assert.Equal(t, grid.Int(9007199254740993), table.Rows[0]["id"])
	assert.Equal(t, grid.Float(25.5), table.Rows[1]["age"])
	assert.True(t, table.Rows[1]["email"].IsNull())
	assert.Equal(t, `["a","b"]`, table.Rows[1].Cell("tags"))
}

func TestLoadJSONRejectsObject(t *testing.T) {
	path := writeFile(t, "bad.json", `{"name": "John"}`)
	_, err := Load(context.Background(), Options{Path: path})
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "people.yaml", `
- name: John
  age: 30
  admin: true
- name: Jane
  age: 25
  tags: [a, b]
`)

	table, err := Load(context.Background(), Options{Path: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "admin", "tags"}, table.Properties)
	assert.Equal(t, grid.Int(30), table.Rows[0]["age"])
	assert.Equal(t, grid.Bool(true), table.Rows[0]["admin"])
	assert.Equal(t, "[a, b]", table.Rows[1].Cell("tags"))
}

func TestLoadYAMLRejectsMapping(t *testing.T) {
	path := writeFile(t, "bad.yaml", "name: John\n")
	_, err := Load(context.Background(), Options{Path: path})
	assert.Error(t, err)
}

func createPeopleDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE people (name TEXT, age INTEGER, score REAL, note TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO people VALUES ('John', 30, 1.5, NULL), ('Jane', 25, 2.0, 'hi')`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE "zz odd" (x INTEGER)`)
	require.NoError(t, err)
	return path
}

func TestLoadSQLite(t *testing.T) {
	path := createPeopleDB(t)

	table, err := Load(context.Background(), Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "score", "note"}, table.Properties)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, grid.Int(30), table.Rows[0]["age"])
	assert.Equal(t, grid.Float(1.5), table.Rows[0]["score"])
	assert.True(t, table.Rows[0]["note"].IsNull())

	table, err = Load(context.Background(), Options{Path: path, Query: `SELECT name FROM people WHERE age < 30`})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Jane", table.Rows[0].Cell("name"))

	table, err = Load(context.Background(), Options{Path: path, Table: "zz odd"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, table.Properties)

	names, err := Tables(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"people", "zz odd"}, names)
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	_, err := Load(context.Background(), Options{Path: path})
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestLoadCancelled(t *testing.T) {
	path := writeFile(t, "people.csv", "a\n1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, Options{Path: path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchReportsWrites(t *testing.T) {
	path := writeFile(t, "people.csv", "a\n1\n")
	changed := make(chan struct{}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := Watch(ctx, path, 20*time.Millisecond, func() { changed <- struct{}{} }, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("a\n2\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	path := writeFile(t, "people.csv", "a\n1\n")
	changed := make(chan struct{}, 4)

	w, err := Watch(context.Background(), path, 20*time.Millisecond, func() { changed <- struct{}{} }, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.csv"), []byte("x"), 0o644))

	select {
	case <-changed:
		t.Fatal("unexpected notification for another file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchQuietAfterClose(t *testing.T) {
	path := writeFile(t, "people.csv", "a\n1\n")
	changed := make(chan struct{}, 4)

	w, err := Watch(context.Background(), path, 50*time.Millisecond, func() { changed <- struct{}{} }, nil)
	require.NoError(t, err)

	// A change pending at Close and one scheduled while the loop winds down.
	w.schedule()
	require.NoError(t, w.Close())
	w.schedule()

	select {
	case <-changed:
		t.Fatal("notification after Close")
	case <-time.After(250 * time.Millisecond):
	}
}

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bekirdag/gridview/internal/telemetry"
	"github.com/olekukonko/tablewriter"
)

type report struct {
	Source  string            `json:"source"`
	Summary telemetry.Summary `json:"summary"`
	TopSort []string          `json:"top_sort_keys,omitempty"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "gridevents: %v\n", err)
	os.Exit(1)
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gridevents", flag.ContinueOnError)
	var inputPath, outputPath, format string
	var top int
	fs.StringVar(&inputPath, "in", "", "telemetry log path (required)")
	fs.StringVar(&outputPath, "out", "", "output path (optional, defaults to stdout)")
	fs.StringVar(&format, "format", "json", "output format: json or text")
	fs.IntVar(&top, "top", 5, "number of sort keys to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if inputPath == "" {
		return errors.New("missing --in path")
	}
	if format != "json" && format != "text" {
		return fmt.Errorf("unknown --format %q", format)
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	summary, err := telemetry.Summarize(file)
	if err != nil {
		return fmt.Errorf("read telemetry: %w", err)
	}
	rep := report{Source: inputPath, Summary: summary, TopSort: telemetry.Ranked(summary.SortKeys)}
	if top >= 0 && len(rep.TopSort) > top {
		rep.TopSort = rep.TopSort[:top]
	}

	out := stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format == "text" {
		writeText(out, rep)
		return nil
	}
	encoded, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

func writeText(w io.Writer, rep report) {
	s := rep.Summary
	fmt.Fprintf(w, "%s: %d events, %d sessions, %d users\n", rep.Source, s.Events, s.Sessions, len(s.Users))
	if !s.FirstSeen.IsZero() {
		fmt.Fprintf(w, "from %s to %s\n", s.FirstSeen.Format(time.RFC3339), s.LastSeen.Format(time.RFC3339))
	}
	if len(s.Malformed) > 0 {
		fmt.Fprintf(w, "skipped %d malformed lines\n", len(s.Malformed))
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Group", "Key", "Count"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, name := range telemetry.Ranked(s.ByEvent) {
		table.Append([]string{"event", name, strconv.Itoa(s.ByEvent[name])})
	}
	for _, prop := range rep.TopSort {
		table.Append([]string{"sort", prop, strconv.Itoa(s.SortKeys[prop])})
	}
	for _, layout := range telemetry.Ranked(s.Layouts) {
		table.Append([]string{"layout", layout, strconv.Itoa(s.Layouts[layout])})
	}
	if s.Selections > 0 {
		table.Append([]string{"select", "max selected", strconv.Itoa(s.MaxChosen)})
	}
	table.Render()
}

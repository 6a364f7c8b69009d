package main

import (
	"encoding/json"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// resultTable collects rows for the text output of a command. Numeric
// columns are right-aligned, IPA cells are printed as given.
type resultTable struct {
	headers []string
	numeric map[int]bool
	rows    []table.Row
}

func newResultTable(headers ...string) *resultTable {
	return &resultTable{headers: headers, numeric: map[int]bool{}}
}

// numericColumns marks the 0-based columns holding numbers.
func (t *resultTable) numericColumns(cols ...int) *resultTable {
	for _, c := range cols {
		t.numeric[c] = true
	}
	return t
}

// add appends a row, padding or truncating it to the header width.
func (t *resultTable) add(cells ...string) {
	row := make(table.Row, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	t.rows = append(t.rows, row)
}

func (t *resultTable) render() string {
	if len(t.headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, len(t.headers))
	configs := make([]table.ColumnConfig, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if t.numeric[i] {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.AppendRows(t.rows)
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func ratio(r float64) string { return strconv.FormatFloat(r, 'f', 2, 64) }

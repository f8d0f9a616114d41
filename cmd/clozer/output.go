package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pbaille/clozer/internal/domain"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// wantsJSON is true when --json is set or stdout is not a terminal.
func (c *commandContext) wantsJSON(cmd *cobra.Command) bool {
	return c.jsonOutput() || !isTerminal(cmd.OutOrStdout())
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderReport(r domain.Report) string {
	rows := [][]string{
		{"length (utf-16)", strconv.Itoa(r.Len)},
		{"sentences", strconv.Itoa(r.Sentences)},
		{"pass1", strconv.Itoa(r.Pass1)},
		{"pass2", strconv.Itoa(r.Pass2)},
		{"pass3", strconv.Itoa(r.Pass3)},
		{"cloze_short", strconv.Itoa(r.ClozeShort)},
		{"cloze_long", strconv.Itoa(r.ClozeLong)},
	}
	return renderTable([]string{"Kept", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderDraftList(drafts []domain.Draft) string {
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		level := "-"
		if d.Level > 0 {
			level = strconv.Itoa(d.Level)
		}
		rows = append(rows, []string{
			shortID(d.ID),
			string(d.Lang),
			level,
			d.Source,
			truncate(d.Title, 30),
			strconv.Itoa(d.Report.Sentences),
			fmt.Sprintf("%d/%d", d.Report.ClozeShort, d.Report.ClozeLong),
			d.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return renderTable(
		[]string{"ID", "Lang", "Level", "Source", "Title", "Sentences", "Cloze", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func renderCloze(t string, entries []domain.ClozeEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("[%d,%d)", e.Start, e.End),
			e.Answer,
			e.Hint,
			e.Type,
		})
	}
	return renderTable([]string{t, "Answer", "Hint", "Type"}, rows, nil)
}

func printDraft(cmd *cobra.Command, d *domain.Draft) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:      %s\n", d.ID)
	if d.Title != "" {
		fmt.Fprintf(out, "Title:   %s\n", d.Title)
	}
	fmt.Fprintf(out, "Lang:    %s\n", d.Lang)
	if d.Level > 0 {
		fmt.Fprintf(out, "Level:   %d\n", d.Level)
	}
	fmt.Fprintf(out, "Source:  %s\n", d.Source)
	fmt.Fprintf(out, "Created: %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "\n%s\n\n", d.Text)
	fmt.Fprintln(out, renderReport(d.Report))
	if len(d.ClozeShort) > 0 {
		fmt.Fprintln(out, renderCloze("Short", d.ClozeShort))
	}
	if len(d.ClozeLong) > 0 {
		fmt.Fprintln(out, renderCloze("Long", d.ClozeLong))
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

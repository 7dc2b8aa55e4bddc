// Package tablewriter renders rows of text as a bordered ASCII table.
package tablewriter

import (
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Writer collects a caption, headers and rows, then renders them as a table
type Writer struct {
	out     io.Writer
	caption string
	headers []string
	rows    [][]string
	widths  []int
}

// displayWidth returns the number of terminal cells a string occupies,
// ignoring ANSI colour codes and counting wide runes as two cells.
func displayWidth(s string) int {
	return runewidth.StringWidth(ansiRegex.ReplaceAllString(s, ""))
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// SetCaption sets a line printed above the table
func (t *Writer) SetCaption(caption string) {
	t.caption = caption
}

// SetHeader sets the table headers. The header defines the column count;
// extra cells in appended rows are dropped.
func (t *Writer) SetHeader(headers ...string) {
	t.headers = headers
	t.updateWidths(headers)
}

// Append adds a row to the table
func (t *Writer) Append(row ...string) {
	t.rows = append(t.rows, row)
	t.updateWidths(row)
}

// Len returns the number of rows appended so far
func (t *Writer) Len() int {
	return len(t.rows)
}

func (t *Writer) columns() int {
	if len(t.headers) > 0 {
		return len(t.headers)
	}
	return len(t.widths)
}

func (t *Writer) updateWidths(row []string) {
	limit := len(row)
	if len(t.headers) > 0 && limit > len(t.headers) {
		limit = len(t.headers)
	}
	for i := 0; i < limit; i++ {
		if i >= len(t.widths) {
			t.widths = append(t.widths, 0)
		}
		if width := displayWidth(row[i]); width > t.widths[i] {
			t.widths[i] = width
		}
	}
}

// Render writes the table. Nothing is written for a table without headers
// or rows.
func (t *Writer) Render() error {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return nil
	}
	var sb strings.Builder
	if t.caption != "" {
		sb.WriteString(t.caption)
		sb.WriteString("\n")
	}
	t.writeBorder(&sb)
	if len(t.headers) > 0 {
		t.writeRow(&sb, t.headers)
		t.writeBorder(&sb)
	}
	for _, row := range t.rows {
		t.writeRow(&sb, row)
	}
	t.writeBorder(&sb)

	_, err := io.WriteString(t.out, sb.String())
	return err
}

func (t *Writer) writeBorder(sb *strings.Builder) {
	sb.WriteString("+")
	for i := 0; i < t.columns(); i++ {
		sb.WriteString(strings.Repeat("-", t.widths[i]+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
}

func (t *Writer) writeRow(sb *strings.Builder, row []string) {
	sb.WriteString("|")
	for i := 0; i < t.columns(); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", t.widths[i]-displayWidth(cell)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

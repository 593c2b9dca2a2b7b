// Package table renders simple ASCII tables whose cells may contain ANSI
// color sequences.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Alignment controls how a cell is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripAnsi removes ANSI escape sequences from s.
func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// width returns the number of visible characters in s.
func width(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

// Table accumulates rows and renders them to a writer.
type Table struct {
	writer          io.Writer
	header          []string
	rows            [][]string
	columnAlignment []Alignment
	headerAlignment []Alignment
}

// NewTable returns an empty table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.columnAlignment = alignment
	return t
}

func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlignment = alignment
	return t
}

func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// Append adds a single row.
func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

func (t *Table) columnWidths() []int {
	count := len(t.header)
	for _, row := range t.rows {
		if len(row) > count {
			count = len(row)
		}
	}
	widths := make([]int, count)
	measure := func(row []string) {
		for i, cell := range row {
			if w := width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

// Render writes the table. A table with no header and no rows renders
// nothing.
func (t *Table) Render() error {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return nil
	}
	var b strings.Builder
	t.writeSeparator(&b, widths)
	if len(t.header) > 0 {
		t.writeRow(&b, t.header, widths, t.headerAlignment)
		t.writeSeparator(&b, widths)
	}
	for _, row := range t.rows {
		t.writeRow(&b, row, widths, t.columnAlignment)
	}
	if len(t.rows) > 0 {
		t.writeSeparator(&b, widths)
	}
	_, err := fmt.Fprint(t.writer, b.String())
	return err
}

func (t *Table) writeSeparator(b *strings.Builder, widths []int) {
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	b.WriteString("\n")
}

func (t *Table) writeRow(b *strings.Builder, row []string, widths []int, alignment []Alignment) {
	b.WriteString("|")
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		align := AlignLeft
		if i < len(alignment) {
			align = alignment[i]
		}
		b.WriteString(" ")
		b.WriteString(pad(cell, w, align))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func pad(s string, w int, align Alignment) string {
	n := w - width(s)
	if n <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", n) + s
	case AlignCenter:
		left := n / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", n-left)
	default:
		return s + strings.Repeat(" ", n)
	}
}

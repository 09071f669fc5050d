// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package table renders aligned ASCII tables for query results and
// command listings. Column widths are display widths, so wide runes in
// cell data keep the borders straight.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// TABLE
// =============================================================================

// Table collects rows and renders them with a bordered header.
type Table struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

// New creates a table with the given column headers.
func New(headers ...string) *Table {
	return &Table{
		headers:    headers,
		rightAlign: make(map[int]bool),
	}
}

// RightAlign marks a column (zero-based) as right-aligned, the usual
// treatment for numeric columns.
func (t *Table) RightAlign(col int) {
	t.rightAlign[col] = true
}

// AddRow appends one row. Missing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	t.rows = append(t.rows, row)
}

// RowCount returns the number of data rows added so far.
func (t *Table) RowCount() int { return len(t.rows) }

// Render writes the bordered table.
func (t *Table) Render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	separator := t.separator(widths)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, t.formatRow(t.headers, widths))
	fmt.Fprintln(w, separator)
	for _, row := range t.rows {
		fmt.Fprintln(w, t.formatRow(row, widths))
	}
	fmt.Fprintln(w, separator)
}

func (t *Table) separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	return b.String()
}

func (t *Table) formatRow(cells []string, widths []int) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := w - runewidth.StringWidth(cell)
		if pad < 0 {
			pad = 0
		}
		if t.rightAlign[i] {
			b.WriteString(" " + strings.Repeat(" ", pad) + cell + " ")
		} else {
			b.WriteString(" " + cell + strings.Repeat(" ", pad) + " ")
		}
		b.WriteByte('|')
	}
	return b.String()
}

package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiSeq matches the color sequences written by paint.
var ansiSeq = regexp.MustCompile("\033\\[[0-9;]*m")

// Table buffers rows and prints them column-aligned on Flush. Columns are
// sized by visible width, so colored cells such as Status line up. An empty
// table prints nothing.
type Table struct {
	out     io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table on stdout with the given column headers.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo creates a table that writes to out.
func NewTableTo(out io.Writer, headers ...string) *Table {
	return &Table{out: out, headers: headers}
}

// Row adds a row. Missing trailing cells print empty.
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Flush prints the header, a dash divider and the buffered rows.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}

	divider := make([]string, len(t.headers))
	for i, h := range t.headers {
		divider[i] = strings.Repeat("-", len(h))
	}
	lines := append([][]string{t.headers, divider}, t.rows...)

	widths := make([]int, len(t.headers))
	for _, line := range lines {
		for i, cell := range line {
			if i < len(widths) {
				widths[i] = max(widths[i], VisibleWidth(cell))
			}
		}
	}

	for _, line := range lines {
		var b strings.Builder
		for i := range widths {
			cell := ""
			if i < len(line) {
				cell = line[i]
			}
			b.WriteString(cell)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-VisibleWidth(cell)+2))
			}
		}
		fmt.Fprintln(t.out, strings.TrimRight(b.String(), " "))
	}
	t.rows = nil
}

// VisibleWidth is the number of runes in s once color sequences are removed.
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(ansiSeq.ReplaceAllString(s, ""))
}

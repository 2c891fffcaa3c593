package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// TableFormatter draws a box table sized to its content.
type TableFormatter struct {
	// MaxCellWidth truncates long cells; zero disables truncation.
	MaxCellWidth int
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{MaxCellWidth: 60}
}

func (f *TableFormatter) Format(w io.Writer, ds Dataset) error {
	if ds.Title != "" {
		if _, err := fmt.Fprintln(w, ds.Title); err != nil {
			return err
		}
	}

	widths := f.calculateColumnWidths(ds)
	tw := &tableWriter{w: w}

	tw.border(widths, "top")
	tw.row(f.cells(ds.Headers), widths, ds, true)
	tw.border(widths, "middle")
	for _, row := range ds.Rows {
		tw.row(f.cells(row), widths, ds, false)
	}
	if len(ds.Footer) > 0 {
		tw.border(widths, "middle")
		tw.row(f.cells(ds.Footer), widths, ds, false)
	}
	tw.border(widths, "bottom")
	return tw.err
}

func (f *TableFormatter) cells(values []string) []string {
	if f.MaxCellWidth <= 0 {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = util.Truncate(v, f.MaxCellWidth)
	}
	return out
}

// calculateColumnWidths sizes each column to its widest cell.
func (f *TableFormatter) calculateColumnWidths(ds Dataset) []int {
	widths := make([]int, len(ds.Headers))
	measure := func(values []string) {
		for i, v := range f.cells(values) {
			if i >= len(widths) {
				break
			}
			if w := util.GetDisplayWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(ds.Headers)
	for _, row := range ds.Rows {
		measure(row)
	}
	measure(ds.Footer)
	return widths
}

// tableWriter keeps the first write error so drawing code stays linear.
type tableWriter struct {
	w   io.Writer
	err error
}

func (t *tableWriter) print(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

// border prints table borders (top, middle, bottom)
func (t *tableWriter) border(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
	t.print(b.String())
}

// row prints one row; headers are always left-aligned.
func (t *tableWriter) row(values []string, widths []int, ds Dataset, header bool) {
	var b strings.Builder
	b.WriteString("│")
	for i, width := range widths {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		pad := strings.Repeat(" ", width-util.GetDisplayWidth(value))
		if !header && ds.align(i) == AlignRight {
			b.WriteString(" " + pad + value + " │")
		} else {
			b.WriteString(" " + value + pad + " │")
		}
	}
	b.WriteString("\n")
	t.print(b.String())
}

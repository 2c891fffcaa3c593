package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-lecture-monitor/internal/util"
)

// SummaryFormatter prints a report as "label: value" blocks, one per row.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, ds Dataset) error {
	labelWidth := 0
	for _, h := range ds.Headers {
		if lw := util.GetDisplayWidth(h); lw > labelWidth {
			labelWidth = lw
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	title := ds.Title
	if title == "" {
		title = "Summary"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")

	write := func(row []string) {
		b.WriteString("\n")
		for i, h := range ds.Headers {
			if i >= len(row) {
				break
			}
			fmt.Fprintf(&b, "%s: %s\n", util.PadRight(h, labelWidth), row[i])
		}
	}
	for _, row := range ds.Rows {
		write(row)
	}
	if len(ds.Footer) > 0 {
		b.WriteString("\n" + strings.Repeat("-", 60) + "\n")
		write(ds.Footer)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

package formatter

import (
	"fmt"
	"io"
	"strings"
)

// Align is the alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Dataset is a tabular report. Raw is what the JSON formatter encodes; the
// other formatters render Headers, Rows and Footer.
type Dataset struct {
	Title   string
	Headers []string
	Align   []Align
	Rows    [][]string
	Footer  []string
	Raw     any
}

// Formatter writes a Dataset.
type Formatter interface {
	Format(w io.Writer, ds Dataset) error
}

// Formats lists the accepted output format names.
var Formats = []string{"table", "json", "csv", "summary"}

// New returns the formatter for name.
func New(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

func (ds Dataset) align(col int) Align {
	if col < len(ds.Align) {
		return ds.Align[col]
	}
	return AlignLeft
}

func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}
	if neg {
		return "-" + string(result)
	}
	return string(result)
}

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-lecture-monitor/internal/presentation/formatter"
)

// writeDataset renders ds in the named format.
func writeDataset(w io.Writer, format string, ds formatter.Dataset) error {
	f, err := formatter.New(format)
	if err != nil {
		return err
	}
	return f.Format(w, ds)
}

// checkFormat validates -o early. extra lists command-specific formats.
func checkFormat(format string, extra ...string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, e := range extra {
		if format == e {
			return nil
		}
	}
	if _, err := formatter.New(format); err != nil {
		if len(extra) > 0 {
			return fmt.Errorf("%w, or %s", err, strings.Join(extra, ", "))
		}
		return err
	}
	return nil
}

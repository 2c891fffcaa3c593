package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format encodes ds.Raw, or the rows when no raw value is attached.
func (f *JSONFormatter) Format(w io.Writer, ds Dataset) error {
	v := ds.Raw
	if v == nil {
		v = ds.Rows
	}
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

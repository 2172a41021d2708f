package boardconfig

import (
	"fmt"
	"io"
	"strings"
)

// Setting is the current value of one entry.
type Setting struct {
	Key   string `json:"key" yaml:"key"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	Value any    `json:"value" yaml:"value"`
}

// Render writes "key = value" for every entry in tables, in order. Arrays
// are written as "key = { v1 v2 }". Pins print as port.pin or NoPin and
// floats with two decimals.
func Render(w io.Writer, tables ...*Table) error {
	for _, t := range tables {
		for i := range t.entries {
			if _, err := fmt.Fprintln(w, FormatEntry(&t.entries[i])); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatEntry renders a single entry the way Render does.
func FormatEntry(e *Entry) string {
	vals := e.Values()
	if e.IsArray() {
		return fmt.Sprintf("%s = { %s }", e.Key, strings.Join(vals, " "))
	}
	return fmt.Sprintf("%s = %s", e.Key, vals[0])
}

// Snapshot returns the current values of every entry in tables.
func Snapshot(tables ...*Table) []Setting {
	var out []Setting
	for _, t := range tables {
		for i := range t.entries {
			e := &t.entries[i]
			s := Setting{Key: e.Key, Kind: e.Kind}
			if e.IsArray() {
				s.Value = e.Values()
			} else {
				s.Value = e.Values()[0]
			}
			out = append(out, s)
		}
	}
	return out
}

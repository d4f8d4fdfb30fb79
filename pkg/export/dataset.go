package export

import "fmt"

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
	// GroupBy names a header whose value changes start a new visual band in
	// paged formats, e.g. "Day" for a weekly timetable.
	GroupBy string
}

// Validate checks headers are present and unique.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	seen := make(map[string]struct{}, len(d.Headers))
	for _, header := range d.Headers {
		if _, dup := seen[header]; dup {
			return fmt.Errorf("duplicate header %q", header)
		}
		seen[header] = struct{}{}
	}
	return nil
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

// bands returns, per row, whether it belongs to an odd group.
func (d Dataset) bands() []bool {
	out := make([]bool, len(d.Rows))
	if d.GroupBy == "" {
		return out
	}
	odd := false
	for i, row := range d.Rows {
		if i > 0 && row[d.GroupBy] != d.Rows[i-1][d.GroupBy] {
			odd = !odd
		}
		out[i] = odd
	}
	return out
}

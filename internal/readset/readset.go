// Package readset parses tab-separated sample sheets. A sheet has a header
// line followed by one row per sample; the `Sample` column (or the first
// column when no header by that name exists) must be non-empty and unique.
package readset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Readset is a single sample row from a sheet.
type Readset struct {
	Sample string
	Fields map[string]string
}

// Parse reads the sheet at path and returns one Readset per data row.
// An empty sheet (no data rows) is an error.
func Parse(path string) ([]Readset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1 // rows may carry trailing optional columns

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read sample sheet %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("sample sheet %s has no data rows", path)
	}

	header := records[0]
	sampleCol := 0
	for i, name := range header {
		if name == "Sample" {
			sampleCol = i
			break
		}
	}

	seen := make(map[string]int)
	readsets := make([]Readset, 0, len(records)-1)
	for line, row := range records[1:] {
		if sampleCol >= len(row) || row[sampleCol] == "" {
			return nil, fmt.Errorf("sample sheet %s line %d: empty sample name", path, line+2)
		}
		sample := row[sampleCol]
		if prev, dup := seen[sample]; dup {
			return nil, fmt.Errorf("sample sheet %s line %d: duplicate sample %q (first seen on line %d)", path, line+2, sample, prev)
		}
		seen[sample] = line + 2

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = row[i]
			}
		}
		readsets = append(readsets, Readset{Sample: sample, Fields: fields})
	}

	return readsets, nil
}

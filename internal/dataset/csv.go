// internal/dataset/csv.go
//
// CSV source parsing: header-keyed rows as untyped bags.
//
// Every cell is trimmed; the normalizers treat empty-after-trim as absent,
// so blank columns behave like missing JSON keys.  Rows whose width differs
// from the header are a hard error — a ragged CSV means a broken export,
// not a sparse record.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readCSVRows parses a header-row CSV file into one map per data row.
func readCSVRows(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header row", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]any
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		row := make(map[string]any, len(header))
		for i, cell := range record {
			row[header[i]] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

package formats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

// ParseCSV reads a comma-separated file whose first non-blank line is the
// header. Header names are normalized with core.NormalizeHeaders and cell
// text is typed with core.ParseValue. Blank lines are skipped. A row
// shorter than the header leaves the missing keys out; extra fields are
// dropped.
func ParseCSV(r io.Reader) ([]core.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var keys []string
	var records []core.Record

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidCSV, err)
		}
		if isEmptyRow(row) {
			continue
		}

		if keys == nil {
			keys = core.NormalizeHeaders(row)
			continue
		}

		values := make(map[string]core.Value, len(keys))
		for i, k := range keys {
			if i >= len(row) {
				break
			}
			values[k] = core.ParseValue(row[i])
		}
		records = append(records, core.Record{Keys: keys, Values: values})
	}

	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

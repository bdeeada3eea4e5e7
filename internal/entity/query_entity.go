package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RowID identifies one input row. It is opaque; spreadsheet indexes arrive as
// integer literals and are written back to JSON as numbers.
type RowID string

func (id RowID) String() string {
	return string(id)
}

func (id RowID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *RowID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RowID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("row id must be a string or number: %w", err)
	}
	*id = NormalizeRowID(n.String())
	return nil
}

// NormalizeRowID trims whitespace and drops a zero fraction ("12.0" -> "12"),
// which spreadsheets add to integer indexes.
func NormalizeRowID(raw string) RowID {
	s := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.Contains(s, ".") {
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return RowID(strconv.FormatInt(int64(f), 10))
		}
	}
	return RowID(s)
}

// Query is one row of the input corpus.
type Query struct {
	ID   RowID
	Text string
}

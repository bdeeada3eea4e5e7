package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"srh-intent/internal/entity"
)

type CSVSource struct {
	path string
	opts Options
}

func NewCSVSource(path string, opts Options) *CSVSource {
	return &CSVSource{path: path, opts: opts.withDefaults()}
}

func (s *CSVSource) Rows(ctx context.Context) ([]entity.Query, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return collect(ctx, r.Read, s.opts)
}

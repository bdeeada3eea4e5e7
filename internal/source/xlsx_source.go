package source

import (
	"context"
	"fmt"
	"io"

	"srh-intent/internal/entity"

	"github.com/xuri/excelize/v2"
)

type XLSXSource struct {
	path string
	opts Options
}

func NewXLSXSource(path string, opts Options) *XLSXSource {
	return &XLSXSource{path: path, opts: opts.withDefaults()}
}

func (s *XLSXSource) Rows(ctx context.Context) ([]entity.Query, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	sheet := s.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyInput
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("open sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	next := func() ([]string, error) {
		if !rows.Next() {
			if err := rows.Error(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return rows.Columns()
	}

	return collect(ctx, next, s.opts)
}

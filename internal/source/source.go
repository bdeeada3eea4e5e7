package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"srh-intent/internal/entity"
)

var (
	ErrMissingColumn     = errors.New("column not found")
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrEmptyInput        = errors.New("input has no header row")
)

// RowSource yields the queries of a tabular input in file order.
type RowSource interface {
	Rows(ctx context.Context) ([]entity.Query, error)
}

type Options struct {
	IDColumn   string
	TextColumn string
	Sheet      string // xlsx only; first sheet when empty
}

func (o Options) withDefaults() Options {
	if o.IDColumn == "" {
		o.IDColumn = "Index"
	}
	if o.TextColumn == "" {
		o.TextColumn = "User Content"
	}
	return o
}

// Open picks a reader by file extension.
func Open(path string, opts Options) (RowSource, error) {
	opts = opts.withDefaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVSource(path, opts), nil
	case ".xlsx", ".xlsm":
		return NewXLSXSource(path, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// rowReader returns the next record, or io.EOF.
type rowReader func() ([]string, error)

func collect(ctx context.Context, next rowReader, opts Options) ([]entity.Query, error) {
	header, err := next()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idCol, err := columnIndex(header, opts.IDColumn)
	if err != nil {
		return nil, err
	}
	textCol, err := columnIndex(header, opts.TextColumn)
	if err != nil {
		return nil, err
	}

	var queries []entity.Query
	for line := 2; ; line++ {
		if line%500 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		queries = append(queries, entity.Query{
			ID:   entity.NormalizeRowID(cell(record, idCol)),
			Text: cell(record, textCol),
		})
	}
	return queries, nil
}

// columnIndex matches exactly first, then ignoring case and surrounding space.
func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (have %s)", ErrMissingColumn, name, strings.Join(header, ", "))
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

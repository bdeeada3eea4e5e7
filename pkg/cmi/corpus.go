package cmi

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"srh-intent/internal/entity"
)

// Row is one scored query.
type Row struct {
	ID    entity.RowID
	Query string
	Result
}

// ScoreAll computes the CMI of every query. progress, when set, is called
// after each row with the number scored so far.
func ScoreAll(ctx context.Context, queries []entity.Query, id Identifier, progress func(done int)) ([]Row, error) {
	rows := make([]Row, 0, len(queries))
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		rows = append(rows, Row{ID: q.ID, Query: q.Text, Result: Compute(q.Text, id)})
		if progress != nil {
			progress(i + 1)
		}
	}
	return rows, nil
}

// Values returns the CMI column of rows.
func Values(rows []Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.CMI
	}
	return out
}

// WriteCSV writes rows with the header id,query,cmi,hi,en.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "query", "cmi", "hi", "en"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ID.String(),
			r.Query,
			strconv.FormatFloat(r.CMI, 'f', -1, 64),
			strconv.Itoa(r.Counts.Hindi),
			strconv.Itoa(r.Counts.English),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"srh-intent/internal/entity"
	"srh-intent/internal/pkg/logger"
	"srh-intent/internal/repository/contract"
)

// JSONResultRepository keeps all results of a run in one JSON array file.
// Every Append rewrites the whole file through a temp file and a rename, so a
// crash leaves either the previous or the new content on disk.
type JSONResultRepository struct {
	path   string
	logger logger.ILogger
}

func NewJSONResultRepository(path string, log logger.ILogger) contract.ResultRepository {
	return &JSONResultRepository{path: path, logger: log}
}

func (r *JSONResultRepository) Path() string {
	return r.path
}

// Load never fails: a missing or unreadable artifact starts an empty run.
func (r *JSONResultRepository) Load(ctx context.Context) (*entity.ResultCollection, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("RESULT_STORE", "Cannot read results file, starting empty", map[string]interface{}{
				"path":  r.path,
				"error": err.Error(),
			})
		}
		return entity.NewResultCollection(nil), nil
	}

	var records []*entity.ClassificationResult
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Warn("RESULT_STORE", "Results file is not a JSON array, starting empty", map[string]interface{}{
			"path":  r.path,
			"error": err.Error(),
		})
		return entity.NewResultCollection(nil), nil
	}

	results := entity.NewResultCollection(records)
	r.logger.Info("RESULT_STORE", "Loaded existing results", map[string]interface{}{
		"path":    r.path,
		"records": results.Len(),
	})
	return results, nil
}

func (r *JSONResultRepository) Append(ctx context.Context, results *entity.ResultCollection, record *entity.ClassificationResult) error {
	results.Add(record)
	return r.write(results.Records())
}

func (r *JSONResultRepository) write(records []*entity.ClassificationResult) error {
	if records == nil {
		records = []*entity.ClassificationResult{}
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode results: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace results file: %w", err)
	}
	return nil
}

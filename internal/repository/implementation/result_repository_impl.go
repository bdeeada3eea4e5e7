package implementation

import (
	"context"
	"errors"
	"fmt"

	"srh-intent/internal/entity"
	"srh-intent/internal/mapper"
	"srh-intent/internal/model"
	"srh-intent/internal/repository/contract"
	"srh-intent/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// ResultRepositoryImpl mirrors results into postgres. Rows are scoped to one
// model, matching one JSON artifact per model.
type ResultRepositoryImpl struct {
	db     *gorm.DB
	model  string
	mapper *mapper.ClassificationResultMapper
}

func NewResultRepository(db *gorm.DB, modelName string) contract.QueryableResultRepository {
	return &ResultRepositoryImpl{
		db:     db,
		model:  modelName,
		mapper: mapper.NewClassificationResultMapper(),
	}
}

func (r *ResultRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResultRepositoryImpl) Load(ctx context.Context) (*entity.ResultCollection, error) {
	records, err := r.FindAll(ctx, specification.ByModel{Model: r.model}, specification.InsertionOrder())
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return entity.NewResultCollection(records), nil
}

// Append inserts one row. A row that already exists for the same identifier
// and model is left untouched.
func (r *ResultRepositoryImpl) Append(ctx context.Context, results *entity.ResultCollection, record *entity.ClassificationResult) error {
	results.Add(record)

	m := r.mapper.ToModel(record)
	if m.Model == "" {
		m.Model = r.model
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("insert result %s: %w", record.ID, err)
	}
	return nil
}

func (r *ResultRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassificationResult, error) {
	var models []*model.ClassificationResult
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ResultRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ClassificationResult{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

package contract

import (
	"context"

	"srh-intent/internal/entity"
	"srh-intent/internal/repository/specification"
)

// ResultRepository persists classification results. Load is called once per
// run; Append adds record to results and makes the new state durable before
// returning.
type ResultRepository interface {
	Load(ctx context.Context) (*entity.ResultCollection, error)
	Append(ctx context.Context, results *entity.ResultCollection, record *entity.ClassificationResult) error
}

// QueryableResultRepository is implemented by stores that can filter results.
type QueryableResultRepository interface {
	ResultRepository
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassificationResult, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

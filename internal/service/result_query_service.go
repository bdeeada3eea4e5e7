package service

import (
	"context"
	"fmt"

	"srh-intent/internal/entity"
	"srh-intent/internal/repository/contract"
	"srh-intent/internal/repository/specification"
)

// ResultPage is one page of stored results, newest first, with the number of
// results matching the filter overall.
type ResultPage struct {
	Records []*entity.ClassificationResult
	Total   int64
}

// ResultQueryService lists results kept in the postgres mirror, e.g. the
// failed rows of one run.
type ResultQueryService struct {
	repo contract.QueryableResultRepository
}

func NewResultQueryService(repo contract.QueryableResultRepository) *ResultQueryService {
	return &ResultQueryService{repo: repo}
}

func (s *ResultQueryService) List(ctx context.Context, filter specification.ResultFilter, page specification.Pagination) (*ResultPage, error) {
	specs := filter.Specifications()

	total, err := s.repo.Count(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	listSpecs := append(append([]specification.Specification{}, specs...), specification.NewestFirst(), page)
	records, err := s.repo.FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	return &ResultPage{Records: records, Total: total}, nil
}

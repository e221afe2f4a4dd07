package service

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/intake"
	"github.com/cloo-solutions/geomed/internal/telemetry"
)

// SearchService handles the single-search path and history reads
type SearchService struct {
	repo    SearchRepositoryInterface
	invoker *Invoker
}

func NewSearchService(repo SearchRepositoryInterface, invoker *Invoker) *SearchService {
	return &SearchService{repo: repo, invoker: invoker}
}

// Predict validates one request, calls the Oracle once and stores the result.
// Any failure fails the whole request.
func (s *SearchService) Predict(ctx context.Context, in domain.ProfessionalInput) (*domain.SearchRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "search.predict", telemetry.SpanAttributes{})
	defer span.End()

	in, err := intake.ValidateSearch(in)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	rec, err := s.invoker.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}
	span.SetData("search_id", rec.ID)

	if err := s.repo.Append(ctx, rec); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to save search: %w", err)
	}
	return rec, nil
}

func (s *SearchService) Get(ctx context.Context, id string) (*domain.SearchRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "search.get", telemetry.SpanAttributes{SearchID: id})
	defer span.End()

	return s.repo.GetByID(ctx, id)
}

// List returns the full history, most recent first.
func (s *SearchService) List(ctx context.Context) ([]*domain.SearchRecord, error) {
	return s.repo.ListAll(ctx)
}

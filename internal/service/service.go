package service

import (
	"context"
	"time"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/google/uuid"
)

// SearchRepositoryInterface is the history store: append-only plus point reads.
type SearchRepositoryInterface interface {
	Append(ctx context.Context, s *domain.SearchRecord) error
	GetByID(ctx context.Context, id string) (*domain.SearchRecord, error)
	ListAll(ctx context.Context) ([]*domain.SearchRecord, error)
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

func utcNow() time.Time {
	return time.Now().UTC()
}

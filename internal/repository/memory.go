package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/cloo-solutions/geomed/internal/domain"
)

// MemorySearchRepository keeps the history in process memory. It is used when
// no database is configured and in tests.
type MemorySearchRepository struct {
	mu      sync.RWMutex
	records []*domain.SearchRecord
	byID    map[string]*domain.SearchRecord
}

func NewMemorySearchRepository() *MemorySearchRepository {
	return &MemorySearchRepository{byID: make(map[string]*domain.SearchRecord)}
}

func (r *MemorySearchRepository) Append(ctx context.Context, s *domain.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateSearchRecord(s); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; ok {
		return domain.ErrSearchAlreadyExists
	}
	c := clone(s)
	r.records = append(r.records, c)
	r.byID[c.ID] = c
	return nil
}

func (r *MemorySearchRepository) GetByID(ctx context.Context, id string) (*domain.SearchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSearchNotFound
	}
	return clone(s), nil
}

// ListAll returns copies sorted by timestamp descending; ties keep the later append first.
func (r *MemorySearchRepository) ListAll(ctx context.Context) ([]*domain.SearchRecord, error) {
	r.mu.RLock()
	out := make([]*domain.SearchRecord, len(r.records))
	for i, s := range r.records {
		out[len(r.records)-1-i] = clone(s)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func clone(s *domain.SearchRecord) *domain.SearchRecord {
	c := *s
	c.Sources = append([]string(nil), s.Sources...)
	return &c
}

package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockOracle is a mock implementation of oracle.Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Predict(ctx context.Context, in domain.ProfessionalInput) (*domain.Prediction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prediction), args.Error(1)
}

// oracleFunc adapts a function to oracle.Oracle
type oracleFunc func(ctx context.Context, in domain.ProfessionalInput) (*domain.Prediction, error)

func (f oracleFunc) Predict(ctx context.Context, in domain.ProfessionalInput) (*domain.Prediction, error) {
	return f(ctx, in)
}

// MockSearchRepository is a mock implementation of SearchRepositoryInterface
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) Append(ctx context.Context, s *domain.SearchRecord) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSearchRepository) GetByID(ctx context.Context, id string) (*domain.SearchRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchRecord), args.Error(1)
}

func (m *MockSearchRepository) ListAll(ctx context.Context) ([]*domain.SearchRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SearchRecord), args.Error(1)
}

// MockArchiver is a mock implementation of UploadArchiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) ArchiveUpload(ctx context.Context, batchID, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, batchID, filename, contentType, data)
	return args.String(0), args.Error(1)
}

// recordingRepo is a concurrency-safe store that remembers appended records
type recordingRepo struct {
	mu      sync.Mutex
	records []*domain.SearchRecord
}

func (r *recordingRepo) Append(_ context.Context, s *domain.SearchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, s)
	return nil
}

func (r *recordingRepo) GetByID(_ context.Context, id string) (*domain.SearchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.records {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrSearchNotFound
}

func (r *recordingRepo) ListAll(_ context.Context) ([]*domain.SearchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*domain.SearchRecord(nil), r.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *recordingRepo) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.records))
	for i, s := range r.records {
		out[i] = s.Name
	}
	sort.Strings(out)
	return out
}

// sequentialUUIDs returns id-1, id-2, ...
type sequentialUUIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialUUIDs) NewString() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func confidence(v float64) *float64 { return &v }

func canadaPrediction() *domain.Prediction {
	return &domain.Prediction{
		PredictedCountry: "Canada",
		ConfidenceScore:  confidence(87.5),
		IsDoctor:         true,
		Sources:          []string{"AI Analysis", "Hospital Name Analysis"},
	}
}

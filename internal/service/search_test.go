package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Predict_Success(t *testing.T) {
	mockOracle := new(MockOracle)
	mockRepo := new(MockSearchRepository)
	svc := NewSearchService(mockRepo, newTestInvoker(mockOracle, time.Second))
	ctx := context.Background()

	padded := janeInput()
	padded.Name = "  Dr. Jane Doe "
	mockOracle.On("Predict", mock.Anything, janeInput()).Return(canadaPrediction(), nil)
	mockRepo.On("Append", mock.Anything, mock.MatchedBy(func(s *domain.SearchRecord) bool {
		return s.ID == "id-1" && s.Name == "Dr. Jane Doe"
	})).Return(nil)

	rec, err := svc.Predict(ctx, padded)

	require.NoError(t, err)
	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "Canada", rec.PredictedCountry)
	mockOracle.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestSearchService_Predict_ValidationError(t *testing.T) {
	mockOracle := new(MockOracle)
	mockRepo := new(MockSearchRepository)
	svc := NewSearchService(mockRepo, newTestInvoker(mockOracle, time.Second))

	in := janeInput()
	in.Email = "jane.x.edu"

	rec, err := svc.Predict(context.Background(), in)

	assert.Nil(t, rec)
	assert.True(t, domain.HasCode(err, domain.ErrCodeValidation))
	mockOracle.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSearchService_Predict_InferenceErrorNotPersisted(t *testing.T) {
	mockOracle := new(MockOracle)
	mockRepo := new(MockSearchRepository)
	svc := NewSearchService(mockRepo, newTestInvoker(mockOracle, time.Second))

	mockOracle.On("Predict", mock.Anything, janeInput()).Return(nil, errors.New("boom"))

	rec, err := svc.Predict(context.Background(), janeInput())

	assert.Nil(t, rec)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInference))
	mockRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSearchService_Predict_StoreError(t *testing.T) {
	mockOracle := new(MockOracle)
	mockRepo := new(MockSearchRepository)
	svc := NewSearchService(mockRepo, newTestInvoker(mockOracle, time.Second))

	storeErr := errors.New("connection reset")
	mockOracle.On("Predict", mock.Anything, janeInput()).Return(canadaPrediction(), nil)
	mockRepo.On("Append", mock.Anything, mock.Anything).Return(storeErr)

	rec, err := svc.Predict(context.Background(), janeInput())

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, storeErr)
}

func TestSearchService_Get(t *testing.T) {
	mockRepo := new(MockSearchRepository)
	svc := NewSearchService(mockRepo, nil)
	ctx := context.Background()

	want := &domain.SearchRecord{ID: "abc", Name: "Dr. Jane Doe"}
	mockRepo.On("GetByID", mock.Anything, "abc").Return(want, nil)
	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrSearchNotFound)

	got, err := svc.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.Get(ctx, "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrSearchNotFound)
}

func TestSearchService_List(t *testing.T) {
	mockRepo := new(MockSearchRepository)
	svc := NewSearchService(mockRepo, nil)

	records := []*domain.SearchRecord{{ID: "b"}, {ID: "a"}}
	mockRepo.On("ListAll", mock.Anything).Return(records, nil)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, records, got)
}

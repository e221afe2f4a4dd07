package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/geomed/internal/api"
	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Predict(ctx context.Context, in domain.ProfessionalInput) (*domain.SearchRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchRecord), args.Error(1)
}

func (m *MockSearchService) Get(ctx context.Context, id string) (*domain.SearchRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchRecord), args.Error(1)
}

func (m *MockSearchService) List(ctx context.Context) ([]*domain.SearchRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SearchRecord), args.Error(1)
}

func newTestRecord(id string) *domain.SearchRecord {
	return &domain.SearchRecord{
		ID:               id,
		Name:             "Dr. Jane Doe",
		Email:            "jane@x.edu",
		Hospital:         "Toronto General",
		PubMedTopic:      "Oncology",
		PredictedCountry: "Canada",
		ConfidenceScore:  85,
		City:             domain.StringPtr("Toronto"),
		IsDoctor:         true,
		Sources:          []string{"AI Analysis", "Hospital Name Analysis"},
		Timestamp:        time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC),
	}
}

func requestWithID(method, url, id string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSearchHandler_Predict_Success(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Predict", mock.Anything, domain.ProfessionalInput{
		Name:        "Dr. Jane Doe",
		Email:       "jane@x.edu",
		Hospital:    "Toronto General",
		PubMedTopic: "Oncology",
	}).Return(newTestRecord("s-1"), nil)

	body := `{"name":"Dr. Jane Doe","email":"jane@x.edu","hospital":"Toronto General","pubmed_topic":"Oncology"}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict-country", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s-1", resp["id"])
	assert.Equal(t, "Canada", resp["predicted_country"])
	assert.Equal(t, 85.0, resp["confidence_score"])
	assert.Equal(t, "Toronto", resp["city"])
	assert.Nil(t, resp["specialty"])
	assert.Equal(t, "2026-03-09T15:04:05Z", resp["timestamp"])
	mockSvc.AssertExpectations(t)
}

func TestSearchHandler_Predict_InvalidBody(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/predict-country", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestSearchHandler_Predict_ValidationError(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Predict", mock.Anything, mock.Anything).Return(nil, domain.ValidationError("email is required"))

	req := httptest.NewRequest(http.MethodPost, "/api/predict-country", bytes.NewReader([]byte(`{"name":"x"}`)))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "email is required", resp.Detail)
}

func TestSearchHandler_Predict_InferenceError(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Predict", mock.Anything, mock.Anything).Return(nil, domain.InferenceError("prediction failed", assert.AnError))

	req := httptest.NewRequest(http.MethodPost, "/api/predict-country", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	handler.Predict(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSearchHandler_List(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("List", mock.Anything).Return([]*domain.SearchRecord{newTestRecord("b"), newTestRecord("a")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search-history", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "b", resp[0].ID)
	assert.Equal(t, "a", resp[1].ID)
}

func TestSearchHandler_List_EmptyIsArray(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("List", mock.Anything).Return([]*domain.SearchRecord{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search-history", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSearchHandler_Get(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Get", mock.Anything, "s-1").Return(newTestRecord("s-1"), nil)

	w := httptest.NewRecorder()
	handler.Get(w, requestWithID(http.MethodGet, "/api/search-history/s-1", "s-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s-1", resp.ID)
	assert.Equal(t, []string{"AI Analysis", "Hospital Name Analysis"}, resp.Sources)
}

func TestSearchHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockSearchService)
	handler := NewSearchHandler(mockSvc)

	mockSvc.On("Get", mock.Anything, "missing").Return(nil, domain.ErrSearchNotFound)

	w := httptest.NewRecorder()
	handler.Get(w, requestWithID(http.MethodGet, "/api/search-history/missing", "missing"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "search not found", resp.Detail)
}

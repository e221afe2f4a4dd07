package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloo-solutions/geomed/internal/api"
	"github.com/cloo-solutions/geomed/internal/export"
	"github.com/cloo-solutions/geomed/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, format export.Format) (*service.ExportResult, error) {
	args := m.Called(ctx, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func TestExportHandler_Excel(t *testing.T) {
	mockSvc := new(MockExportService)
	handler := NewExportHandler(mockSvc)

	mockSvc.On("Export", mock.Anything, export.FormatXLSX).Return(&service.ExportResult{
		Filename:    "geomed_hcp_history_20260309_150405.xlsx",
		ContentType: export.XLSXContentType,
		Data:        []byte("PK"),
	}, nil)

	w := httptest.NewRecorder()
	handler.Excel(w, httptest.NewRequest(http.MethodGet, "/api/export-history-excel", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=geomed_hcp_history_20260309_150405.xlsx", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", w.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestExportHandler_CSV(t *testing.T) {
	mockSvc := new(MockExportService)
	handler := NewExportHandler(mockSvc)

	mockSvc.On("Export", mock.Anything, export.FormatCSV).Return(&service.ExportResult{
		Filename:    "geomed_hcp_history_20260309_150405.csv",
		ContentType: export.CSVContentType,
		Data:        []byte("\"Name\"\n"),
	}, nil)

	w := httptest.NewRecorder()
	handler.CSV(w, httptest.NewRequest(http.MethodGet, "/api/export-history-csv", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.CSVContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "\"Name\"\n", w.Body.String())
}

func TestExportHandler_StoreError(t *testing.T) {
	mockSvc := new(MockExportService)
	handler := NewExportHandler(mockSvc)

	mockSvc.On("Export", mock.Anything, export.FormatXLSX).Return(nil, errors.New("pool closed"))

	w := httptest.NewRecorder()
	handler.Excel(w, httptest.NewRequest(http.MethodGet, "/api/export-history-excel", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Detail)
}

func TestRootAndHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Root(w, httptest.NewRequest(http.MethodGet, "/api/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"GeoMed AI - Healthcare Professional Country Predictor"}`, w.Body.String())

	w = httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

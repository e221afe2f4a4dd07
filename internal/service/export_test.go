package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestExportService(repo SearchRepositoryInterface) *ExportService {
	svc := NewExportService(repo, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestExportService_Export_CSVFollowsListOrder(t *testing.T) {
	mockRepo := new(MockSearchRepository)
	svc := newTestExportService(mockRepo)

	newer := &domain.SearchRecord{ID: "2", Name: "Newer", PredictedCountry: "Japan", ConfidenceScore: 70, Timestamp: fixedNow}
	older := &domain.SearchRecord{ID: "1", Name: "Older", PredictedCountry: "Wales", ConfidenceScore: 60, Timestamp: fixedNow.Add(-time.Hour)}
	mockRepo.On("ListAll", mock.Anything).Return([]*domain.SearchRecord{newer, older}, nil)

	res, err := svc.Export(context.Background(), export.FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "geomed_hcp_history_20260309_150405.csv", res.Filename)
	assert.Equal(t, export.CSVContentType, res.ContentType)
	assert.Equal(t, 2, res.Records)

	lines := strings.Split(strings.TrimSuffix(string(res.Data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"Newer"`))
	assert.True(t, strings.HasPrefix(lines[2], `"Older"`))
}

func TestExportService_Export_EmptyHistory(t *testing.T) {
	svc := newTestExportService(&recordingRepo{})

	res, err := svc.Export(context.Background(), export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(res.Data), "\n"))
	assert.Zero(t, res.Records)

	res, err = svc.Export(context.Background(), export.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, export.XLSXContentType, res.ContentType)
	assert.True(t, strings.HasSuffix(res.Filename, ".xlsx"))
	assert.NotEmpty(t, res.Data)
}

func TestExportService_Export_StoreError(t *testing.T) {
	mockRepo := new(MockSearchRepository)
	svc := newTestExportService(mockRepo)

	storeErr := errors.New("timeout")
	mockRepo.On("ListAll", mock.Anything).Return(nil, storeErr)

	res, err := svc.Export(context.Background(), export.FormatXLSX)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, storeErr)
}

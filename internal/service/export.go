package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloo-solutions/geomed/internal/export"
	"github.com/cloo-solutions/geomed/internal/metrics"
	"github.com/cloo-solutions/geomed/internal/telemetry"
)

// ExportResult is a fully rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Records     int
}

// ExportService renders the current history on demand; nothing is cached.
type ExportService struct {
	repo    SearchRepositoryInterface
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewExportService(repo SearchRepositoryInterface, m *metrics.Metrics) *ExportService {
	return &ExportService{repo: repo, now: utcNow, metrics: m}
}

// Export encodes every record in ListAll order. An empty history yields a header-only file.
func (s *ExportService) Export(ctx context.Context, format export.Format) (*ExportResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "export.render", telemetry.SpanAttributes{Format: string(format)})
	defer span.End()

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	var buf bytes.Buffer
	if err := export.Encode(format, &buf, records); err != nil {
		span.SetError(err)
		return nil, err
	}

	s.metrics.IncrementExport(string(format))
	return &ExportResult{
		Filename:    format.Filename(s.now()),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
		Records:     len(records),
	}, nil
}

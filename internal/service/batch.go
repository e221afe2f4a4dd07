package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/intake"
	"github.com/cloo-solutions/geomed/internal/metrics"
	"github.com/cloo-solutions/geomed/internal/spreadsheet"
	"github.com/cloo-solutions/geomed/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

const DefaultBatchWorkers = 4

// UploadArchiver keeps a copy of each accepted batch file.
type UploadArchiver interface {
	ArchiveUpload(ctx context.Context, batchID, filename, contentType string, data []byte) (string, error)
}

// BatchInput is one uploaded file.
type BatchInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BatchService drives uploaded rows through normalize, invoke and store.
type BatchService struct {
	repo     SearchRepositoryInterface
	invoker  *Invoker
	workers  int
	archiver UploadArchiver
	uuidGen  UUIDGenerator
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type BatchServiceConfig struct {
	Workers  int
	Archiver UploadArchiver
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

func NewBatchService(repo SearchRepositoryInterface, invoker *Invoker, cfg BatchServiceConfig) *BatchService {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultBatchWorkers
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &BatchService{
		repo:     repo,
		invoker:  invoker,
		workers:  cfg.Workers,
		archiver: cfg.Archiver,
		uuidGen:  &DefaultUUIDGenerator{},
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Process parses the upload and processes every row. Only an undecodable
// file fails the call; row failures land in the report.
func (s *BatchService) Process(ctx context.Context, in BatchInput) (*domain.BatchReport, error) {
	batchID := s.uuidGen.NewString()
	ctx, span := telemetry.StartSpan(ctx, "batch.process", telemetry.SpanAttributes{
		BatchID:  batchID,
		Filename: in.Filename,
	})
	defer span.End()

	sheet, err := spreadsheet.Parse(in.Filename, in.Data)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	s.archive(ctx, batchID, in)

	report := s.ProcessRows(ctx, batchID, sheet.Rows)
	s.metrics.IncrementBatch()
	span.SetData("total_processed", report.TotalProcessed)
	span.SetData("failed", report.Failed)
	s.logger.InfoContext(ctx, "batch processed",
		"batch_id", batchID,
		"filename", in.Filename,
		"total_processed", report.TotalProcessed,
		"successful", report.Successful,
		"failed", report.Failed,
	)
	return report, nil
}

// ProcessRows runs the rows on a bounded worker pool and folds the outcomes in row order,
// so counts and error order do not depend on completion order.
func (s *BatchService) ProcessRows(ctx context.Context, batchID string, rows []spreadsheet.Row) *domain.BatchReport {
	outcomes := make([]error, len(rows))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, row := range rows {
		g.Go(func() error {
			outcomes[i] = s.processRow(ctx, row)
			return nil
		})
	}
	_ = g.Wait()

	report := domain.NewBatchReport()
	for i, err := range outcomes {
		if err != nil {
			s.logger.WarnContext(ctx, "batch row failed",
				"batch_id", batchID,
				"row", rows[i].Number,
				"error", err,
			)
			report.RecordFailure(rows[i].Number, err.Error())
			continue
		}
		report.RecordSuccess()
	}
	return report
}

func (s *BatchService) processRow(ctx context.Context, row spreadsheet.Row) error {
	in, err := intake.NormalizeRow(row.Cells)
	if err != nil {
		s.metrics.IncrementBatchRow("validation_error")
		return err
	}

	rec, err := s.invoker.Invoke(ctx, in)
	if err != nil {
		s.metrics.IncrementBatchRow("inference_error")
		return err
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		s.metrics.IncrementBatchRow("store_error")
		return fmt.Errorf("failed to save result: %w", err)
	}

	s.metrics.IncrementBatchRow("success")
	return nil
}

func (s *BatchService) archive(ctx context.Context, batchID string, in BatchInput) {
	if s.archiver == nil {
		return
	}
	key, err := s.archiver.ArchiveUpload(ctx, batchID, in.Filename, in.ContentType, in.Data)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to archive upload", "batch_id", batchID, "error", err)
		return
	}
	telemetry.AddBreadcrumb(ctx, "batch", "archived upload "+key)
	s.logger.DebugContext(ctx, "upload archived", "batch_id", batchID, "key", key)
}

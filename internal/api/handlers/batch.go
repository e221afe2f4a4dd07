package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/cloo-solutions/geomed/internal/api"
	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/export"
	"github.com/cloo-solutions/geomed/internal/service"
	"github.com/cloo-solutions/geomed/internal/spreadsheet"
)

// DefaultMaxUploadBytes bounds the multipart body of a batch upload.
const DefaultMaxUploadBytes int64 = 10 << 20

const uploadField = "file"

type BatchServiceInterface interface {
	Process(ctx context.Context, in service.BatchInput) (*domain.BatchReport, error)
}

type BatchHandler struct {
	service  BatchServiceInterface
	maxBytes int64
}

func NewBatchHandler(svc BatchServiceInterface, maxBytes int64) *BatchHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &BatchHandler{service: svc, maxBytes: maxBytes}
}

// Upload accepts one spreadsheet in the "file" form field and returns the batch report.
func (h *BatchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		api.Error(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		if api.BodyTooLarge(err) {
			api.Error(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	report, err := h.service.Process(r.Context(), service.BatchInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, report)
}

// Template serves the import template workbook.
func (h *BatchHandler) Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Download(w, spreadsheet.TemplateFilename, export.XLSXContentType, buf.Bytes())
}

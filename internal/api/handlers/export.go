package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/geomed/internal/api"
	"github.com/cloo-solutions/geomed/internal/export"
	"github.com/cloo-solutions/geomed/internal/service"
)

type ExportServiceInterface interface {
	Export(ctx context.Context, format export.Format) (*service.ExportResult, error)
}

type ExportHandler struct {
	service ExportServiceInterface
}

func NewExportHandler(svc ExportServiceInterface) *ExportHandler {
	return &ExportHandler{service: svc}
}

func (h *ExportHandler) Excel(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, export.FormatXLSX)
}

func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, export.FormatCSV)
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, format export.Format) {
	res, err := h.service.Export(r.Context(), format)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Download(w, res.Filename, res.ContentType, res.Data)
}

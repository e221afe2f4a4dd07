package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cloo-solutions/geomed/internal/api"
	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/go-chi/chi/v5"
)

type SearchServiceInterface interface {
	Predict(ctx context.Context, in domain.ProfessionalInput) (*domain.SearchRecord, error)
	Get(ctx context.Context, id string) (*domain.SearchRecord, error)
	List(ctx context.Context) ([]*domain.SearchRecord, error)
}

type SearchHandler struct {
	service SearchServiceInterface
}

func NewSearchHandler(svc SearchServiceInterface) *SearchHandler {
	return &SearchHandler{service: svc}
}

type PredictRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Hospital    string `json:"hospital"`
	PubMedTopic string `json:"pubmed_topic"`
}

// SearchResponse is the wire form of a SearchRecord. Absent optional fields are null.
type SearchResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Hospital         string    `json:"hospital"`
	PubMedTopic      string    `json:"pubmed_topic"`
	PredictedCountry string    `json:"predicted_country"`
	ConfidenceScore  float64   `json:"confidence_score"`
	City             *string   `json:"city"`
	Reasoning        *string   `json:"reasoning"`
	IsDoctor         bool      `json:"is_doctor"`
	Specialty        *string   `json:"specialty"`
	PublicProfileURL *string   `json:"public_profile_url"`
	Sources          []string  `json:"sources"`
	Timestamp        time.Time `json:"timestamp"`
}

func toSearchResponse(r *domain.SearchRecord) SearchResponse {
	sources := r.Sources
	if sources == nil {
		sources = []string{}
	}
	return SearchResponse{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Hospital:         r.Hospital,
		PubMedTopic:      r.PubMedTopic,
		PredictedCountry: r.PredictedCountry,
		ConfidenceScore:  r.ConfidenceScore,
		City:             r.City,
		Reasoning:        r.Reasoning,
		IsDoctor:         r.IsDoctor,
		Specialty:        r.Specialty,
		PublicProfileURL: r.PublicProfileURL,
		Sources:          sources,
		Timestamp:        r.Timestamp.UTC(),
	}
}

func (h *SearchHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if api.BodyTooLarge(err) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.service.Predict(r.Context(), domain.ProfessionalInput{
		Name:        req.Name,
		Email:       req.Email,
		Hospital:    req.Hospital,
		PubMedTopic: req.PubMedTopic,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toSearchResponse(rec))
}

func (h *SearchHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]SearchResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toSearchResponse(rec))
	}
	api.JSON(w, http.StatusOK, resp)
}

func (h *SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, toSearchResponse(rec))
}
